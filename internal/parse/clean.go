package parse

import (
	"errors"
	"strings"
)

var errNoObject = errors.New("response does not contain a JSON object")

// CleanMarkdownCodeBlocks strips a surrounding ``` fence, with or without
// a language tag. Unfenced content is returned trimmed.
func CleanMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	// Drop the language tag line, if any.
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(content[:nl]); !strings.ContainsAny(tag, "{}") {
			content = content[nl+1:]
		}
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}

// ExtractJSON returns the span from the first '{' to the last '}'.
func ExtractJSON(content string) (string, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return "", errNoObject
	}
	return content[start : end+1], nil
}

package parse

import "testing"

func TestCleanMarkdownCodeBlocks(t *testing.T) {
	const obj = `{"title":"Call Bob"}`
	tests := []struct {
		name string
		in   string
	}{
		{"no fence", obj},
		{"no fence with whitespace", "\n  " + obj + "  \n"},
		{"fence with language tag", "```json\n" + obj + "\n```"},
		{"fence without language tag", "```\n" + obj + "\n```"},
		{"fence on one line", "```" + obj + "```"},
		{"fence with other tag", "```JSON\n" + obj + "\n```\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdownCodeBlocks(tt.in); got != obj {
				t.Errorf("CleanMarkdownCodeBlocks(%q) = %q, want %q", tt.in, got, obj)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: `Sure! Here it is: {"a":{"b":2}} Hope that helps.`, want: `{"a":{"b":2}}`},
		{in: "I could not understand that.", wantErr: true},
		{in: "} backwards {", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ExtractJSON(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractJSON(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ExtractJSON(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/notexe/nevermiss/internal/reminder"
)

const systemPrompt = "You are a reminder parsing assistant. You extract structured fields from a user's note about a reminder or appointment and answer with one raw JSON object."

// BuildPrompt renders the extraction prompt for input. ref anchors
// relative expressions such as "next week".
func BuildPrompt(input string, ref time.Time) string {
	quoted := func(vals []string) string {
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = "'" + v + "'"
		}
		return strings.Join(out, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s (%s).\n\n", ref.Format(reminder.DateLayout), ref.Weekday())
	fmt.Fprintf(&b, "User input: %q\n\n", input)
	b.WriteString("Return ONLY valid JSON (no markdown, no code blocks) with exactly these fields:\n")
	b.WriteString("- title: a concise title for the reminder (string)\n")
	fmt.Fprintf(&b, "- category: one of %s (string)\n", quoted(reminder.Categories))
	b.WriteString("- date: date in YYYY-MM-DD format if determinable, otherwise null (string or null)\n")
	b.WriteString("- time: time in HH:MM 24-hour format if mentioned, otherwise null (string or null)\n")
	fmt.Fprintf(&b, "- priority: one of %s (string)\n", quoted(reminder.Priorities))
	b.WriteString("- notes: any additional details from the input (string)\n")
	b.WriteString("- confidence: confidence from 0 to 1 that the parsing is correct (number)\n\n")
	b.WriteString("Resolve relative dates such as \"next Thursday\" or \"next week\" against today's date above.\n")
	b.WriteString("If the date cannot be determined at all, set it to null.\n")
	b.WriteString("Return ONLY the JSON object, starting with { and ending with }.")
	return b.String()
}

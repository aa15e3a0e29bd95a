package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/notexe/nevermiss/internal/reminder"
)

// DashboardMarkdown renders rows as a markdown table. Rows are expected
// in display order, as returned by reminder.Annotate.
func DashboardMarkdown(rows []reminder.Row, summary reminder.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%d** total · **%d** pending · **%d** completed · **%d** overdue\n\n",
		summary.Total, summary.Pending, summary.Completed, summary.Overdue)

	if len(rows) == 0 {
		b.WriteString("_No reminders yet._\n")
		return b.String()
	}

	b.WriteString("| ID | Status | Date | Time | Title | Category | Priority | Notes | Created |\n")
	b.WriteString("|---:|---|---|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.ID,
			statusMark(r),
			orDash(reminder.Deref(r.Date)),
			orDash(reminder.Deref(r.Time)),
			cell(r.Title),
			r.Category,
			r.Priority,
			orDash(cell(r.Notes)),
			orDash(createdDay(r.CreatedAt)))
	}
	return b.String()
}

func statusMark(r reminder.Row) string {
	switch {
	case r.IsCompleted():
		return "✓ done"
	case r.Overdue:
		return "⚠ overdue"
	default:
		return "pending"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// createdDay trims an RFC 3339 timestamp to its date.
func createdDay(ts string) string {
	if len(ts) > len(reminder.DateLayout) {
		return ts[:len(reminder.DateLayout)]
	}
	return ts
}

// cell keeps user text from breaking the table.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// RenderDashboard renders the dashboard for the terminal. Plain mode
// returns the markdown unchanged.
func RenderDashboard(rows []reminder.Row, summary reminder.Summary, colored bool) string {
	md := DashboardMarkdown(rows, summary)
	if !colored {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n")
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/nevermiss/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")).
			Width(10)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type Formatter struct {
	colored  bool
	provider string
}

func NewFormatter(colored bool, provider string) *Formatter {
	return &Formatter{
		colored:  colored,
		provider: formatProviderName(provider),
	}
}

func (f *Formatter) Colored() bool {
	return f.colored
}

// formatProviderName returns a display-friendly provider name.
func formatProviderName(provider string) string {
	switch provider {
	case "deepseek":
		return "DeepSeek"
	case "ollama":
		return "Ollama"
	case "":
		return "AI"
	default:
		return strings.ToUpper(provider[:1]) + provider[1:]
	}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatStatus(msg string) string {
	return f.render(StatusStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, "✓ ") + msg
}

func (f *Formatter) FormatWarning(msg string) string {
	return f.render(WarningStyle, "! "+msg)
}

// FormatNotice renders the persistent banner shown while parsing is disabled.
func (f *Formatter) FormatNotice(msg string) string {
	return f.FormatBox("AI parsing unavailable", msg+"\nListing, summary and /done still work.")
}

func (f *Formatter) FormatWelcome(model, storePath string) string {
	lines := []string{
		f.render(HeaderStyle, "NeverMiss • "+f.provider),
		f.render(DimStyle, "Model: ") + model,
		f.render(DimStyle, "Store: ") + storePath,
		"",
		f.render(StatusStyle, "Describe a reminder, or type /help for commands"),
	}
	if f.colored {
		return "\n" + BoxStyle.Render(strings.Join(lines, "\n")) + "\n"
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

// FormatDraft shows a draft for review, with a warning when the parse was
// low-confidence.
func (f *Formatter) FormatDraft(d *reminder.Draft) string {
	field := func(label, value string) string {
		if value == "" {
			value = f.render(DimStyle, "(none)")
		}
		if f.colored {
			return LabelStyle.Render(label) + value
		}
		return fmt.Sprintf("%-10s%s", label, value)
	}

	body := strings.Join([]string{
		field("title", d.Title),
		field("category", d.Category),
		field("date", reminder.Deref(d.Date)),
		field("time", reminder.Deref(d.Time)),
		field("priority", d.Priority),
		field("notes", d.Notes),
	}, "\n")

	out := f.FormatBox("Review & edit", body)
	if d.IsLowConfidence() {
		out += "\n" + f.FormatWarning(fmt.Sprintf("Low confidence (%.0f%%) in parsing. Please review carefully.", d.Confidence*100))
	}
	out += "\n" + f.FormatStatus("/edit <field> <value> to change, /save to store, /discard to drop")
	return out
}

func (f *Formatter) FormatSummary(s reminder.Summary) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d   %s %s",
		f.render(DimStyle, "total"), s.Total,
		f.render(DimStyle, "pending"), s.Pending,
		f.render(DimStyle, "completed"), s.Completed,
		f.render(DimStyle, "overdue"), f.render(overdueStyle(s.Overdue), fmt.Sprint(s.Overdue)))
}

func overdueStyle(n int) lipgloss.Style {
	if n > 0 {
		return ErrorStyle
	}
	return SuccessStyle
}

func (f *Formatter) FormatHelp() string {
	cmd := func(c, desc string) string {
		if f.colored {
			return "  " + SuccessStyle.UnsetBold().Render(fmt.Sprintf("%-24s", c)) + desc
		}
		return fmt.Sprintf("  %-24s %s", c, desc)
	}

	lines := []string{
		"",
		f.render(HeaderStyle, "Commands"),
		"",
		cmd("<text>", "Parse free text into a draft"),
		cmd("/show", "Show the current draft"),
		cmd("/edit <field> <value>", "Edit title, date, time or notes"),
		cmd("/edit category|priority", "Pick from the allowed values"),
		cmd("/save", "Store the draft"),
		cmd("/discard", "Drop the draft"),
		cmd("/list [pending|completed]", "Dashboard sorted by date"),
		cmd("/summary", "Counts by status"),
		cmd("/done <id>", "Mark a reminder completed"),
		cmd("/undo <id>", "Mark a reminder pending again"),
		cmd("/help", "Show this help"),
		cmd("/quit", "Exit"),
		"",
		f.render(DimStyle, "  Ctrl+C or Ctrl+D to exit"),
		"",
	}
	return strings.Join(lines, "\n")
}

// FormatPrompt returns the input prompt. It carries a marker while a draft
// is waiting for review.
func (f *Formatter) FormatPrompt(hasDraft bool) string {
	label := "nevermiss"
	if hasDraft {
		label += "*"
	}
	if f.colored {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(label) +
			lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true).Render(" > ")
	}
	return label + " > "
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		return HeaderStyle.Render(title) + "\n" + BoxStyle.Render(content)
	}
	return title + "\n" + content
}

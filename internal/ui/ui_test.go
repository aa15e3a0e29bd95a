package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/notexe/nevermiss/internal/reminder"
)

func TestDashboardMarkdown(t *testing.T) {
	rows := []reminder.Row{
		{Reminder: reminder.Reminder{ID: 2, Title: "Pay | rent", Category: "task", Date: reminder.StringPtr("2024-01-02"), Priority: "High", Notes: "landlord\nportal", Status: reminder.StatusPending, CreatedAt: "2023-12-30T08:15:00Z"}, Overdue: true},
		{Reminder: reminder.Reminder{ID: 1, Title: "Call\nmom", Category: "follow-up", Priority: "Low", Status: reminder.StatusCompleted}},
	}
	md := DashboardMarkdown(rows, reminder.Summary{Total: 2, Pending: 1, Completed: 1, Overdue: 1})

	for _, want := range []string{
		"**2** total",
		"**1** overdue",
		`| 2 | ⚠ overdue | 2024-01-02 | - | Pay \| rent | task | High | landlord portal | 2023-12-30 |`,
		"| 1 | ✓ done | - | - | Call mom | follow-up | Low | - | - |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "| 2 |") > strings.Index(md, "| 1 |") {
		t.Error("rows should keep the given order")
	}
}

func TestDashboardMarkdownEmpty(t *testing.T) {
	md := DashboardMarkdown(nil, reminder.Summary{})
	if !strings.Contains(md, "No reminders yet") {
		t.Errorf("markdown = %q", md)
	}
}

func TestFormatDraftLowConfidence(t *testing.T) {
	f := NewFormatter(false, "deepseek")
	d := &reminder.Draft{Title: "Lunch", Category: "task", Priority: "Low", Confidence: 0.4}

	out := f.FormatDraft(d)
	if !strings.Contains(out, "Low confidence (40%)") {
		t.Errorf("missing warning:\n%s", out)
	}
	if !strings.Contains(out, "(none)") {
		t.Errorf("absent date should be shown as (none):\n%s", out)
	}

	d.Confidence = 0.9
	if strings.Contains(f.FormatDraft(d), "Low confidence") {
		t.Error("confident draft should not warn")
	}
}

func TestSelectorFallback(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2\n", "Medium", false},
		{"\n", "Low", false},
		{"7\n", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		s := NewSelector("Priority?", reminder.Priorities, "Low", false)
		s.in = strings.NewReader(tt.input)
		s.out = &bytes.Buffer{}

		got, err := s.Run()
		if tt.wantErr {
			if err == nil {
				t.Errorf("input %q: expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("input %q: got %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	s := NewSelector("Priority?", reminder.Priorities, "", false)
	s.in = strings.NewReader("")
	s.out = &bytes.Buffer{}
	if _, err := s.Run(); !errors.Is(err, ErrCancelled) {
		t.Errorf("EOF err = %v, want ErrCancelled", err)
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, false)

	s.Start("Parsing")
	s.StopWithMessage("done")
	s.Stop()

	if !strings.HasSuffix(buf.String(), "✓ done\n") {
		t.Errorf("output = %q", buf.String())
	}
}

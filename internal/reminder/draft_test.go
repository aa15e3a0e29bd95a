package reminder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/notexe/nevermiss/internal/apperr"
)

func validDraft() Draft {
	return Draft{
		Title:      "  Doctor appointment ",
		Category:   CategoryAppointment,
		Date:       StringPtr("2024-01-04"),
		Time:       StringPtr("15:00"),
		Priority:   PriorityMedium,
		Notes:      "bring card",
		Confidence: 0.9,
	}
}

func TestCommit(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	r, err := validDraft().Commit(7, "Doctor appointment next Thursday at 3pm", now)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if r.ID != 7 {
		t.Errorf("ID = %d", r.ID)
	}
	if r.Title != "Doctor appointment" {
		t.Errorf("Title = %q, want trimmed", r.Title)
	}
	if r.Status != StatusPending {
		t.Errorf("Status = %q", r.Status)
	}
	if r.CreatedAt != "2024-01-01T09:00:00Z" {
		t.Errorf("CreatedAt = %q", r.CreatedAt)
	}
	if Deref(r.Date) != "2024-01-04" || Deref(r.Time) != "15:00" {
		t.Errorf("date/time = %v %v", Deref(r.Date), Deref(r.Time))
	}
	if r.RawInput != "Doctor appointment next Thursday at 3pm" {
		t.Errorf("RawInput = %q", r.RawInput)
	}
}

func TestCommitBlankDateTimeBecomesAbsent(t *testing.T) {
	d := validDraft()
	d.Date = StringPtr("   ")
	d.Time = StringPtr("")

	r, err := d.Commit(1, "", time.Now())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if r.Date != nil || r.Time != nil {
		t.Errorf("blank date/time should be nil, got %v %v", r.Date, r.Time)
	}
}

func TestCommitRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"whitespace title", func(d *Draft) { d.Title = "   " }, "title"},
		{"empty title", func(d *Draft) { d.Title = "" }, "title"},
		{"unknown category", func(d *Draft) { d.Category = "errand" }, "category"},
		{"unknown priority", func(d *Draft) { d.Priority = "urgent" }, "priority"},
		{"lowercase priority", func(d *Draft) { d.Priority = "high" }, "priority"},
		{"garbage date", func(d *Draft) { d.Date = StringPtr("next week") }, "date"},
		{"wrong date layout", func(d *Draft) { d.Date = StringPtr("04/01/2024") }, "date"},
		{"garbage time", func(d *Draft) { d.Time = StringPtr("3pm") }, "time"},
		{"single-digit hour", func(d *Draft) { d.Time = StringPtr("9:05") }, "time"},
		{"single-digit hour on the hour", func(d *Draft) { d.Time = StringPtr("3:00") }, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			_, err := d.Commit(1, "", time.Now())
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %q", err, tt.field)
			}
		})
	}
}

func TestIsLowConfidence(t *testing.T) {
	d := Draft{Confidence: 0.59}
	if !d.IsLowConfidence() {
		t.Error("0.59 should be low confidence")
	}
	d.Confidence = DefaultConfidence
	if d.IsLowConfidence() {
		t.Error("default confidence should not be low")
	}
}

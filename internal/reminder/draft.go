package reminder

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/notexe/nevermiss/internal/apperr"
)

// clockTime requires two-digit hours; the 15:04 layout alone accepts "9:05".
var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// DefaultConfidence is assumed when the completion endpoint omits one.
const DefaultConfidence = 0.8

// LowConfidence is the threshold below which a draft deserves a careful review.
const LowConfidence = 0.6

// Draft is the structured proposal produced by the parse pipeline. It is
// never stored directly; Commit turns a reviewed draft into a Reminder.
type Draft struct {
	Title      string  `json:"title" yaml:"title"`
	Category   string  `json:"category" yaml:"category"`
	Date       *string `json:"date" yaml:"date"`
	Time       *string `json:"time" yaml:"time"`
	Priority   string  `json:"priority" yaml:"priority"`
	Notes      string  `json:"notes" yaml:"notes"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// IsLowConfidence reports whether the endpoint was unsure about the parse.
func (d *Draft) IsLowConfidence() bool {
	return d.Confidence < LowConfidence
}

// Validate checks the fields a persisted row must satisfy. Blank titles,
// out-of-set enum values and malformed date/time strings are rejected.
func (d Draft) Validate() error {
	d = d.normalized()
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Category, validation.Required, validation.In(anySlice(Categories)...)),
		validation.Field(&d.Priority, validation.Required, validation.In(anySlice(Priorities)...)),
		validation.Field(&d.Date, validation.Date(DateLayout).Error("must be a date in YYYY-MM-DD format")),
		validation.Field(&d.Time,
			validation.Date(TimeLayout).Error("must be a time in HH:MM format"),
			validation.Match(clockTime).Error("must be a time in HH:MM format"),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// Commit validates the draft and builds the row to append. Nothing is
// written here; the caller appends the result to the store.
func (d Draft) Commit(id int64, rawInput string, now time.Time) (Reminder, error) {
	if err := d.Validate(); err != nil {
		return Reminder{}, err
	}

	n := d.normalized()
	return Reminder{
		ID:        id,
		RawInput:  rawInput,
		Title:     n.Title,
		Category:  n.Category,
		Date:      n.Date,
		Time:      n.Time,
		Priority:  n.Priority,
		Notes:     n.Notes,
		Status:    StatusPending,
		CreatedAt: now.Format(time.RFC3339),
	}, nil
}

// normalized trims the free-text fields and turns blank date/time into nil.
func (d Draft) normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Date = StringPtr(strings.TrimSpace(Deref(d.Date)))
	d.Time = StringPtr(strings.TrimSpace(Deref(d.Time)))
	return d
}

func anySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

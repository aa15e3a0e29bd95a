// Package session holds the transient state of one capture session: the
// draft under review, the text it came from and whether parsing is
// available. The store and the parse pipeline stay stateless.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/metrics"
	"github.com/notexe/nevermiss/internal/reminder"
)

// Editable draft fields, as accepted by SetField.
const (
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldDate     = "date"
	FieldTime     = "time"
	FieldPriority = "priority"
	FieldNotes    = "notes"
)

var Fields = []string{FieldTitle, FieldCategory, FieldDate, FieldTime, FieldPriority, FieldNotes}

// ErrNoDraft is returned by edits and commits when nothing has been parsed yet.
var ErrNoDraft = errors.New("no draft to edit; describe a reminder first")

type State struct {
	store  *reminder.Store
	parser reminder.DraftParser
	now    func() time.Time

	draft    *reminder.Draft
	rawInput string
	// credErr explains why parser is nil.
	credErr error
	lastErr error
}

// New creates a session. A nil parser disables parsing; credErr, if set,
// is reported by Notice and by Parse.
func New(store *reminder.Store, parser reminder.DraftParser, credErr error) *State {
	return &State{
		store:   store,
		parser:  parser,
		now:     time.Now,
		credErr: credErr,
	}
}

func (s *State) APIEnabled() bool {
	return s.parser != nil
}

// Notice is the persistent message shown while parsing is unavailable.
func (s *State) Notice() string {
	if s.APIEnabled() {
		return ""
	}
	if s.credErr != nil {
		return s.credErr.Error()
	}
	return "AI parsing is disabled"
}

func (s *State) Store() *reminder.Store {
	return s.store
}

func (s *State) Now() time.Time {
	return s.now()
}

// Draft returns a copy of the draft under review, or nil.
func (s *State) Draft() *reminder.Draft {
	if s.draft == nil {
		return nil
	}
	d := *s.draft
	return &d
}

func (s *State) RawInput() string {
	return s.rawInput
}

// LastErr returns the error of the most recent failed action.
func (s *State) LastErr() error {
	return s.lastErr
}

// Parse runs input through the parser and holds the result as the new
// draft. The parser sees the trimmed text while the raw input is kept as
// typed. On failure the previous draft and raw input are kept.
func (s *State) Parse(ctx context.Context, input string) (*reminder.Draft, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, s.fail(fmt.Errorf("%w: input is empty", apperr.ErrValidation))
	}
	if !s.APIEnabled() {
		if s.credErr != nil {
			return nil, s.fail(s.credErr)
		}
		return nil, s.fail(apperr.ErrConfiguration)
	}

	d, err := s.parser.Parse(ctx, text, s.now())
	if err != nil {
		return nil, s.fail(err)
	}

	s.SetDraft(d, input)
	return s.Draft(), nil
}

// SetDraft replaces the held draft, e.g. with one built by hand.
func (s *State) SetDraft(d *reminder.Draft, rawInput string) {
	cp := *d
	s.draft = &cp
	s.rawInput = rawInput
	s.lastErr = nil
}

// SetField edits one field of the held draft. Values are checked on Commit.
func (s *State) SetField(field, value string) error {
	if s.draft == nil {
		return s.fail(ErrNoDraft)
	}

	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case FieldTitle:
		s.draft.Title = value
	case FieldCategory:
		s.draft.Category = value
	case FieldDate:
		s.draft.Date = reminder.StringPtr(value)
	case FieldTime:
		s.draft.Time = reminder.StringPtr(value)
	case FieldPriority:
		s.draft.Priority = value
	case FieldNotes:
		s.draft.Notes = value
	default:
		return s.fail(fmt.Errorf("%w: unknown field %q (one of: %s)", apperr.ErrValidation, field, strings.Join(Fields, ", ")))
	}
	return nil
}

// Commit validates the held draft, appends it to the store and clears it.
// A rejected draft stays in place for further edits.
func (s *State) Commit() (reminder.Reminder, error) {
	if s.draft == nil {
		return reminder.Reminder{}, s.fail(ErrNoDraft)
	}
	if err := s.draft.Validate(); err != nil {
		return reminder.Reminder{}, s.fail(err)
	}

	d := *s.draft
	r, err := s.store.Create(func(id int64) (reminder.Reminder, error) {
		return d.Commit(id, s.rawInput, s.now())
	})
	if err != nil {
		return reminder.Reminder{}, s.fail(err)
	}
	metrics.IncrementCreated("repl")

	s.Discard()
	return r, nil
}

// Discard drops the held draft.
func (s *State) Discard() {
	s.draft = nil
	s.rawInput = ""
	s.lastErr = nil
}

func (s *State) fail(err error) error {
	s.lastErr = err
	return err
}

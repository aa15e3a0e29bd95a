package parse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/notexe/nevermiss/internal/api"
	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/reminder"
)

type fakeProvider struct {
	content string
	err     error
	last    api.MessageRequest
	calls   int
}

func (f *fakeProvider) SendMessage(_ context.Context, req api.MessageRequest) (*api.MessageResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Content: f.content}, nil
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Close() error { return nil }

var monday = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestParseNextThursday(t *testing.T) {
	fp := &fakeProvider{content: `{"title":"Doctor appointment","category":"appointment","date":"2024-01-04","time":"15:00","priority":"High","notes":"","confidence":0.92}`}
	p := New(fp, WithModel("deepseek-chat"), WithTemperature(0.2))

	draft, err := p.Parse(context.Background(), "Doctor appointment next Thursday at 3pm", monday)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	prompt := fp.last.Messages[0].Content
	if !strings.Contains(prompt, "2024-01-01 (Monday)") {
		t.Errorf("prompt does not anchor the reference date:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Doctor appointment next Thursday at 3pm") {
		t.Error("prompt does not carry the input")
	}
	if fp.last.Model != "deepseek-chat" || fp.last.Temperature != 0.2 {
		t.Errorf("request = %+v", fp.last)
	}

	if reminder.Deref(draft.Date) != "2024-01-04" || reminder.Deref(draft.Time) != "15:00" {
		t.Errorf("date/time = %v %v", reminder.Deref(draft.Date), reminder.Deref(draft.Time))
	}
	if draft.Category != reminder.CategoryAppointment {
		t.Errorf("category = %q", draft.Category)
	}
	if draft.Confidence != 0.92 {
		t.Errorf("confidence = %v", draft.Confidence)
	}
}

func TestParseFencedResponse(t *testing.T) {
	fp := &fakeProvider{content: "```json\n{\"title\":\"Pay rent\",\"category\":\"task\",\"date\":null,\"time\":null,\"priority\":\"Medium\",\"notes\":\"\"}\n```"}

	draft, err := New(fp).Parse(context.Background(), "pay rent", monday)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if draft.Title != "Pay rent" || draft.Date != nil || draft.Time != nil {
		t.Errorf("draft = %+v", draft)
	}
	if draft.Confidence != reminder.DefaultConfidence {
		t.Errorf("missing confidence = %v, want %v", draft.Confidence, reminder.DefaultConfidence)
	}
}

func TestParseNonJSON(t *testing.T) {
	fp := &fakeProvider{content: "Sorry, I can't help with that."}

	draft, err := New(fp).Parse(context.Background(), "???", monday)
	if draft != nil {
		t.Errorf("draft = %+v, want nil", draft)
	}
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *Failure", err)
	}
	if !errors.Is(err, apperr.ErrParse) {
		t.Error("failure should wrap ErrParse")
	}
	if f.Reason == "" {
		t.Error("failure has no reason")
	}
}

func TestParseMalformedJSON(t *testing.T) {
	fp := &fakeProvider{content: `{"title": "x", "category": }`}
	_, err := New(fp).Parse(context.Background(), "x", monday)
	if !errors.Is(err, apperr.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestParseEndpointError(t *testing.T) {
	cause := errors.New("connection refused")
	fp := &fakeProvider{err: cause}

	_, err := New(fp).Parse(context.Background(), "x", monday)
	if !errors.Is(err, apperr.ErrParse) || !errors.Is(err, cause) {
		t.Errorf("err = %v, want ErrParse wrapping the cause", err)
	}
	if fp.calls != 1 {
		t.Errorf("calls = %d, want exactly one", fp.calls)
	}
}

func TestParseCoercion(t *testing.T) {
	fp := &fakeProvider{content: `{"title":"  Sync with Ana ","category":"meeting","date":"","time":"null","priority":"urgent","notes":" bring slides ","confidence":1.7}`}

	draft, err := New(fp).Parse(context.Background(), "sync with ana", monday)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if draft.Title != "Sync with Ana" || draft.Notes != "bring slides" {
		t.Errorf("text fields not trimmed: %+v", draft)
	}
	if draft.Category != "meeting" || draft.Priority != "urgent" {
		t.Errorf("out-of-set values should pass through, got %q %q", draft.Category, draft.Priority)
	}
	if draft.Date != nil || draft.Time != nil {
		t.Errorf("blank date/time should be nil: %v %v", draft.Date, draft.Time)
	}
	if draft.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", draft.Confidence)
	}
}

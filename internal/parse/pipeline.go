// Package parse turns free-text reminders into drafts with a single call
// to a completion endpoint.
package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/nevermiss/internal/api"
	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/metrics"
	"github.com/notexe/nevermiss/internal/reminder"
)

// Failure is returned when the endpoint call fails or its answer cannot
// be read as a draft. It wraps apperr.ErrParse.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("parse failed: %s: %v", f.Reason, f.Err)
	}
	return "parse failed: " + f.Reason
}

func (f *Failure) Unwrap() []error {
	if f.Err != nil {
		return []error{apperr.ErrParse, f.Err}
	}
	return []error{apperr.ErrParse}
}

type Pipeline struct {
	provider    api.Provider
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

type Option func(*Pipeline)

func WithModel(name string) Option {
	return func(p *Pipeline) { p.model = name }
}

func WithMaxTokens(n int) Option {
	return func(p *Pipeline) { p.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(p *Pipeline) { p.temperature = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over provider.
func New(provider api.Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:  provider,
		maxTokens: 512,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// payload mirrors the JSON object the endpoint is asked for.
type payload struct {
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Date       *string  `json:"date"`
	Time       *string  `json:"time"`
	Priority   string   `json:"priority"`
	Notes      string   `json:"notes"`
	Confidence *float64 `json:"confidence"`
}

// Parse sends input to the endpoint once and maps the answer to a draft.
// ref is the date relative expressions resolve against. Category and
// priority are returned as the endpoint gave them; Draft.Commit checks them.
func (p *Pipeline) Parse(ctx context.Context, input string, ref time.Time) (*reminder.Draft, error) {
	req := api.UserPrompt(systemPrompt, BuildPrompt(input, ref))
	req.Model = p.model
	req.MaxTokens = p.maxTokens
	req.Temperature = p.temperature

	name := p.provider.Name()
	start := time.Now()
	resp, err := p.provider.SendMessage(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordParse(name, metrics.OutcomeEndpointError, elapsed)
		p.logger.Warn("completion request failed",
			zap.String("provider", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, &Failure{Reason: "completion endpoint error", Err: err}
	}

	p.logger.Info("completion received",
		zap.String("provider", name),
		zap.Duration("elapsed", elapsed),
		zap.Int("bytes", len(resp.Content)),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	draft, err := decodeDraft(resp.Content)
	if err != nil {
		metrics.RecordParse(name, metrics.OutcomeInvalid, elapsed)
		p.logger.Warn("unreadable completion", zap.String("content", resp.Content), zap.Error(err))
		return nil, err
	}
	metrics.RecordParse(name, metrics.OutcomeOK, elapsed)
	return draft, nil
}

func decodeDraft(content string) (*reminder.Draft, error) {
	raw, err := ExtractJSON(CleanMarkdownCodeBlocks(content))
	if err != nil {
		return nil, &Failure{Reason: "endpoint did not return JSON", Err: err}
	}

	var pl payload
	if err := json.Unmarshal([]byte(raw), &pl); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &Failure{Reason: "endpoint returned malformed JSON", Err: err}
		}
		return nil, &Failure{Reason: "endpoint returned unexpected fields", Err: err}
	}

	confidence := reminder.DefaultConfidence
	if pl.Confidence != nil {
		confidence = min(max(*pl.Confidence, 0), 1)
	}

	return &reminder.Draft{
		Title:      strings.TrimSpace(pl.Title),
		Category:   pl.Category,
		Date:       optional(pl.Date),
		Time:       optional(pl.Time),
		Priority:   pl.Priority,
		Notes:      strings.TrimSpace(pl.Notes),
		Confidence: confidence,
	}, nil
}

// optional maps blank and "null" strings to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/metrics"
	"github.com/notexe/nevermiss/internal/reminder"
)

// Handler holds API route handlers.
type Handler struct {
	store   *reminder.Store
	parser  reminder.DraftParser
	notice  string
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration
}

type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithParser enables POST /api/reminders/parse.
func WithParser(p reminder.DraftParser) Option {
	return func(h *Handler) { h.parser = p }
}

// WithNotice sets the message returned while parsing is disabled.
func WithNotice(msg string) Option {
	return func(h *Handler) { h.notice = msg }
}

// WithParseTimeout bounds a parse request.
func WithParseTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// NewHandler creates a new Handler.
func NewHandler(store *reminder.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.parser == nil && h.notice == "" {
		h.notice = "AI parsing is disabled"
	}
	return h
}

// ListReminders handles GET /api/reminders?status=.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !reminder.ValidStatus(status) {
		h.writeJSON(w, http.StatusBadRequest, errorBody("status must be pending or completed"))
		return
	}

	rows, err := h.store.LoadAll()
	if err != nil {
		h.writeError(w, "list reminders failed", err)
		return
	}

	listed := reminder.Annotate(reminder.Filter(rows, status), h.now())
	resp := ListResponse{Reminders: listed, Total: len(listed)}
	if h.parser == nil {
		resp.Notice = h.notice
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ParseReminder handles POST /api/reminders/parse. Nothing is stored.
func (h *Handler) ParseReminder(w http.ResponseWriter, r *http.Request) {
	if h.parser == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorBody(h.notice))
		return
	}

	var req parseRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		h.writeJSON(w, http.StatusBadRequest, errorBody("input is required"))
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	draft, err := h.parser.Parse(ctx, input, h.now())
	if err != nil {
		h.writeError(w, "parse failed", err)
		return
	}

	h.writeJSON(w, http.StatusOK, ParseResponse{
		RawInput:      req.Input,
		Draft:         *draft,
		LowConfidence: draft.IsLowConfidence(),
	})
}

// CreateReminder handles POST /api/reminders with a reviewed draft.
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := req.Draft.Validate(); err != nil {
		h.writeError(w, "create reminder failed", err)
		return
	}

	rem, err := h.store.Create(func(id int64) (reminder.Reminder, error) {
		return req.Draft.Commit(id, req.RawInput, h.now())
	})
	if err != nil {
		h.writeError(w, "create reminder failed", err)
		return
	}

	metrics.IncrementCreated("http")
	h.logger.Info("reminder created", zap.Int64("id", rem.ID), zap.String("category", rem.Category))
	h.writeJSON(w, http.StatusCreated, rem)
}

// UpdateStatus handles PATCH /api/reminders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := h.store.UpdateStatus(id, req.Status); err != nil {
		h.writeError(w, "update status failed", err)
		return
	}
	metrics.IncrementStatusUpdate(req.Status)

	h.writeJSON(w, http.StatusOK, map[string]any{"reminder_id": id, "status": req.Status})
}

// Summary handles GET /api/summary.
func (h *Handler) Summary(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.store.LoadAll()
	if err != nil {
		h.writeError(w, "summary failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reminder.Summarize(rows, h.now()))
}

// writeError maps the error taxonomy onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrParse):
		h.logger.Warn(msg, zap.Error(err))
		h.writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConfiguration):
		h.writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

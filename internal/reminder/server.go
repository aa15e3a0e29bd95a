package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/metrics"
)

const (
	serverName    = "nevermiss"
	serverVersion = "1.0.0"
)

// DraftParser turns free text into a draft. It is satisfied by parse.Pipeline.
type DraftParser interface {
	Parse(ctx context.Context, input string, ref time.Time) (*Draft, error)
}

// Server is the MCP server for reminder capture and tracking.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	parser    DraftParser
	now       func() time.Time
}

// NewServer creates a new Reminder MCP server backed by the given store.
// parser may be nil, in which case parse_reminder reports that parsing is
// disabled and every other tool keeps working.
func NewServer(store *Store, parser DraftParser) *Server {
	s := &Server{
		store:  store,
		parser: parser,
		now:    time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("parse_reminder",
			mcp.WithDescription("Parse a free-text reminder into a draft (title, category, date, time, priority, notes, confidence). Nothing is saved."),
			mcp.WithString("input", mcp.Required(), mcp.Description("Free text, e.g. \"Doctor appointment next Thursday at 3pm\"")),
		),
		s.handleParseReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Save a reviewed reminder"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("category", mcp.Required(), mcp.Description("One of: "+strings.Join(Categories, ", "))),
			mcp.WithString("priority", mcp.Description("One of: "+strings.Join(Priorities, ", ")+" (default: Medium)")),
			mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format")),
			mcp.WithString("time", mcp.Description("Time in HH:MM (24-hour) format")),
			mcp.WithString("notes", mcp.Description("Additional details")),
			mcp.WithString("raw_input", mcp.Description("The original free text, if any")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders sorted by date, optionally filtered by status (pending or completed). Overdue rows are flagged."),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleSetStatus(StatusCompleted),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reopen_reminder",
			mcp.WithDescription("Mark a completed reminder as pending again"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleSetStatus(StatusPending),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminder_summary",
			mcp.WithDescription("Count total, pending, completed and overdue reminders"),
		),
		s.handleSummary,
	)
}

func (s *Server) handleParseReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.parser == nil {
		return mcp.NewToolResultError("parsing is disabled: completion endpoint credential is not configured"), nil
	}

	input := strings.TrimSpace(req.GetString("input", ""))
	if input == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	draft, err := s.parser.Parse(ctx, input, s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, _ := json.MarshalIndent(draft, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	priority := req.GetString("priority", "")
	if priority == "" {
		priority = PriorityMedium
	}

	draft := Draft{
		Title:    req.GetString("title", ""),
		Category: req.GetString("category", ""),
		Date:     StringPtr(req.GetString("date", "")),
		Time:     StringPtr(req.GetString("time", "")),
		Priority: priority,
		Notes:    req.GetString("notes", ""),
	}

	r, err := s.store.Create(func(id int64) (Reminder, error) {
		return draft.Commit(id, req.GetString("raw_input", ""), s.now())
	})
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	metrics.IncrementCreated("mcp")

	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")
	if status != "" && !ValidStatus(status) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
	}

	rows, err := s.store.LoadAll()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	listed := Annotate(Filter(rows, status), s.now())
	if len(listed) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(listed, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleSetStatus(status string) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idFloat := req.GetFloat("id", 0)
		if idFloat < 1 || idFloat != math.Trunc(idFloat) {
			return mcp.NewToolResultError("id is required and must be a positive integer"), nil
		}
		id := int64(idFloat)

		if err := s.store.UpdateStatus(id, status); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
		}
		metrics.IncrementStatusUpdate(status)

		return mcp.NewToolResultText(fmt.Sprintf("Reminder %d marked as %s.", id, status)), nil
	}
}

func (s *Server) handleSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.store.LoadAll()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}

	output, _ := json.MarshalIndent(Summarize(rows, s.now()), "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

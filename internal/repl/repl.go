// Package repl is the interactive capture loop: free text is parsed into a
// draft, reviewed with slash commands and saved to the store.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/notexe/nevermiss/internal/config"
	"github.com/notexe/nevermiss/internal/reminder"
	"github.com/notexe/nevermiss/internal/session"
	"github.com/notexe/nevermiss/internal/ui"
)

// chooseFunc picks one of options, starting from current.
type chooseFunc func(question string, options []string, current string) (string, error)

type REPL struct {
	state     *session.State
	config    *config.Config
	rl        *readline.Instance
	formatter *ui.Formatter
	spinner   *ui.Spinner
	out       io.Writer
	choose    chooseFunc
}

func NewREPL(state *session.State, cfg *config.Config) (*REPL, error) {
	rl, err := setupReadline(historyPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	colored := cfg.UI.ColoredOutput
	return &REPL{
		state:     state,
		config:    cfg,
		rl:        rl,
		formatter: ui.NewFormatter(colored, cfg.Provider),
		spinner:   ui.NewSpinner(os.Stdout, colored),
		out:       os.Stdout,
		choose: func(question string, options []string, current string) (string, error) {
			return ui.NewSelector(question, options, current, colored).Run()
		},
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		r.rl.SetPrompt(r.formatter.FormatPrompt(r.state.Draft() != nil))

		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(trimmed)
		if !isCommand {
			if err := r.handleMessage(ctx, input); err != nil {
				r.displayError(err)
			}
			continue
		}

		if command == "/quit" || command == "/exit" || command == "/q" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}
		if err := r.handleCommand(command, args); err != nil {
			r.displayError(err)
		}
	}
}

// handleMessage parses free text into a new draft. A failed parse keeps
// whatever draft was already under review.
func (r *REPL) handleMessage(ctx context.Context, input string) error {
	if !r.state.APIEnabled() {
		r.displayNotice()
		return nil
	}

	r.spinner.Start("Analyzing with " + r.config.Provider + "...")
	draft, err := r.state.Parse(ctx, input)
	if err != nil {
		r.spinner.StopWithError("Could not parse that reminder")
		if r.state.Draft() != nil {
			r.displayInfo("Your previous draft is still available (/show).")
		}
		return err
	}
	r.spinner.StopWithMessage("Draft ready for review")

	r.displayDraft(draft)
	return nil
}

func (r *REPL) handleCommand(command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/show":
		d := r.state.Draft()
		if d == nil {
			return session.ErrNoDraft
		}
		r.displayDraft(d)
		return nil

	case "/edit", "/e":
		return r.handleEdit(args)

	case "/save", "/s":
		rem, err := r.state.Commit()
		if err != nil {
			return err
		}
		r.displaySuccess(fmt.Sprintf("Saved reminder %d: %s", rem.ID, rem.Title))
		return nil

	case "/discard":
		r.state.Discard()
		r.displayInfo("Draft discarded.")
		return nil

	case "/list", "/l":
		return r.handleList(args)

	case "/summary":
		rows, err := r.state.Store().LoadAll()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, r.formatter.FormatSummary(reminder.Summarize(rows, r.state.Now())))
		fmt.Fprintln(r.out)
		return nil

	case "/done":
		return r.handleStatus(args, reminder.StatusCompleted)

	case "/undo":
		return r.handleStatus(args, reminder.StatusPending)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (r *REPL) handleEdit(args string) error {
	if r.state.Draft() == nil {
		return session.ErrNoDraft
	}

	field, value, _ := strings.Cut(args, " ")
	field = strings.ToLower(strings.TrimSpace(field))
	value = strings.TrimSpace(value)
	if field == "" {
		return fmt.Errorf("usage: /edit <%s> <value>", strings.Join(session.Fields, "|"))
	}

	if value == "" && (field == session.FieldCategory || field == session.FieldPriority) {
		d := r.state.Draft()
		options, current := reminder.Categories, d.Category
		if field == session.FieldPriority {
			options, current = reminder.Priorities, d.Priority
		}

		chosen, err := r.choose("Choose "+field+":", options, current)
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		value = chosen
	}

	if err := r.state.SetField(field, value); err != nil {
		return err
	}
	r.displayDraft(r.state.Draft())
	return nil
}

func (r *REPL) handleList(args string) error {
	status := strings.ToLower(strings.TrimSpace(args))
	if status != "" && !reminder.ValidStatus(status) {
		return fmt.Errorf("usage: /list [%s]", strings.Join(reminder.Statuses, "|"))
	}

	rows, err := r.state.Store().LoadAll()
	if err != nil {
		return err
	}

	now := r.state.Now()
	listed := reminder.Annotate(reminder.Filter(rows, status), now)
	fmt.Fprintln(r.out, ui.RenderDashboard(listed, reminder.Summarize(rows, now), r.formatter.Colored()))
	fmt.Fprintln(r.out)
	return nil
}

func (r *REPL) handleStatus(args, status string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return fmt.Errorf("usage: /done <id> or /undo <id>")
	}

	if err := r.state.Store().UpdateStatus(id, status); err != nil {
		return err
	}
	r.displaySuccess(fmt.Sprintf("Reminder %d marked as %s.", id, status))
	return nil
}

package repl

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/notexe/nevermiss/internal/config"
	"github.com/notexe/nevermiss/internal/reminder"
	"github.com/notexe/nevermiss/internal/session"
)

// readInput returns the line as typed. Free text is stored verbatim as the
// reminder's raw input.
func (r *REPL) readInput() (string, error) {
	return r.rl.Readline()
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

// historyPath keeps line history next to the backing file.
func historyPath(cfg *config.Config) string {
	if cfg.Store.Path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(cfg.Store.Path), "history")
}

func completer() *readline.PrefixCompleter {
	items := func(vals []string) []readline.PrefixCompleterInterface {
		out := make([]readline.PrefixCompleterInterface, len(vals))
		for i, v := range vals {
			out[i] = readline.PcItem(v)
		}
		return out
	}

	editFields := make([]readline.PrefixCompleterInterface, 0, len(session.Fields))
	for _, f := range session.Fields {
		switch f {
		case session.FieldCategory:
			editFields = append(editFields, readline.PcItem(f, items(reminder.Categories)...))
		case session.FieldPriority:
			editFields = append(editFields, readline.PcItem(f, items(reminder.Priorities)...))
		default:
			editFields = append(editFields, readline.PcItem(f))
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("/help"),
		readline.PcItem("/show"),
		readline.PcItem("/edit", editFields...),
		readline.PcItem("/save"),
		readline.PcItem("/discard"),
		readline.PcItem("/list", items(reminder.Statuses)...),
		readline.PcItem("/summary"),
		readline.PcItem("/done"),
		readline.PcItem("/undo"),
		readline.PcItem("/quit"),
	)
}

func setupReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              "> ",
		HistoryFile:         historyFile,
		AutoComplete:        completer(),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}

package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a selection.
var ErrCancelled = errors.New("selection cancelled")

// Selector is an arrow-key menu for picking one enum value, such as a
// category or a priority. Without a terminal it falls back to a numbered
// prompt.
type Selector struct {
	question string
	options  []string
	selected int
	colored  bool

	in  io.Reader
	out io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a selector over options with current preselected
// when it is one of them.
func NewSelector(question string, options []string, current string, colored bool) *Selector {
	s := &Selector{
		question: question,
		options:  options,
		colored:  colored,
		in:       os.Stdin,
		out:      os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
	for i, o := range options {
		if o == current {
			s.selected = i
		}
	}
	return s
}

// Run displays the selector and returns the chosen option.
func (s *Selector) Run() (string, error) {
	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.runSimple()
	}
	fd := int(f.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple()
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Fprint(s.out, "\033[?25h") // Show cursor
	}()

	fmt.Fprint(s.out, "\033[?25l")
	totalLines := len(s.options) + 2
	s.printMenu()

	reader := bufio.NewReader(s.in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}

		switch b {
		case 13, 10, ' ': // Enter
			s.clearMenu(totalLines)
			return s.options[s.selected], nil
		case 3, 'q': // Ctrl+C
			s.clearMenu(totalLines)
			return "", ErrCancelled
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					s.moveUp()
				case 'B':
					s.moveDown()
				}
			}
		default:
			if idx := int(b - '1'); b >= '1' && b <= '9' && idx < len(s.options) {
				s.clearMenu(totalLines)
				return s.options[idx], nil
			}
		}

		s.clearMenu(totalLines)
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	question, hint := s.question, "[j/k or arrows] move  [enter] select  [q] cancel"
	if s.colored {
		question, hint = s.questionStyle.Render(question), s.hintStyle.Render(hint)
	}
	sb.WriteString(question + "\r\n" + hint + "\r\n")

	for i, opt := range s.options {
		cursor, style := "  ", s.optionStyle
		if i == s.selected {
			cursor, style = "> ", s.selectedStyle
		}
		if s.colored {
			sb.WriteString(s.cursorStyle.Render(cursor) + style.Render(opt))
		} else {
			sb.WriteString(cursor + opt)
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Fprint(s.out, "\033[A\033[2K\r")
	}
}

// runSimple reads a 1-based option number. Empty input keeps the current
// selection.
func (s *Selector) runSimple() (string, error) {
	fmt.Fprintln(s.out, s.question)
	for i, opt := range s.options {
		marker := " "
		if i == s.selected {
			marker = "*"
		}
		fmt.Fprintf(s.out, " %s[%d] %s\n", marker, i+1, opt)
	}
	fmt.Fprint(s.out, "Enter number: ")

	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && line == "" {
		return "", ErrCancelled
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return s.options[s.selected], nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(s.options) {
		return "", fmt.Errorf("invalid choice %q", line)
	}
	return s.options[n-1], nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

// Package prompt asks the operator questions. Business logic depends on the
// Prompter interface so tests can supply scripted answers.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter collects operator input.
type Prompter interface {
	// Input asks question and returns the raw answer with surrounding
	// whitespace removed. An empty answer means "use def"; applying it is up
	// to the caller so the raw answer can be validated first.
	Input(question, def string) (string, error)
	// Confirm asks a yes/no question and reports whether the answer was yes.
	Confirm(question string) (bool, error)
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	defaultStyle  = lipgloss.NewStyle().Faint(true)
)

func formatQuestion(question, def string) string {
	q := questionStyle.Render(question)
	if def != "" {
		q += " " + defaultStyle.Render("["+def+"]")
	}
	return q + " "
}

// IsYes reports whether answer is an affirmative reply.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// New returns a terminal prompt when in is a TTY and a line prompt otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &Terminal{In: in, Out: out}
	}
	return NewLine(in, out)
}

// Confirmf formats and prints a message then asks for confirmation.
func Confirmf(p Prompter, out io.Writer, question, format string, args ...any) (bool, error) {
	fmt.Fprintf(out, format+"\n", args...)
	return p.Confirm(question)
}

package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Line reads answers one line at a time. It is used when stdin is not a
// terminal (pipes, CI).
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a line-oriented prompter.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

func (l *Line) Input(question, def string) (string, error) {
	fmt.Fprint(l.out, formatQuestion(question, def))
	s, err := l.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		if err == io.EOF {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (l *Line) Confirm(question string) (bool, error) {
	answer, err := l.Input(question, "")
	if err != nil {
		return false, err
	}
	return IsYes(answer), nil
}

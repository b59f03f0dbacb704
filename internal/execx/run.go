// Package execx runs external commands either captured or streamed to the
// caller's terminal.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Command is one subprocess invocation.
type Command struct {
	Args []string
	// Env is overlaid on the parent environment for this process only.
	Env []string
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// CommandError is returned when a subprocess cannot start or exits non-zero.
type CommandError struct {
	Args   []string
	Code   int
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	name := "command"
	if len(e.Args) > 0 {
		name = e.Args[0]
	}
	msg := fmt.Sprintf("%s exited with code %d", name, e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes commands. Capture buffers combined output and returns it;
// Stream connects the process to the caller's stdio.
type Runner interface {
	Capture(ctx context.Context, cmd Command) (string, error)
	Stream(ctx context.Context, cmd Command) error
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logrus.FieldLogger
}

// New returns a Runner bound to the process stdio.
func New(log logrus.FieldLogger) *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Log: log}
}

var _ Runner = (*Exec)(nil)

// Capture runs cmd to completion and returns its combined stdout/stderr.
func (x *Exec) Capture(ctx context.Context, cmd Command) (string, error) {
	c, err := x.command(ctx, cmd)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf
	err = c.Run()
	out := buf.String()
	if err != nil {
		return out, &CommandError{Args: cmd.Args, Code: exitCode(ctx, err), Output: out, Err: err}
	}
	return out, nil
}

// Stream runs cmd with output appearing live on the caller's terminal.
func (x *Exec) Stream(ctx context.Context, cmd Command) error {
	c, err := x.command(ctx, cmd)
	if err != nil {
		return err
	}
	c.Stdin = x.Stdin
	c.Stdout = x.Stdout
	c.Stderr = x.Stderr
	if err := c.Run(); err != nil {
		return &CommandError{Args: cmd.Args, Code: exitCode(ctx, err), Err: err}
	}
	return nil
}

func (x *Exec) command(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("execx: empty command")
	}
	if x.Log != nil {
		x.Log.WithField("env", cmd.Env).Debugf("+ %s", cmd)
	}
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c, nil
}

func exitCode(ctx context.Context, err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() > 0 {
		return ee.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124
	}
	return 1
}

package docker

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Stdio is the terminal an interactive session is wired to.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process stdio.
func StdStreams() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// makeRaw switches In to raw mode when it is a terminal.
func (s Stdio) makeRaw() (restore func(), err error) {
	f, ok := s.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(int(f.Fd()), state) }, nil
}

// consoleSize returns [height, width] of Out when it is a terminal.
func (s Stdio) consoleSize() *[2]uint {
	f, ok := s.Out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return nil
	}
	return &[2]uint{uint(h), uint(w)}
}

// RunAttached attaches to a created container, starts it and proxies the
// terminal until the container's output closes.
func (c *Client) RunAttached(ctx context.Context, containerID string, stdio Stdio) error {
	resp, err := c.cli.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return err
	}
	defer resp.Close()

	restore, err := stdio.makeRaw()
	if err != nil {
		return err
	}
	defer restore()

	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return err
	}
	if size := stdio.consoleSize(); size != nil {
		_ = c.cli.ContainerResize(ctx, containerID, container.ResizeOptions{Height: size[0], Width: size[1]})
	}
	return pump(resp, stdio)
}

// ExecInteractive runs cmd inside a running container with a TTY attached
// to the caller's terminal.
func (c *Client) ExecInteractive(ctx context.Context, containerID string, cmd []string, stdio Stdio) error {
	size := stdio.consoleSize()
	execResp, err := c.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          true,
		ConsoleSize:  size,
	})
	if err != nil {
		return err
	}

	resp, err := c.cli.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{
		Tty:         true,
		ConsoleSize: size,
	})
	if err != nil {
		return err
	}
	defer resp.Close()

	restore, err := stdio.makeRaw()
	if err != nil {
		return err
	}
	defer restore()

	return pump(resp, stdio)
}

// pump copies stdin to the session and session output to stdout. With a TTY
// the stream is not multiplexed. It returns once output is exhausted; a
// stdin read still pending at that point is cancelled when the platform
// allows it.
func pump(resp types.HijackedResponse, stdio Stdio) error {
	outDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(stdio.Out, resp.Reader)
		outDone <- err
	}()

	var in cancelreader.CancelReader
	inDone := make(chan struct{})
	if stdio.In != nil {
		r, err := cancelreader.NewReader(stdio.In)
		if err != nil {
			return err
		}
		in = r
		go func() {
			defer close(inDone)
			_, _ = io.Copy(resp.Conn, in)
			_ = resp.CloseWrite()
		}()
	}

	err := <-outDone
	if in != nil {
		if in.Cancel() {
			<-inDone
		}
		_ = in.Close()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuelreed/devopstools/internal/execx"
)

// Version info - set via ldflags at build time
// go build -ldflags "-X main.Version=v1.0.0"
var Version = "dev"

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr, runAction)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stderr io.Writer, dispatch dispatchFunc) int {
	root := newRootCommand(dispatch)
	root.Version = Version
	root.SetArgs(args)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error:")+" "+err.Error())
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error to a process exit status. A failed subprocess
// passes its own status through.
func exitCode(err error) int {
	var cmdErr *execx.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code > 0 {
		return cmdErr.Code
	}
	return 1
}

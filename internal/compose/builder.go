// Package compose assembles orchestrator command lines and edits compose
// definitions.
package compose

import (
	"fmt"

	"github.com/samuelreed/devopstools/internal/config"
)

// DefaultCommand is the orchestrator used when none is configured.
var DefaultCommand = []string{"docker-compose"}

// Builder produces orchestrator argv for an invocation.
type Builder struct {
	command []string
}

// NewBuilder returns a Builder invoking command (e.g. ["docker", "compose"]).
func NewBuilder(command []string) *Builder {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Builder{command: append([]string(nil), command...)}
}

// Base returns [orchestrator..., -p project, -f file].
func (b *Builder) Base(inv config.Invocation) []string {
	args := make([]string, 0, len(b.command)+4)
	args = append(args, b.command...)
	args = append(args, "-p", inv.ProjectName, "-f", inv.ComposeFile)
	return args
}

// Subcommand names the orchestrator operations devopstools issues.
type Subcommand string

const (
	Build  Subcommand = "build"
	Config Subcommand = "config"
	Down   Subcommand = "down"
	Logs   Subcommand = "logs"
	PS     Subcommand = "ps"
	PSQ    Subcommand = "psq"
	Stop   Subcommand = "stop"
	UpD    Subcommand = "upd"
)

// Streams reports whether the subcommand's output is followed live.
func (s Subcommand) Streams() bool {
	return s == Logs
}

// Suffix returns the subcommand arguments for service.
func (s Subcommand) Suffix(service string) ([]string, error) {
	switch s {
	case Build:
		return []string{"build", "--force-rm", service}, nil
	case Config:
		return []string{"config"}, nil
	case Down:
		return []string{"down"}, nil
	case Logs:
		return []string{"logs", service}, nil
	case PS:
		return []string{"ps", service}, nil
	case PSQ:
		return []string{"ps", "-q", service}, nil
	case Stop:
		return []string{"stop", service}, nil
	case UpD:
		return []string{"up", "-d", service}, nil
	}
	return nil, fmt.Errorf("unknown compose subcommand %q", string(s))
}

// ForAction appends the subcommand suffix to a copy of base.
func (b *Builder) ForAction(base []string, s Subcommand, service string) ([]string, error) {
	suffix, err := s.Suffix(service)
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, len(base)+len(suffix))
	args = append(args, base...)
	return append(args, suffix...), nil
}

package dispatch

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned for an action name with no handler.
var ErrUnknownAction = errors.New("unknown action")

// Action is one `devopstools docker` subcommand.
type Action int

const (
	ActionBuild Action = iota
	ActionConfig
	ActionDown
	ActionExecBash
	ActionLogs
	ActionPS
	ActionPSQ
	ActionStop
	ActionUpD
	ActionGenerate
	ActionRun
	ActionRunBash
	numActions
)

var actionNames = [numActions]string{
	ActionBuild:    "build",
	ActionConfig:   "config",
	ActionDown:     "down",
	ActionExecBash: "execbash",
	ActionLogs:     "logs",
	ActionPS:       "ps",
	ActionPSQ:      "psq",
	ActionStop:     "stop",
	ActionUpD:      "upd",
	ActionGenerate: "generate",
	ActionRun:      "run",
	ActionRunBash:  "runbash",
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Actions returns every action in declaration order.
func Actions() []Action {
	all := make([]Action, 0, numActions)
	for a := Action(0); a < numActions; a++ {
		all = append(all, a)
	}
	return all
}

// ParseAction maps a subcommand name to its Action.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

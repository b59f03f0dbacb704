package tag

import (
	"context"

	"github.com/samuelreed/devopstools/internal/execx"
)

// HelperSource asks the git helper script for a branch-derived tag.
type HelperSource struct {
	Runner execx.Runner
	Script string
	Home   string
	// MainBranch is handed to the script as the branch treated as mainline.
	MainBranch string
}

// Tag runs `<script> <home> get_git_docker_tag <main> ""` and returns its output.
func (h *HelperSource) Tag(ctx context.Context) (string, error) {
	main := h.MainBranch
	if main == "" {
		main = "main"
	}
	return h.Runner.Capture(ctx, execx.Command{
		Args: []string{h.Script, h.Home, "get_git_docker_tag", main, ""},
	})
}

package tag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

var invalidTagChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// GitSource derives the tag from the checked-out branch of the repository
// containing Dir.
type GitSource struct {
	Dir string
}

// Tag returns the sanitised branch name, or the short commit hash on a
// detached HEAD.
func (g *GitSource) Tag(ctx context.Context) (string, error) {
	repo, err := git.PlainOpenWithOptions(g.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", g.Dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return Sanitize(head.Name().Short()), nil
	}
	return head.Hash().String()[:7], nil
}

// Sanitize maps a branch name onto the image tag grammar
// ([A-Za-z0-9_][A-Za-z0-9_.-]{0,127}).
func Sanitize(branch string) string {
	t := invalidTagChars.ReplaceAllString(branch, "-")
	t = strings.TrimLeft(t, ".-")
	if len(t) > 128 {
		t = t[:128]
	}
	if t == "" {
		return "latest"
	}
	return t
}

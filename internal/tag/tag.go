// Package tag resolves the image tag for an invocation and exposes it to the
// orchestrator as the image_tag substitution variable.
package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvVar is the variable the compose definition substitutes (${image_tag}).
const EnvVar = "image_tag"

// Source derives a tag when none is given explicitly.
type Source interface {
	Tag(ctx context.Context) (string, error)
}

// Resolver resolves the tag once per invocation and remembers it.
type Resolver struct {
	source Source
	log    logrus.FieldLogger
	tag    string
}

// NewResolver returns a resolver that falls back to src.
func NewResolver(src Source, log logrus.FieldLogger) *Resolver {
	return &Resolver{source: src, log: log}
}

// Resolve returns override verbatim when set, otherwise asks the source.
// Errors from the source are returned as-is; the tag is never guessed.
func (r *Resolver) Resolve(ctx context.Context, override string) (string, error) {
	if r.tag != "" {
		return r.tag, nil
	}
	t := override
	if t == "" {
		if r.source == nil {
			return "", fmt.Errorf("no image tag given and no tag source configured")
		}
		derived, err := r.source.Tag(ctx)
		if err != nil {
			return "", fmt.Errorf("derive image tag: %w", err)
		}
		t = strings.ReplaceAll(derived, "\n", "")
		if t == "" {
			return "", fmt.Errorf("derive image tag: tag source returned an empty tag")
		}
	}
	r.tag = t
	if r.log != nil {
		r.log.Infof("%s = %s", EnvVar, t)
	}
	return t, nil
}

// Env returns the environment overlay carrying the resolved tag.
// It is empty before Resolve succeeds.
func (r *Resolver) Env() []string {
	if r.tag == "" {
		return nil
	}
	return []string{EnvVar + "=" + r.tag}
}

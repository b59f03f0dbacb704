package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ComposePathEnv overrides the compose definition path.
const ComposePathEnv = "DEVOPSTOOLS_DOCKER_COMPOSE_PATH"

// Overrides are the values given explicitly on the command line.
type Overrides struct {
	Project string
	Service string
}

// Invocation is the session state shared by every command built for one CLI run.
type Invocation struct {
	ProjectName string
	ServiceName string
	ComposeFile string
	ImageTag    string // empty until the tag is resolved
}

// ConfigurationMissingError reports a compose definition that is not on disk.
type ConfigurationMissingError struct {
	Path string
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("unable to read docker-compose at path (%s). Override with env variable %s", e.Path, ComposePathEnv)
}

// Resolver derives the Invocation from overrides, the environment and the
// working directory.
type Resolver struct {
	settings *Settings
	getwd    func() (string, error)
	getenv   func(string) string
}

// NewResolver creates a resolver backed by the process environment.
func NewResolver(s *Settings) *Resolver {
	return &Resolver{settings: s, getwd: os.Getwd, getenv: os.Getenv}
}

// Resolve fills in project, service and compose file. It does not touch the
// filesystem beyond reading the working directory.
func (r *Resolver) Resolve(o Overrides) (Invocation, error) {
	project := strings.TrimSpace(o.Project)
	if project == "" {
		cwd, err := r.getwd()
		if err != nil {
			return Invocation{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		project = filepath.Base(cwd)
	}

	service := strings.TrimSpace(o.Service)
	if service == "" {
		service = r.settings.DefaultService
	}
	if service == "" {
		service = "main"
	}

	file := r.getenv(ComposePathEnv)
	if file == "" {
		file = r.settings.ComposeFile
	}

	return Invocation{
		ProjectName: project,
		ServiceName: service,
		ComposeFile: file,
	}, nil
}

// Validate checks that the compose definition exists.
func (r *Resolver) Validate(inv Invocation) error {
	if _, err := os.Stat(inv.ComposeFile); err != nil {
		if os.IsNotExist(err) {
			return &ConfigurationMissingError{Path: inv.ComposeFile}
		}
		return fmt.Errorf("stat %s: %w", inv.ComposeFile, err)
	}
	return nil
}

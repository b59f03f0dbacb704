package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/google/uuid"
)

// ContainerPrefix is used to identify devopstools containers
const ContainerPrefix = "devopstools-"

// LabelProject marks throwaway containers with the compose project they belong to.
const LabelProject = "devopstools.project"

// ContainerConfig holds configuration for a throwaway debug container.
type ContainerConfig struct {
	Name       string            // Container name (devopstools-<project>-<service>-<id>)
	Image      string            // Fully tagged image reference
	Entrypoint []string          // Replaces the image entrypoint
	Env        []string          // KEY=value pairs
	Labels     map[string]string // Extra labels
}

// NewDebugContainerConfig creates the config used by runbash.
// entrypoint is split on whitespace; an empty entrypoint means "bash".
func NewDebugContainerConfig(project, service, image, entrypoint string) *ContainerConfig {
	ep := strings.Fields(entrypoint)
	if len(ep) == 0 {
		ep = []string{"bash"}
	}
	name := fmt.Sprintf("%s%s-%s-%s", ContainerPrefix, sanitizeName(project), sanitizeName(service), uuid.NewString()[:8])
	return &ContainerConfig{
		Name:       name,
		Image:      image,
		Entrypoint: ep,
		Labels:     map[string]string{LabelProject: project},
	}
}

// Container names allow [a-zA-Z0-9][a-zA-Z0-9_.-]
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}

// CreateContainer creates an interactive TTY container but doesn't start it.
func (c *Client) CreateContainer(ctx context.Context, cfg *ContainerConfig) (string, error) {
	containerCfg := &container.Config{
		Image:        cfg.Image,
		Entrypoint:   cfg.Entrypoint,
		Env:          cfg.Env,
		Labels:       cfg.Labels,
		Tty:          true,
		OpenStdin:    true,
		StdinOnce:    true,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	}

	resp, err := c.cli.ContainerCreate(ctx, containerCfg, &container.HostConfig{}, nil, nil, cfg.Name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// RemoveContainer removes a container.
func (c *Client) RemoveContainer(ctx context.Context, containerID string) error {
	return c.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}

// RunDebugContainer creates a container from cfg, attaches the caller's
// terminal until the session ends, then removes the container.
// The container is removed even when the session fails.
func RunDebugContainer(ctx context.Context, dc DockerClient, cfg *ContainerConfig, stdio Stdio, started func(id string)) (err error) {
	id, err := dc.CreateContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if started != nil {
		started(id)
	}
	defer func() {
		if rmErr := dc.RemoveContainer(context.WithoutCancel(ctx), id); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to remove container %s: %w", id, rmErr))
		}
	}()

	if err := dc.RunAttached(ctx, id, stdio); err != nil {
		return fmt.Errorf("session in container %s: %w", id, err)
	}
	return nil
}

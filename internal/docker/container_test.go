package docker

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

var containerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]+$`)

func TestNewDebugContainerConfig(t *testing.T) {
	cfg := NewDebugContainerConfig("my proj", "main", "acme/app:feat", "")

	if !strings.HasPrefix(cfg.Name, "devopstools-my-proj-main-") {
		t.Errorf("Name = %q, want devopstools-my-proj-main-<id>", cfg.Name)
	}
	if !containerNamePattern.MatchString(cfg.Name) {
		t.Errorf("Name %q is not a valid container name", cfg.Name)
	}
	if cfg.Image != "acme/app:feat" {
		t.Errorf("Image = %q", cfg.Image)
	}
	if len(cfg.Entrypoint) != 1 || cfg.Entrypoint[0] != "bash" {
		t.Errorf("Entrypoint = %v, want [bash]", cfg.Entrypoint)
	}
	if cfg.Labels[LabelProject] != "my proj" {
		t.Errorf("Labels = %v", cfg.Labels)
	}
}

func TestNewDebugContainerConfigEntrypoint(t *testing.T) {
	cfg := NewDebugContainerConfig("p", "s", "img", "sh -l")
	if len(cfg.Entrypoint) != 2 || cfg.Entrypoint[0] != "sh" || cfg.Entrypoint[1] != "-l" {
		t.Errorf("Entrypoint = %v, want [sh -l]", cfg.Entrypoint)
	}

	other := NewDebugContainerConfig("p", "s", "img", "sh -l")
	if other.Name == cfg.Name {
		t.Errorf("container names should be unique, both %q", cfg.Name)
	}
}

func TestRunDebugContainerRemovesAfterSession(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	cfg := NewDebugContainerConfig("p", "main", "img:tag", "bash")

	var startedID string
	err := RunDebugContainer(context.Background(), client, cfg, Stdio{}, func(id string) { startedID = id })
	if err != nil {
		t.Fatalf("RunDebugContainer() error = %v", err)
	}
	if startedID == "" {
		t.Fatal("started callback not invoked")
	}
	if len(client.Sessions) != 1 || client.Sessions[0].ContainerID != startedID {
		t.Errorf("Sessions = %+v, want one attach to %s", client.Sessions, startedID)
	}
	if client.ContainerCount() != 0 {
		t.Errorf("container not removed, %d left", client.ContainerCount())
	}
}

func TestRunDebugContainerRemovesAfterFailedSession(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	client.SessionErr = errors.New("attach failed")

	err := RunDebugContainer(context.Background(), client, NewDebugContainerConfig("p", "s", "i", ""), Stdio{}, nil)
	if err == nil || !strings.Contains(err.Error(), "attach failed") {
		t.Fatalf("error = %v, want attach failure", err)
	}
	if client.ContainerCount() != 0 {
		t.Error("container should be removed after a failed session")
	}
}

func TestRunDebugContainerReportsRemoveFailure(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	client.RemoveErr = errors.New("device busy")
	cfg := NewDebugContainerConfig("p", "s", "i", "")

	var id string
	err := RunDebugContainer(context.Background(), client, cfg, Stdio{}, func(started string) { id = started })
	if err == nil || !strings.Contains(err.Error(), "device busy") {
		t.Fatalf("error = %v, want removal failure", err)
	}
	got, ok := client.Container(id)
	if !ok {
		t.Fatalf("container %s should still exist after a failed removal", id)
	}
	if got != cfg {
		t.Errorf("Container(%s) = %+v, want the created config", id, got)
	}
}

func TestRunDebugContainerCreateFailure(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	client.CreateContainerFn = func(ctx context.Context, cfg *ContainerConfig) (string, error) {
		return "", errors.New("no such image")
	}

	err := RunDebugContainer(context.Background(), client, NewDebugContainerConfig("p", "s", "i", ""), Stdio{}, nil)
	if err == nil || !strings.Contains(err.Error(), "no such image") {
		t.Fatalf("error = %v", err)
	}
	if len(client.Sessions) != 0 {
		t.Error("no session should start when create fails")
	}
}

func TestRequireImage(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	if err := RequireImage(context.Background(), client, "img:tag"); err != nil {
		t.Errorf("RequireImage() error = %v", err)
	}

	client.ImageExistsFn = func(ctx context.Context, name string) (bool, error) { return false, nil }
	err := RequireImage(context.Background(), client, "img:tag")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Check != "required_image" {
		t.Errorf("error = %v, want required_image ValidationError", err)
	}

	client.ImageExistsFn = func(ctx context.Context, name string) (bool, error) { return false, errors.New("daemon gone") }
	err = RequireImage(context.Background(), client, "img:tag")
	if !errors.As(err, &vErr) || vErr.Check != "image_check" {
		t.Errorf("error = %v, want image_check ValidationError", err)
	}
}

func TestStdioNonTerminal(t *testing.T) {
	var s Stdio
	s.In = strings.NewReader("")
	restore, err := s.makeRaw()
	if err != nil {
		t.Fatalf("makeRaw() error = %v", err)
	}
	restore()
	if s.consoleSize() != nil {
		t.Error("consoleSize() should be nil without a terminal")
	}
}

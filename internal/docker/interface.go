package docker

import "context"

// DockerClient defines the interface for Docker operations.
// This allows for easy mocking in tests.
type DockerClient interface {
	// Client lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Container operations
	CreateContainer(ctx context.Context, cfg *ContainerConfig) (string, error)
	RemoveContainer(ctx context.Context, containerID string) error

	// Interactive sessions. Both block until the session ends.
	RunAttached(ctx context.Context, containerID string, stdio Stdio) error
	ExecInteractive(ctx context.Context, containerID string, cmd []string, stdio Stdio) error

	// Image operations
	ImageExists(ctx context.Context, imageName string) (bool, error)
}

// Verify Client implements DockerClient at compile time
var _ DockerClient = (*Client)(nil)

package docker

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of DockerClient for testing.
type MockClient struct {
	mu         sync.Mutex
	containers map[string]*mockContainer

	// Sessions records every interactive session in order.
	Sessions []MockSession

	// Configurable behaviors
	CreateContainerFn func(ctx context.Context, cfg *ContainerConfig) (string, error)
	RemoveErr         error
	SessionErr        error
	ImageExistsFn     func(ctx context.Context, imageName string) (bool, error)
}

// MockSession describes one RunAttached or ExecInteractive call.
type MockSession struct {
	ContainerID string
	Cmd         []string // nil for RunAttached
}

type mockContainer struct {
	ID     string
	Config *ContainerConfig
}

// NewMockClient creates a new mock Docker client for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		containers: make(map[string]*mockContainer),
	}
}

func (m *MockClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MockClient) Close() error {
	return nil
}

func (m *MockClient) CreateContainer(ctx context.Context, cfg *ContainerConfig) (string, error) {
	if m.CreateContainerFn != nil {
		return m.CreateContainerFn(ctx, cfg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := "mock-" + cfg.Name
	m.containers[id] = &mockContainer{
		ID:     id,
		Config: cfg,
	}
	return id, nil
}

func (m *MockClient) RemoveContainer(ctx context.Context, containerID string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.containers, containerID)
	return nil
}

func (m *MockClient) RunAttached(ctx context.Context, containerID string, stdio Stdio) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sessions = append(m.Sessions, MockSession{ContainerID: containerID})
	return m.SessionErr
}

func (m *MockClient) ExecInteractive(ctx context.Context, containerID string, cmd []string, stdio Stdio) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sessions = append(m.Sessions, MockSession{ContainerID: containerID, Cmd: cmd})
	return m.SessionErr
}

func (m *MockClient) ImageExists(ctx context.Context, imageName string) (bool, error) {
	if m.ImageExistsFn != nil {
		return m.ImageExistsFn(ctx, imageName)
	}
	// Default: all images exist
	return true, nil
}

// Container returns the config of a container that has not been removed.
func (m *MockClient) Container(id string) (*ContainerConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.containers[id]
	if !ok {
		return nil, false
	}
	return c.Config, true
}

// ContainerCount returns the number of containers that have not been removed.
func (m *MockClient) ContainerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}

// Verify MockClient implements DockerClient
var _ DockerClient = (*MockClient)(nil)

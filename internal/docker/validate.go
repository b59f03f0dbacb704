package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/client"
)

// ValidationError represents a Docker validation failure
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// Connect creates a client and verifies the daemon answers.
func Connect(ctx context.Context) (*Client, error) {
	c, err := NewClient()
	if err != nil {
		return nil, &ValidationError{Check: "docker_connection", Message: fmt.Sprintf("failed to connect to Docker: %v", err)}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, &ValidationError{Check: "docker_ping", Message: fmt.Sprintf("Docker daemon not responding: %v", err)}
	}
	return c, nil
}

// RequireImage returns a ValidationError when image is not present locally.
func RequireImage(ctx context.Context, dc DockerClient, image string) error {
	exists, err := dc.ImageExists(ctx, image)
	if err != nil {
		return &ValidationError{Check: "image_check", Message: fmt.Sprintf("failed to check image: %v", err)}
	}
	if !exists {
		return &ValidationError{Check: "required_image", Message: fmt.Sprintf("image '%s' not found locally. Run: devopstools docker build", image)}
	}
	return nil
}

// ImageExists checks if a Docker image exists locally
func (c *Client) ImageExists(ctx context.Context, imageName string) (bool, error) {
	// Use ImageInspect instead of listing all images - much faster
	_, _, err := c.cli.ImageInspectWithRaw(ctx, imageName)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Package docker is the container runtime side of devopstools: throwaway
// debug containers for runbash and interactive exec sessions for execbash.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// Client drives the local Docker daemon for interactive sessions. The
// daemon address comes from DOCKER_HOST and the related variables.
type Client struct {
	cli *client.Client
}

// NewClient builds a client from the environment, negotiating the API
// version with the daemon on first use. It does not contact the daemon;
// use Connect for that.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client from environment: %w", err)
	}
	return &Client{cli: cli}, nil
}

// Ping reports whether the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return err
}

// Close releases the client's connections.
func (c *Client) Close() error {
	return c.cli.Close()
}

package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/portside/portside/config"
	"github.com/portside/portside/internal/app/model"
)

const stopTimeout = 10 * time.Second

// Runtime is the narrow container-runtime surface the dashboard consumes.
// The ordering core only ever sees container IDs as opaque strings.
type Runtime interface {
	List(ctx context.Context) ([]model.Container, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) error
}

// Client implements Runtime against the local Docker daemon.
type Client struct {
	cli *client.Client
}

// NewClient connects to the Docker daemon over the configured socket.
func NewClient(cfg config.DockerConfig) (*Client, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if cfg.Socket != "" {
		opts = append(opts, client.WithHost("unix://"+cfg.Socket))
	} else {
		opts = append(opts, client.FromEnv)
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker: create client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// List returns all containers (running or not) with their published ports.
func (c *Client) List(ctx context.Context) ([]model.Container, error) {
	containers, err := c.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("docker: list containers: %w", err)
	}

	result := make([]model.Container, 0, len(containers))
	for _, ctr := range containers {
		name := "unknown"
		if len(ctr.Names) > 0 {
			name = strings.TrimPrefix(ctr.Names[0], "/")
		}

		var ports []model.ContainerPort
		for _, p := range ctr.Ports {
			if p.PublicPort == 0 {
				continue
			}
			ports = append(ports, model.ContainerPort{
				Private: int(p.PrivatePort),
				Public:  int(p.PublicPort),
				Type:    p.Type,
			})
		}

		result = append(result, model.Container{
			ID:     ctr.ID,
			Name:   name,
			Image:  ctr.Image,
			State:  ctr.State,
			Status: ctr.Status,
			Ports:  ports,
		})
	}
	return result, nil
}

func (c *Client) Start(ctx context.Context, id string) error {
	if err := c.cli.ContainerStart(ctx, id, types.ContainerStartOptions{}); err != nil {
		return fmt.Errorf("docker: start container: %w", err)
	}
	return nil
}

func (c *Client) Stop(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout+5*time.Second)
	defer cancel()
	seconds := int(stopTimeout.Seconds())
	if err := c.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("docker: stop container: %w", err)
	}
	return nil
}

func (c *Client) Restart(ctx context.Context, id string) error {
	seconds := int(stopTimeout.Seconds())
	if err := c.cli.ContainerRestart(ctx, id, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("docker: restart container: %w", err)
	}
	return nil
}

// Package docker drives the container runtime: engine installation,
// the isolated bridge network, and the containers the stack runs in.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/bertffff/stackup/internal/platform/host"
)

// Client executes docker operations through the host runner.
type Client struct {
	run host.Runner
}

// NewClient creates a docker client over the given runner.
func NewClient(run host.Runner) *Client {
	return &Client{run: run}
}

// EngineReady reports whether the engine is installed and responsive.
func (c *Client) EngineReady(ctx context.Context) bool {
	_, err := c.run.Run(ctx, "docker", "version", "--format", "{{.Server.Version}}")
	return err == nil
}

// InstallEngine installs the engine using the upstream convenience script.
func (c *Client) InstallEngine(ctx context.Context) error {
	if _, err := c.run.Run(ctx, "sh", "-c", "curl -fsSL https://get.docker.com | sh"); err != nil {
		return fmt.Errorf("engine installation failed: %w", err)
	}
	return nil
}

// NetworkExists reports whether the named network exists.
func (c *Client) NetworkExists(ctx context.Context, name string) (bool, error) {
	out, err := c.run.Run(ctx, "docker", "network", "ls", "--format", "{{.Name}}")
	if err != nil {
		return false, err
	}
	for _, n := range strings.Split(out, "\n") {
		if strings.TrimSpace(n) == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateNetwork creates an isolated bridge network with the given subnet.
func (c *Client) CreateNetwork(ctx context.Context, name, subnet string) error {
	_, err := c.run.Run(ctx, "docker", "network", "create", "--driver", "bridge", "--subnet", subnet, name)
	return err
}

// RemoveNetwork removes the named network.
func (c *Client) RemoveNetwork(ctx context.Context, name string) error {
	_, err := c.run.Run(ctx, "docker", "network", "rm", name)
	return err
}

// RunOptions describes a container to start.
type RunOptions struct {
	Name    string
	Image   string
	Network string
	// Ports maps host port to container port, both "port" or "port/proto".
	Ports map[string]string
	// Volumes maps host path to container path.
	Volumes map[string]string
	EnvFile string
	Restart string
}

// RunContainer starts a detached container.
func (c *Client) RunContainer(ctx context.Context, opts RunOptions) error {
	args := []string{"run", "-d", "--name", opts.Name}
	if opts.Network != "" {
		args = append(args, "--network", opts.Network)
	}
	if opts.Restart != "" {
		args = append(args, "--restart", opts.Restart)
	}
	if opts.EnvFile != "" {
		args = append(args, "--env-file", opts.EnvFile)
	}
	for hostPort, containerPort := range opts.Ports {
		args = append(args, "-p", hostPort+":"+containerPort)
	}
	for hostPath, containerPath := range opts.Volumes {
		args = append(args, "-v", hostPath+":"+containerPath)
	}
	args = append(args, opts.Image)

	_, err := c.run.Run(ctx, "docker", args...)
	return err
}

// ContainerRunning reports whether the named container is running.
func (c *Client) ContainerRunning(ctx context.Context, name string) (bool, error) {
	out, err := c.run.Run(ctx, "docker", "ps", "--filter", "name="+name, "--format", "{{.Names}}")
	if err != nil {
		return false, err
	}
	for _, n := range strings.Split(out, "\n") {
		if strings.TrimSpace(n) == name {
			return true, nil
		}
	}
	return false, nil
}

// RemoveContainer force-removes the named container.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	_, err := c.run.Run(ctx, "docker", "rm", "-f", name)
	return err
}

// RestartContainer restarts the named container to apply configuration.
func (c *Client) RestartContainer(ctx context.Context, name string) error {
	_, err := c.run.Run(ctx, "docker", "restart", name)
	return err
}

// Package server controls the application server process inside the compose
// stack: one-time storage initialization and running the server itself.
package server

import (
	"fmt"

	"github.com/blackwell-systems/devstack-control-plane/internal/docker"
)

// Rails runs the backend application through its compose service container.
type Rails struct {
	Compose *docker.Compose
	Service string
}

// New returns a Rails bound to the given compose project and service name.
func New(c *docker.Compose, service string) *Rails {
	return &Rails{Compose: c, Service: service}
}

// InitializeStorage creates and seeds the persistent database. The stack
// must be up when this is called.
func (r *Rails) InitializeStorage() error {
	if err := r.Compose.RunService(r.Service, "bundle", "exec", "rails", "db:create", "db:setup"); err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	return nil
}

// Run launches the application server bound to host:port inside the running
// service container. Foreground runs block until the server exits; detached
// runs return once the server process has been started.
func (r *Rails) Run(host string, port int, detached bool) error {
	args := []string{
		"bundle", "exec", "rails", "server",
		"-b", host,
		"-p", fmt.Sprintf("%d", port),
	}

	if err := r.Compose.ExecService(r.Service, detached, args...); err != nil {
		return fmt.Errorf("application server failed: %w", err)
	}

	return nil
}

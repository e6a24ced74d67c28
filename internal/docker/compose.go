// Package docker shells out to the docker CLI for compose stack lifecycle
// operations. Every call blocks until the underlying command exits; failures
// carry the captured command output.
package docker

import (
	"fmt"
	"os"
	"os/exec"
)

// Compose drives one docker compose project.
type Compose struct {
	File    string
	Project string
}

// New returns a Compose bound to the given compose file and project name.
func New(file, project string) *Compose {
	return &Compose{File: file, Project: project}
}

func (c *Compose) args(rest ...string) []string {
	base := []string{"compose", "-f", c.File, "-p", c.Project}
	return append(base, rest...)
}

func (c *Compose) run(rest ...string) error {
	cmd := exec.Command("docker", c.args(rest...)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker compose %s failed: %w\n%s", rest[0], err, output)
	}

	return nil
}

// Build builds all service images.
func (c *Compose) Build() error {
	return c.run("build")
}

// Up brings the stack up. With detached true the call returns as soon as the
// containers are running; otherwise it blocks until the stack exits.
func (c *Compose) Up(detached bool) error {
	if detached {
		return c.run("up", "-d")
	}
	return c.run("up")
}

// Stop stops running containers without removing them.
func (c *Compose) Stop() error {
	return c.run("stop")
}

// Down stops and removes containers and networks. removeVolumes also removes
// named volumes; removeOrphans removes containers for services no longer in
// the compose file.
func (c *Compose) Down(removeVolumes, removeOrphans bool) error {
	rest := []string{"down"}
	if removeVolumes {
		rest = append(rest, "-v")
	}
	if removeOrphans {
		rest = append(rest, "--remove-orphans")
	}
	return c.run(rest...)
}

// PruneStopped force-removes all stopped containers system-wide, not just
// this project's.
func (c *Compose) PruneStopped() error {
	cmd := exec.Command("docker", "container", "prune", "-f")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker container prune failed: %w\n%s", err, output)
	}

	return nil
}

// RunService runs a one-off command in a service container and removes the
// container afterwards. The command's output is captured and attached to any
// error.
func (c *Compose) RunService(service string, cmdArgs ...string) error {
	rest := append(c.args("run", "--rm", service), cmdArgs...)

	cmd := exec.Command("docker", rest...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker compose run %s failed: %w\n%s", service, err, output)
	}

	return nil
}

// ExecService executes a command in a running service container. Detached
// execution returns immediately; foreground execution streams the command's
// output and blocks until it exits.
func (c *Compose) ExecService(service string, detached bool, cmdArgs ...string) error {
	rest := []string{"exec"}
	if detached {
		rest = append(rest, "-d")
	}
	rest = append(rest, service)
	rest = append(rest, cmdArgs...)

	cmd := exec.Command("docker", c.args(rest...)...)

	if detached {
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("docker compose exec %s failed: %w\n%s", service, err, output)
		}
		return nil
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker compose exec %s failed: %w", service, err)
	}

	return nil
}

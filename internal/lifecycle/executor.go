// Package lifecycle executes a resolved action set as an ordered pipeline of
// phases, delegating all real work to injected collaborators.
//
// Phases run strictly sequentially in a fixed order regardless of the order
// actions were requested in, because later phases assume earlier ones
// completed. Each phase is terminal on failure: there are no retries and no
// rollback of phases that already succeeded.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/blackwell-systems/devstack-control-plane/internal/action"
	"github.com/blackwell-systems/devstack-control-plane/internal/config"
)

// ContainerEngine abstracts the container orchestration tool.
type ContainerEngine interface {
	Build() error
	Up(detached bool) error
	Stop() error
	Down(removeVolumes, removeOrphans bool) error
	PruneStopped() error
}

// DependencyInstaller abstracts the two application package ecosystems.
type DependencyInstaller interface {
	InstallFrontend() error
	InstallBackend() error
	CheckBackend() bool
	CleanCaches() error
	PurgeBackendCache() error
}

// ApplicationServer abstracts the application server process.
type ApplicationServer interface {
	InitializeStorage() error
	Run(host string, port int, detached bool) error
}

// Preflight validates the environment before the engine is touched.
// It runs at the top of the build and start phases.
type Preflight func() error

// Executor runs lifecycle phases against injected collaborators.
type Executor struct {
	Engine    ContainerEngine
	Deps      DependencyInstaller
	Server    ApplicationServer
	Preflight Preflight
	Cfg       *config.Config

	// ReadyProbe, when set, is polled after a detached start to report
	// whether the server came up. Best-effort: it never fails the phase.
	ReadyProbe func() bool
}

// Run executes the resolved set's phases in fixed order. The context is
// checked between phases so an interrupt stops the pipeline at the next
// phase boundary. Every error is wrapped with the phase that produced it.
func (e *Executor) Run(ctx context.Context, set *action.Set) error {
	type phase struct {
		name string
		want bool
		run  func() error
	}

	phases := []phase{
		{"build", set.Build, e.build},
		{"start", set.Start, func() error { return e.start(set.Detached) }},
		{"halt", set.Halt, e.halt},
		{"tidy", set.Tidy, e.tidy},
		{"clean", set.Clean, e.clean},
		{"armageddon", set.Armageddon, e.armageddon},
	}

	for _, p := range phases {
		if !p.want {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted before %s: %w", p.name, err)
		}
		if err := p.run(); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}

	color.Green("✓ Done")
	return nil
}

// build builds images, installs both dependency ecosystems, then brings the
// stack up just long enough to initialize persistent storage. Any failure
// aborts the whole invocation: phases after build assume a successful build.
func (e *Executor) build() error {
	color.Cyan("Building environment...")

	if e.Preflight != nil {
		if err := e.Preflight(); err != nil {
			return err
		}
	}

	if err := e.Engine.Build(); err != nil {
		return err
	}

	color.Cyan("→ Installing frontend dependencies...")
	if err := e.Deps.InstallFrontend(); err != nil {
		return err
	}

	color.Cyan("→ Installing backend dependencies...")
	if err := e.Deps.InstallBackend(); err != nil {
		return err
	}

	color.Cyan("→ Initializing storage...")
	if err := e.Engine.Up(true); err != nil {
		return err
	}
	if err := e.Server.InitializeStorage(); err != nil {
		return err
	}
	if err := e.Engine.Stop(); err != nil {
		return err
	}

	color.Green("✓ Build complete")
	return nil
}

// start brings the stack up in the background and launches the application
// server, foreground or detached.
func (e *Executor) start(detached bool) error {
	color.Cyan("Starting environment...")

	if e.Preflight != nil {
		if err := e.Preflight(); err != nil {
			return err
		}
	}

	if !e.Deps.CheckBackend() {
		color.Yellow("⚠ Backend dependencies missing, installing...")
		if err := e.Deps.InstallBackend(); err != nil {
			return err
		}
	}

	if err := e.Engine.Up(true); err != nil {
		return err
	}

	srv := e.Cfg.Server
	color.Cyan("→ Server on %s:%d", srv.Host, srv.Port)
	if err := e.Server.Run(srv.Host, srv.Port, detached); err != nil {
		return err
	}

	if detached && e.ReadyProbe != nil {
		if e.ReadyProbe() {
			color.Green("✓ Server is up")
		} else {
			color.Yellow("⚠ Server still starting")
		}
	}

	return nil
}

// halt stops the running containers without removing them.
func (e *Executor) halt() error {
	color.Cyan("Stopping environment...")
	return e.Engine.Stop()
}

// tidy tears down containers but preserves named volumes.
func (e *Executor) tidy() error {
	color.Cyan("Tidying environment...")

	if err := e.Engine.Stop(); err != nil {
		return err
	}
	return e.Engine.Down(false, false)
}

// clean removes dependency caches and tears down containers including
// volumes and orphans.
func (e *Executor) clean() error {
	color.Cyan("Cleaning environment...")

	if err := e.Deps.CleanCaches(); err != nil {
		return err
	}
	if err := e.Engine.Stop(); err != nil {
		return err
	}
	return e.Engine.Down(true, true)
}

// armageddon is clean plus a system-wide prune of stopped containers and a
// purge of the backend dependency cache.
func (e *Executor) armageddon() error {
	if err := e.clean(); err != nil {
		return err
	}

	color.Cyan("→ Pruning stopped containers...")
	if err := e.Engine.PruneStopped(); err != nil {
		return err
	}

	color.Cyan("→ Purging backend dependency cache...")
	return e.Deps.PurgeBackendCache()
}

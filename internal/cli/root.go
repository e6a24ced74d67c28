// Package cli wires the devstack root command: it parses action tokens,
// resolves conflicts, constructs the real collaborators, and hands the
// resolved set to the lifecycle executor.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstack-control-plane/internal/action"
	"github.com/blackwell-systems/devstack-control-plane/internal/compose"
	"github.com/blackwell-systems/devstack-control-plane/internal/config"
	"github.com/blackwell-systems/devstack-control-plane/internal/deps"
	"github.com/blackwell-systems/devstack-control-plane/internal/docker"
	"github.com/blackwell-systems/devstack-control-plane/internal/lifecycle"
	"github.com/blackwell-systems/devstack-control-plane/internal/server"
)

const usageText = `Usage: devstack [action ...]

Actions (long form or single-letter alias, order-independent):
  build       b   build images, install dependencies, initialize storage
  start       s   bring the stack up and run the application server
  detached    d   modifier: start runs non-blocking (requires start)
  halt, stop  h   stop running containers without removing them
  tidy        t   tear down containers, preserving named volumes
  clean       c   tear down containers and volumes, remove dependency caches
  armageddon  a   clean plus prune stopped containers and purge gem cache
  usage       u   print this help and exit

Actions may be combined (e.g. "devstack build start d"); conflicting
combinations are rejected and destructive ones downgraded to the least
severe action requested.
`

var rootCmd = &cobra.Command{
	Use:   "devstack [action ...]",
	Short: "Drive the local development stack through its lifecycle",
	Long: `devstack drives a containerized development stack through named
lifecycle phases: build, start, halt, tidy, clean, armageddon.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.SetUsageTemplate(usageText)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command, printing any failure. The caller maps a
// non-nil return to exit status 1.
func Execute(version string) error {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		color.Red("✗ %v", err)
		return err
	}

	return nil
}

func run(ctx context.Context, tokens []string) error {
	set, err := action.Parse(tokens)
	if err != nil {
		var unknown *action.UnknownTokenError
		if errors.As(err, &unknown) {
			fmt.Print(usageText)
		}
		return err
	}

	// usage beats everything else, including invalid combinations.
	if set.Usage {
		fmt.Print(usageText)
		return nil
	}

	warnings, err := action.Resolve(set)
	if err != nil {
		if errors.Is(err, action.ErrNothingRequested) {
			fmt.Print(usageText)
		}
		return err
	}
	for _, w := range warnings {
		color.Yellow("⚠ %s", w)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	engine := docker.New(cfg.ComposeFile, cfg.Project)
	installer := deps.New(cfg.FrontendDir, cfg.BackendDir)
	app := server.New(engine, cfg.BackendService)

	executor := &lifecycle.Executor{
		Engine: engine,
		Deps:   installer,
		Server: app,
		Cfg:    cfg,
		Preflight: func() error {
			return compose.Preflight(cfg.ComposeFile, cfg.BackendService, cfg.DBService)
		},
		ReadyProbe: func() bool {
			srv := cfg.Server
			return server.Probe(srv.Host, srv.Port, srv.ReadyPath, srv.ReadyWaits) == server.StatusUp
		},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// On interrupt, best-effort stop of the running containers, then let
	// the executor wind down at the next phase boundary.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		color.Yellow("\n⚠ Interrupted, stopping containers...")
		if err := engine.Stop(); err != nil {
			color.Yellow("⚠ Stop failed: %v", err)
		}
		cancel()
	}()

	return executor.Run(ctx, set)
}

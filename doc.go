// Package devstack provides lifecycle orchestration for a containerized
// local development stack.
//
// # Overview
//
// The control plane provides:
//   - devstack CLI for stack lifecycle management
//   - docker compose orchestration
//   - yarn and bundler dependency installation
//   - application server launch and storage initialization
//
// # Installation
//
//	go install github.com/blackwell-systems/devstack-control-plane/cmd/devstack@latest
//
// # Quick Start
//
//	devstack build
//	devstack start detached
//	devstack halt
//
// # Architecture
//
// One invocation accepts a sequence of action tokens (build, start,
// detached, halt, tidy, clean, armageddon, usage), resolves conflicts
// between them, and executes the surviving phases in a fixed order against
// the container engine, the dependency installers, and the application
// server.
//
// # License
//
// Apache 2.0 - See LICENSE file for details.
package devstack

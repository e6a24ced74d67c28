package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/blackwell-systems/devstack-control-plane/internal/action"
	"github.com/blackwell-systems/devstack-control-plane/internal/config"
)

// fakeStack implements all three collaborator interfaces and records every
// call in order.
type fakeStack struct {
	calls []string

	failOn    string
	backendOK bool
}

func (f *fakeStack) call(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeStack) Build() error { return f.call("engine.build") }
func (f *fakeStack) Stop() error { return f.call("engine.stop") }
func (f *fakeStack) PruneStopped() error { return f.call("engine.prune") }

func (f *fakeStack) Up(detached bool) error {
	if detached {
		return f.call("engine.up-d")
	}
	return f.call("engine.up")
}

func (f *fakeStack) Down(removeVolumes, removeOrphans bool) error {
	if removeVolumes && removeOrphans {
		return f.call("engine.down-all")
	}
	return f.call("engine.down")
}

func (f *fakeStack) InstallFrontend() error { return f.call("deps.frontend") }
func (f *fakeStack) InstallBackend() error { return f.call("deps.backend") }
func (f *fakeStack) CleanCaches() error { return f.call("deps.clean") }
func (f *fakeStack) PurgeBackendCache() error { return f.call("deps.purge") }

func (f *fakeStack) CheckBackend() bool {
	f.calls = append(f.calls, "deps.check")
	return f.backendOK
}

func (f *fakeStack) InitializeStorage() error { return f.call("server.init") }

func (f *fakeStack) Run(host string, port int, detached bool) error {
	if detached {
		return f.call("server.run-d")
	}
	return f.call("server.run")
}

func testConfig() *config.Config {
	return &config.Config{
		ComposeFile:    "docker-compose.yml",
		Project:        "test",
		BackendService: "web",
		DBService:      "db",
		Server:         config.ServerConfig{Host: "0.0.0.0", Port: 3000},
	}
}

func newExecutor(fake *fakeStack) *Executor {
	return &Executor{
		Engine: fake,
		Deps:   fake,
		Server: fake,
		Cfg:    testConfig(),
	}
}

func TestRunPhases(t *testing.T) {
	tests := []struct {
		name      string
		set       action.Set
		backendOK bool
		failOn    string
		wantCalls []string
		wantErr   string
	}{
		{
			name:      "halt alone issues exactly one stop",
			set:       action.Set{Halt: true},
			wantCalls: []string{"engine.stop"},
		},
		{
			name:      "build runs full sequence",
			set:       action.Set{Build: true},
			wantCalls: []string{"engine.build", "deps.frontend", "deps.backend", "engine.up-d", "server.init", "engine.stop"},
		},
		{
			name:      "build dependency failure aborts before storage init",
			set:       action.Set{Build: true, Start: true},
			failOn:    "deps.backend",
			wantCalls: []string{"engine.build", "deps.frontend", "deps.backend"},
			wantErr:   "build:",
		},
		{
			name:      "start with installed backend",
			set:       action.Set{Start: true},
			backendOK: true,
			wantCalls: []string{"deps.check", "engine.up-d", "server.run"},
		},
		{
			name:      "start installs missing backend deps first",
			set:       action.Set{Start: true, Detached: true},
			wantCalls: []string{"deps.check", "deps.backend", "engine.up-d", "server.run-d"},
		},
		{
			name:      "tidy preserves volumes",
			set:       action.Set{Tidy: true},
			wantCalls: []string{"engine.stop", "engine.down"},
		},
		{
			name:      "clean removes caches and volumes",
			set:       action.Set{Clean: true},
			wantCalls: []string{"deps.clean", "engine.stop", "engine.down-all"},
		},
		{
			name:      "armageddon is clean plus prune and purge",
			set:       action.Set{Armageddon: true},
			wantCalls: []string{"deps.clean", "engine.stop", "engine.down-all", "engine.prune", "deps.purge"},
		},
		{
			name:      "build runs before halt regardless of request order",
			set:       action.Set{Halt: true, Build: true},
			wantCalls: []string{"engine.build", "deps.frontend", "deps.backend", "engine.up-d", "server.init", "engine.stop", "engine.stop"},
		},
		{
			name:      "halt failure is fatal and named",
			set:       action.Set{Halt: true},
			failOn:    "engine.stop",
			wantCalls: []string{"engine.stop"},
			wantErr:   "halt:",
		},
		{
			name:      "armageddon prune failure is fatal",
			set:       action.Set{Armageddon: true},
			failOn:    "engine.prune",
			wantCalls: []string{"deps.clean", "engine.stop", "engine.down-all", "engine.prune"},
			wantErr:   "armageddon:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStack{failOn: tt.failOn, backendOK: tt.backendOK}
			set := tt.set

			err := newExecutor(fake).Run(context.Background(), &set)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Run() error = %v, want containing %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}

			if !reflect.DeepEqual(fake.calls, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", fake.calls, tt.wantCalls)
			}
		})
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeStack{}
	set := action.Set{Build: true}

	err := newExecutor(fake).Run(ctx, &set)
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("Run() error = %v, want interruption error", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("calls = %v, want none after cancellation", fake.calls)
	}
}

func TestRunPreflightFailureStopsBuild(t *testing.T) {
	fake := &fakeStack{}
	executor := newExecutor(fake)
	executor.Preflight = func() error { return errors.New("service missing") }

	set := action.Set{Build: true}
	err := executor.Run(context.Background(), &set)
	if err == nil || !strings.Contains(err.Error(), "service missing") {
		t.Fatalf("Run() error = %v, want preflight error", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("calls = %v, want none after preflight failure", fake.calls)
	}
}

// Resolved sets drive the executor, so the downgrade path is covered end to
// end: tidy+clean+armageddon resolves to tidy alone and only tidy executes.
func TestRunResolvedDowngrade(t *testing.T) {
	set, err := action.Parse([]string{"tidy", "clean", "armageddon"})
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if _, err := action.Resolve(set); err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	fake := &fakeStack{}
	if err := newExecutor(fake).Run(context.Background(), set); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	want := []string{"engine.stop", "engine.down"}
	if !reflect.DeepEqual(fake.calls, want) {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
}

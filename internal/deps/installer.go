// Package deps installs and cleans the application's two dependency
// ecosystems: the yarn-managed frontend and the bundler-managed backend.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Installer shells out to yarn and bundle in the configured directories.
type Installer struct {
	FrontendDir string
	BackendDir  string
}

// New returns an Installer for the given frontend and backend directories.
func New(frontendDir, backendDir string) *Installer {
	return &Installer{FrontendDir: frontendDir, BackendDir: backendDir}
}

func runIn(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w\n%s", name, args[0], err, output)
	}

	return nil
}

// InstallFrontend installs frontend packages with yarn.
func (i *Installer) InstallFrontend() error {
	return runIn(i.FrontendDir, "yarn", "install")
}

// InstallBackend installs backend gems with bundler.
func (i *Installer) InstallBackend() error {
	return runIn(i.BackendDir, "bundle", "install")
}

// CheckBackend reports whether the backend gems are already installed.
func (i *Installer) CheckBackend() bool {
	cmd := exec.Command("bundle", "check")
	cmd.Dir = i.BackendDir
	return cmd.Run() == nil
}

// CleanCaches removes the local dependency caches of both ecosystems.
func (i *Installer) CleanCaches() error {
	for _, dir := range []string{
		filepath.Join(i.FrontendDir, "node_modules"),
		filepath.Join(i.BackendDir, "vendor", "bundle"),
	} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}

	return nil
}

// PurgeBackendCache removes gems that are no longer referenced by the
// lockfile from bundler's cache.
func (i *Installer) PurgeBackendCache() error {
	return runIn(i.BackendDir, "bundle", "clean", "--force")
}

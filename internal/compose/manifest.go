// Package compose parses docker-compose manifests and validates that the
// services the lifecycle controller depends on are actually defined, so a
// misconfigured stack fails before any engine command runs.
package compose

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Manifest represents the subset of a compose file this tool cares about.
type Manifest struct {
	Services map[string]Service `yaml:"services"`
	Volumes  map[string]Volume  `yaml:"volumes"`
}

// Service represents a compose service definition.
type Service struct {
	Image string   `yaml:"image,omitempty"`
	Build any      `yaml:"build,omitempty"`
	Ports []string `yaml:"ports,omitempty"`

	// depends_on has both list and map forms; this tool only checks presence.
	DependsOn any `yaml:"depends_on,omitempty"`
}

// Volume represents a named volume definition.
type Volume struct {
	Driver string `yaml:"driver,omitempty"`
}

// Load loads and parses a compose manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse compose YAML: %w", err)
	}

	return &manifest, nil
}

// Validate checks that every required service is defined in the manifest.
func (m *Manifest) Validate(required ...string) error {
	if len(m.Services) == 0 {
		return fmt.Errorf("compose file defines no services")
	}

	for _, name := range required {
		if _, ok := m.Services[name]; !ok {
			return fmt.Errorf("service %q not defined in compose file (have: %v)", name, m.serviceNames())
		}
	}

	return nil
}

func (m *Manifest) serviceNames() []string {
	names := make([]string, 0, len(m.Services))
	for name := range m.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preflight loads the manifest at path and validates the required services
// in one step.
func Preflight(path string, required ...string) error {
	manifest, err := Load(path)
	if err != nil {
		return err
	}
	return manifest.Validate(required...)
}

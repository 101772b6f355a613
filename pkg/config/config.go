package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/syncforge/forgeup/pkg/spec"
	"gopkg.in/yaml.v3"
)

const (
	// Default manifest paths, tried in order.
	DefaultPathYML  = ".config/forgeup.yml"
	DefaultPathYAML = ".config/forgeup.yaml"
)

// Load reads and parses an install manifest from the given path and applies
// defaults for any field the manifest leaves unset.
func Load(path string) (*spec.InstallSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest file: %s", path)
	}

	var cfg spec.InstallSpec
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest file: %s", path)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// Resolve loads the manifest at path when given, otherwise tries the default
// paths and falls back to the built-in forgectl defaults when none exists.
func Resolve(path string) (*spec.InstallSpec, error) {
	if path != "" {
		return Load(path)
	}

	for _, candidate := range []string{DefaultPathYML, DefaultPathYAML} {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}

	cfg := &spec.InstallSpec{}
	cfg.SetDefaults()
	return cfg, nil
}

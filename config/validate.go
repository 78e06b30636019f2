package config

import (
	"path/filepath"
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.TargetPlatform(); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid platform setting"), errors.ErrInvalidConfig)
	}

	// Workers: 0 = one goroutine per class, negative = invalid
	if c.Codegen.Workers < 0 {
		return errors.NewInvalidConfigError("codegen.workers must be >= 0, got %d", c.Codegen.Workers)
	}

	if c.Output.Dir == "" {
		return errors.NewInvalidConfigError("output.dir cannot be empty")
	}
	if err := validateRelative("output.binding_dir", c.Output.BindingDir); err != nil {
		return err
	}
	if err := validateRelative("output.umbrella", c.Output.Umbrella); err != nil {
		return err
	}

	if c.Watch.MaxRunsPerMinute < 0 {
		return errors.NewInvalidConfigError("watch.max_runs_per_minute must be >= 0, got %d", c.Watch.MaxRunsPerMinute)
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidConfigError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}

func validateRelative(key, path string) error {
	if path == "" {
		return errors.NewInvalidConfigError("%s cannot be empty", key)
	}
	if filepath.IsAbs(path) {
		return errors.NewInvalidConfigError("%s must be relative to output.dir, got %s", key, path)
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.NewInvalidConfigError("%s escapes output.dir: %s", key, path)
	}
	return nil
}

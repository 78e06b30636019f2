package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/bindgen/errors"
)

// New builds a viper instance with defaults, environment binding and config
// files merged in precedence order: user < project < explicit file < env.
// An explicit configFile must exist; discovered files are optional.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	for _, path := range discoverConfigFiles() {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.Wrapf(err, "config file %s", configFile)
		}
		if err := mergeFile(v, configFile); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Load unmarshals the effective configuration from v
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults, without environment or discovered files
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	if err := mergeFile(v, configPath); err != nil {
		return nil, err
	}
	return Load(v)
}

func mergeFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	if err := v.MergeInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "toml"
	}
}

// discoverConfigFiles returns existing config files, lowest precedence first
func discoverConfigFiles() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		user := filepath.Join(dir, "bindgen", "config.toml")
		if _, err := os.Stat(user); err == nil {
			paths = append(paths, user)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		if project := findProjectConfig(wd); project != "" {
			paths = append(paths, project)
		}
	}
	return paths
}

// findProjectConfig searches for bindgen.toml by walking up the directory
// tree from dir. Returns the path to the first config file found, or empty
// string if none found
func findProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}

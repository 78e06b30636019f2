package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Source represents where a configuration value came from
type Source string

const (
	SourceDefault     Source = "default"
	SourceFile        Source = "file"        // user, project or --config file
	SourceEnvironment Source = "environment" // BINDGEN_* or CODEGEN_FORCE_PUBLIC_MEMBER
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string      `json:"key" yaml:"key" toml:"key"`
	Value      interface{} `json:"value" yaml:"value" toml:"value"`
	Source     Source      `json:"source" yaml:"source" toml:"source"`
	SourcePath string      `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// Introspection provides metadata about the active configuration
type Introspection struct {
	ConfigFile string        `json:"config_file" yaml:"config_file" toml:"config_file"`
	Settings   []SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

// Introspect reports every effective setting of v with its source, sorted
// by key.
func Introspect(v *viper.Viper) *Introspection {
	result := &Introspection{ConfigFile: v.ConfigFileUsed()}

	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		info := SettingInfo{Key: key, Value: v.Get(key), Source: SourceDefault}

		if env := envSource(key); env != "" {
			info.Source = SourceEnvironment
			info.SourcePath = env
		} else if v.InConfig(key) {
			info.Source = SourceFile
			info.SourcePath = v.ConfigFileUsed()
		}
		result.Settings = append(result.Settings, info)
	}
	return result
}

// envSource returns the environment variable that sets key, if any
func envSource(key string) string {
	names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if key == "codegen.force_public_member" {
		names = append(names, ForcePublicEnv)
	}
	for _, name := range names {
		if _, ok := os.LookupEnv(name); ok {
			return name
		}
	}
	return ""
}

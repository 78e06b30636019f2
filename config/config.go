// Package config loads bindgen settings from defaults, config files and
// BINDGEN_* environment variables using viper.
package config

import (
	"github.com/teranos/bindgen/layout"
	"github.com/teranos/bindgen/platform"
)

// Config represents the bindgen configuration
type Config struct {
	Platform string        `mapstructure:"platform" toml:"platform" json:"platform" yaml:"platform"`
	Spec     SpecConfig    `mapstructure:"spec" toml:"spec" json:"spec" yaml:"spec"`
	Output   OutputConfig  `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Codegen  CodegenConfig `mapstructure:"codegen" toml:"codegen" json:"codegen" yaml:"codegen"`
	Engine   EngineConfig  `mapstructure:"engine" toml:"engine" json:"engine" yaml:"engine"`
	Watch    WatchConfig   `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log      LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// SpecConfig lists the binding documents to load when none are given on
// the command line
type SpecConfig struct {
	Paths []string `mapstructure:"paths" toml:"paths" json:"paths" yaml:"paths"`
}

// OutputConfig places generated headers
type OutputConfig struct {
	// Dir is the root of the generated tree.
	Dir string `mapstructure:"dir" toml:"dir" json:"dir" yaml:"dir"`

	// BindingDir holds per-class headers, relative to Dir.
	BindingDir string `mapstructure:"binding_dir" toml:"binding_dir" json:"binding_dir" yaml:"binding_dir"`

	// Umbrella is the include-everything header, relative to Dir.
	Umbrella string `mapstructure:"umbrella" toml:"umbrella" json:"umbrella" yaml:"umbrella"`
}

// CodegenConfig tunes generation
type CodegenConfig struct {
	// ForcePublicMember keeps members public inside unresolved layout gaps.
	// Also read from CODEGEN_FORCE_PUBLIC_MEMBER.
	ForcePublicMember bool `mapstructure:"force_public_member" toml:"force_public_member" json:"force_public_member" yaml:"force_public_member"`

	// Workers bounds concurrent class rendering, 0 = unbounded.
	Workers int `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"`
}

// EngineConfig describes the engine class family that is never regenerated
type EngineConfig struct {
	NativePrefixes []string `mapstructure:"native_prefixes" toml:"native_prefixes" json:"native_prefixes" yaml:"native_prefixes"`
	NativeClasses  []string `mapstructure:"native_classes" toml:"native_classes" json:"native_classes" yaml:"native_classes"`
	AudioPrefixes  []string `mapstructure:"audio_prefixes" toml:"audio_prefixes" json:"audio_prefixes" yaml:"audio_prefixes"`
}

// WatchConfig tunes generate --watch
type WatchConfig struct {
	// MaxRunsPerMinute caps regenerations, 0 = unlimited.
	MaxRunsPerMinute int `mapstructure:"max_runs_per_minute" toml:"max_runs_per_minute" json:"max_runs_per_minute" yaml:"max_runs_per_minute"`
}

// LogConfig configures logging output
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// TargetPlatform parses the configured platform, which must be concrete.
func (c *Config) TargetPlatform() (platform.Platform, error) {
	return platform.ParseConcrete(c.Platform)
}

// Family returns the configured engine family.
func (c *Config) Family() layout.Family {
	return layout.Family{
		NativePrefixes: c.Engine.NativePrefixes,
		NativeClasses:  c.Engine.NativeClasses,
		AudioPrefixes:  c.Engine.AudioPrefixes,
	}
}

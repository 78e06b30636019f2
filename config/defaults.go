package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/bindgen/layout"
)

// Config file names
const (
	ProjectConfigName = "bindgen.toml"
	EnvPrefix         = "BINDGEN"

	// ForcePublicEnv is the standalone switch for keeping gap members public.
	ForcePublicEnv = "CODEGEN_FORCE_PUBLIC_MEMBER"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("platform", "win")

	v.SetDefault("spec.paths", []string{})

	v.SetDefault("output.dir", "build/codegen")
	v.SetDefault("output.binding_dir", "Geode/binding")
	v.SetDefault("output.umbrella", "Geode/GeneratedBinding.hpp")

	v.SetDefault("codegen.force_public_member", false)
	v.SetDefault("codegen.workers", 0)

	family := layout.DefaultFamily()
	v.SetDefault("engine.native_prefixes", family.NativePrefixes)
	v.SetDefault("engine.native_classes", family.NativeClasses)
	v.SetDefault("engine.audio_prefixes", family.AudioPrefixes)

	v.SetDefault("watch.max_runs_per_minute", DefaultMaxRunsPerMinute)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds settings that have environment names outside the
// BINDGEN_ prefix
func BindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("codegen.force_public_member", EnvPrefix+"_CODEGEN_FORCE_PUBLIC_MEMBER", ForcePublicEnv)
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/config"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and validate bindgen configuration",
	Long: `Display and validate bindgen configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (<user config dir>/bindgen/config.toml)
3. Project config (bindgen.toml, searched up from the working directory)
4. --config file
5. Environment variables (BINDGEN_* and CODEGEN_FORCE_PUBLIC_MEMBER)
6. Command line flags

Examples:
  bindgen config show                  # Show effective configuration
  bindgen config show --format json    # Show configuration as JSON
  bindgen config show --sources        # Show where each value came from
  bindgen config validate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var (
	configFormat  string
	configSources bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configShowCmd.Flags().BoolVar(&configSources, "sources", false, "Show the source of every setting")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, v, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var value interface{} = cfg
	if configSources {
		value = config.Introspect(v)
	}
	text, err := marshalConfig(value, configFormat)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

// marshalConfig renders value in one of the supported formats
func marshalConfig(value interface{}, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		return "# bindgen configuration\n" + string(data), nil

	case "toml":
		data, err := toml.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		return "# bindgen configuration\n" + string(data), nil

	default:
		return "", fmt.Errorf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// loadConfig validates after applying overrides
	if _, _, err := loadConfig(cmd); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

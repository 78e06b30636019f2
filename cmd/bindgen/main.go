package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/cmd/bindgen/commands"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bindgen",
	Short: "bindgen - C++ binding header generator",
	Long: `bindgen - Generate C++ binding headers from binding documents.

Binding documents describe classes, their memory layout and the addresses of
their functions per platform. bindgen renders one header per class for a
single target platform, a header of global functions, and an umbrella header
that includes them all.

Available commands:
  generate - Generate binding headers for a platform
  check    - Check that generated headers are up to date
  status   - Show binding progress for a platform
  config   - Show and validate configuration
  version  - Show version information

Examples:
  bindgen generate bindings.yaml --platform win
  bindgen check bindings.yaml --platform win
  bindgen status --platform android --unbound
  bindgen config show --sources`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = logger.WithRunID(ctx, uuid.NewString())
		cmd.SetContext(logger.WithComponent(ctx, cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: bindgen.toml searched up from the working directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Structured JSON output")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/sink"
)

// CheckCmd verifies that generated headers on disk are current
var CheckCmd = &cobra.Command{
	Use:   "check [spec files...]",
	Short: "Check that generated headers are up to date",
	Long: `Generate in memory and compare with the headers in the output directory.
Exits non-zero when any header changed, is missing, or is stale. The
"// Source version:" stamp of the umbrella header is ignored.

Examples:
  bindgen check bindings.yaml --platform win
  bindgen check --output build/codegen`,
	RunE: runCheck,
}

func init() {
	addGenerationFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := specPaths(args, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := commandLogger(ctx, "check")

	result, err := checkOutput(ctx, cfg, specs, afero.NewReadOnlyFs(outputFs(cfg)), log)
	if err != nil {
		return err
	}
	if result.UpToDate {
		pterm.Success.Println("Generated headers are up to date")
		return nil
	}
	for _, p := range result.Changed {
		pterm.Warning.Printfln("changed: %s", p)
	}
	for _, p := range result.Missing {
		pterm.Warning.Printfln("missing: %s", p)
	}
	for _, p := range result.Stale {
		pterm.Warning.Printfln("stale:   %s", p)
	}
	return result.Err()
}

// checkOutput generates into memory and compares against existing
func checkOutput(ctx context.Context, cfg *config.Config, specs []string, existing afero.Fs, log *zap.SugaredLogger) (*sink.CheckResult, error) {
	out, err := assemble(ctx, cfg, specs, log)
	if err != nil {
		return nil, err
	}
	generated := afero.NewMemMapFs()
	if _, err := writeOutput(ctx, generated, cfg, out, false, log); err != nil {
		return nil, err
	}
	return sink.Compare(generated, existing, cfg.Output.BindingDir)
}

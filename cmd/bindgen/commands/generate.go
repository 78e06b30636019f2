package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/sink"
	"github.com/teranos/bindgen/unit"
)

var (
	generateWatch bool
	generatePrune bool
)

// GenerateCmd renders binding headers for one platform
var GenerateCmd = &cobra.Command{
	Use:   "generate [spec files...]",
	Short: "Generate binding headers for a platform",
	Long: `Generate one C++ header per class plus Standalones.hpp and the umbrella
header from binding documents (YAML, TOML or JSON).

Only files whose content changed are rewritten. With --prune, headers in the
binding directory that this run did not produce are removed. With --watch,
generation reruns whenever a spec file changes.

Examples:
  bindgen generate bindings.yaml --platform win
  bindgen generate --platform android --output build/codegen --prune
  CODEGEN_FORCE_PUBLIC_MEMBER=1 bindgen generate bindings.yaml
  bindgen generate bindings.yaml --watch`,
	RunE: runGenerate,
}

func init() {
	addGenerationFlags(GenerateCmd)
	GenerateCmd.Flags().BoolVar(&generateWatch, "watch", false, "Regenerate when spec files change")
	GenerateCmd.Flags().BoolVar(&generatePrune, "prune", false, "Remove headers that are no longer generated")
}

// addGenerationFlags registers the overrides shared by generate and check
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("platform", "p", "", "Target platform: mac-arm, mac-intel, win, ios, android")
	cmd.Flags().StringP("output", "o", "", "Output directory (default from output.dir)")
	cmd.Flags().Bool("force-public", false, "Keep members public inside unresolved layout gaps")
	cmd.Flags().Int("workers", 0, "Concurrent class renderers, 0 = one per class")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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
	log := commandLogger(ctx, "generate")
	v := verbosity(cmd, cfg)

	if logger.ShouldOutput(v, logger.OutputConfig) {
		pterm.Info.Printfln("Platform: %s, output: %s, force public: %t",
			cfg.Platform, cfg.Output.Dir, cfg.Codegen.ForcePublicMember)
	}

	if err := generateOnce(ctx, cfg, specs, generatePrune, v, log); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := config.NewSpecWatcher(specs, func(ctx context.Context, changed []string) error {
		log.Infow("spec files changed, regenerating", logger.FieldCount, len(changed))
		return generateOnce(ctx, cfg, specs, generatePrune, v, log)
	}, log.Named("watch"))
	if err != nil {
		return err
	}
	watcher.SetMaxRunsPerMinute(cfg.Watch.MaxRunsPerMinute)
	pterm.Info.Printfln("Watching %d spec file(s), press Ctrl+C to stop", len(specs))
	return watcher.Run(ctx)
}

// generateOnce runs the whole pipeline and reports what changed
func generateOnce(ctx context.Context, cfg *config.Config, specs []string, prune bool, v int, log *zap.SugaredLogger) error {
	start := time.Now()
	out, err := assemble(ctx, cfg, specs, log)
	if err != nil {
		return err
	}
	result, err := writeOutput(ctx, outputFs(cfg), cfg, out, prune, log)
	if err != nil {
		return err
	}
	printGenerateResult(out, result, v, time.Since(start))
	return nil
}

func printGenerateResult(out *unit.Output, result *sink.Result, v int, elapsed time.Duration) {
	if logger.ShouldOutput(v, logger.OutputUnits) {
		for _, p := range result.Written {
			pterm.Printfln("  wrote %s", p)
		}
		for _, p := range result.Pruned {
			pterm.Printfln("  pruned %s", p)
		}
	}
	if logger.ShouldOutput(v, logger.OutputUnitText) {
		for _, u := range out.Units {
			pterm.Printfln("// ---- %s ----", u.File)
			fmt.Print(u.Content)
		}
	}

	msg := fmt.Sprintf("Generated %d units (%d written, %d unchanged", len(out.Units), len(result.Written), len(result.Unchanged))
	if len(result.Pruned) > 0 {
		msg += fmt.Sprintf(", %d pruned", len(result.Pruned))
	}
	msg += ")"
	if logger.ShouldOutput(v, logger.OutputSummary) {
		msg += fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond))
	}
	pterm.Success.Println(msg)
}

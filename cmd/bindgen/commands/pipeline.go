package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/layout"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/sink"
	"github.com/teranos/bindgen/unit"
)

// loadConfig loads configuration honouring the global --config flag and
// applies the per-command overrides that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	configFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(configFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("platform") {
		cfg.Platform, _ = flags.GetString("platform")
	}
	if flags.Changed("output") {
		cfg.Output.Dir, _ = flags.GetString("output")
	}
	if flags.Changed("force-public") {
		cfg.Codegen.ForcePublicMember, _ = flags.GetBool("force-public")
	}
	if flags.Changed("workers") {
		cfg.Codegen.Workers, _ = flags.GetInt("workers")
	}
	cfg.Log.Verbosity = verbosity(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// verbosity is the -v count, raised to log.verbosity from configuration
func verbosity(cmd *cobra.Command, cfg *config.Config) int {
	n, _ := cmd.Flags().GetCount("verbose")
	if cfg != nil && cfg.Log.Verbosity > n {
		return cfg.Log.Verbosity
	}
	return n
}

// specPaths returns the documents named on the command line, falling back
// to spec.paths from configuration.
func specPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Spec.Paths) > 0 {
		return cfg.Spec.Paths, nil
	}
	return nil, errors.WithHint(
		errors.New("no binding documents given"),
		"pass spec files as arguments or set spec.paths in bindgen.toml")
}

// umbrellaBase is the include prefix of the umbrella header: the binding
// directory as seen from the umbrella's own directory.
func umbrellaBase(cfg *config.Config) string {
	rel, err := filepath.Rel(filepath.Dir(cfg.Output.Umbrella), cfg.Output.BindingDir)
	if err != nil {
		return filepath.Base(cfg.Output.BindingDir)
	}
	return filepath.ToSlash(rel)
}

// newAssembler wires the layout emitter and unit assembler for cfg
func newAssembler(cfg *config.Config, log *zap.SugaredLogger) (*unit.Assembler, error) {
	target, err := cfg.TargetPlatform()
	if err != nil {
		return nil, err
	}
	emitter := layout.NewEmitter(target, cfg.Codegen.ForcePublicMember, log.Named("layout"))
	emitter.Family = cfg.Family()
	emitter.Verbosity = cfg.Log.Verbosity

	return &unit.Assembler{
		Emitter:       emitter,
		BaseDirectory: umbrellaBase(cfg),
		Workers:       cfg.Codegen.Workers,
		Logger:        log.Named("unit"),
	}, nil
}

// assemble loads specs and renders every unit for the configured platform
func assemble(ctx context.Context, cfg *config.Config, specs []string, log *zap.SugaredLogger) (*unit.Output, error) {
	root, err := model.LoadAll(specs)
	if err != nil {
		return nil, err
	}
	asm, err := newAssembler(cfg, log)
	if err != nil {
		return nil, err
	}
	return asm.Assemble(ctx, root)
}

// writeOutput writes out into fs, the root of the generated tree, and
// optionally prunes headers that were not generated.
func writeOutput(ctx context.Context, fs afero.Fs, cfg *config.Config, out *unit.Output, prune bool, log *zap.SugaredLogger) (*sink.Result, error) {
	s := sink.New(fs, log.Named("sink"))
	result, err := s.WriteOutput(ctx, out, sink.Layout{
		BindingDir: cfg.Output.BindingDir,
		Umbrella:   cfg.Output.Umbrella,
	})
	if err != nil {
		return result, err
	}
	if prune {
		pruned, err := s.Prune(ctx, cfg.Output.BindingDir, out.Files)
		result.Pruned = pruned
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// outputFs is the generated tree on disk
func outputFs(cfg *config.Config) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), cfg.Output.Dir)
}

// commandLogger is the global logger carrying the run id from ctx
func commandLogger(ctx context.Context, name string) *zap.SugaredLogger {
	return logger.LoggerFromContext(ctx, logger.ComponentLogger(name))
}

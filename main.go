package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/common"
	"github.com/milk9111/ropesim/config"
	"github.com/milk9111/ropesim/prefabs"
	"github.com/milk9111/ropesim/rope"
)

var (
	cfgFile    string
	debug      bool
	prefabName string
	scriptName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ropesim",
		Short:        "Verlet rope simulator",
		SilenceUsage: true,
		RunE:         runPlay,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().StringVarP(&prefabName, "prefab", "p", "", "Rope prefab in prefabs/ (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&scriptName, "script", "s", "", "Anchor script in prefabs/scripts/ (overrides prefab)")

	rootCmd.AddCommand(
		playCmd(),
		termCmd(),
		serveCmd(),
		recordCmd(),
		verifyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what every command needs after flag parsing.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() (*app, error) {
	logger, err := common.NewLogger(debug)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if prefabName != "" {
		cfg.Prefab = prefabName
	}
	if scriptName != "" {
		cfg.Anchor.Script = scriptName
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// loadRope builds a simulator hanging from the prefab's anchor and the
// source that drives it.
func (a *app) loadRope() (*prefabs.RopeSpec, *rope.Simulator, anchor.Source, error) {
	spec, err := prefabs.LoadRopeSpec(a.cfg.Prefab)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := spec.Config()
	if err != nil {
		return nil, nil, nil, err
	}
	source, err := anchor.FromSpec(spec, a.cfg.Anchor.Script)
	if err != nil {
		return nil, nil, nil, err
	}
	start, err := source.Anchor(0, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	sim, err := rope.NewSimulator(start, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	a.logger.Debug("rope loaded",
		zap.String("prefab", a.cfg.Prefab),
		zap.Int("segments", cfg.SegmentCount),
		zap.Float64("rest_length", cfg.RestLength),
		zap.Int("iterations", cfg.Iterations),
	)
	return spec, sim, source, nil
}

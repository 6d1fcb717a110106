// runner-gui opens the runner in a window. Built for js/wasm it runs in the
// browser and keeps the ledger in localStorage.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/highscore"
	"github.com/vovakirdan/tui-runner/internal/platform/gui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

const appName = "tui-runner"

var (
	flagSeed     int64
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner-gui",
	Short: "Runner in a window",
	Long: `Play the runner in a desktop window.

Controls:
  Space/Up/W/Click - Jump
  R                - Restart (after game over)
  Q/Esc            - Quit`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func run(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "runner-gui",
	})

	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}

	var store highscore.Storage
	if ds, err := storage.OpenDataStore(appName); err == nil {
		store = ds
	} else {
		logger.Warn("could not open app data, scores will not persist", "error", err)
		store = storage.NewMemoryStore()
	}

	opts := highscore.OptionsFrom(cfg.Ledger)
	opts.Logger = logger
	ledger := highscore.Open(store, opts)

	rt := core.DefaultConfig()
	rt.Seed = flagSeed
	return gui.Run(runner.New(cfg, rt, ledger), logger)
}

// runner is an endless side-scrolling runner for the terminal.
//
// Usage:
//
//	runner                   - Start the title menu
//	runner play              - Start a run directly
//	runner scores            - Show the high-score ledger and run stats
//	runner serve             - Start SSH server for remote play
//	runner config            - Print the default configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible obstacle streams
//	--db <path>         - Set database path (default: ~/.runner/scores.db)
//	--store <backend>   - Ledger backend: sqlite, gdata or memory
//	--config <path>     - Custom runner config YAML
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/highscore"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// appName names the gdata application directory.
const appName = "tui-runner"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagStore    string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Runner - jump the obstacles in your terminal",
	Long: `Runner is an endless side-scrolling game for the terminal.
Jump over obstacles while the track keeps speeding up, and
put your name on the top-5 ledger.

Available commands:
  play     - Start a run directly
  scores   - View the high-score ledger
  serve    - Start SSH server for remote play
  config   - Print the default configuration

Examples:
  runner
  runner play --seed 42
  runner scores --interactive
  runner serve --ssh :2222
  runner --store gdata`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "sqlite", "Ledger backend: sqlite, gdata, memory")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the command logger. Without --log-file it writes to
// fallback, which is io.Discard for full-screen commands.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	out, closeFn := fallback, func() {}
	if flagLogFile != "" {
		path, err := storage.ExpandHome(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "runner",
	})
	return logger, closeFn, nil
}

// backend holds the opened ledger storage. runs is set only for sqlite,
// the one backend that keeps run history.
type backend struct {
	ledger highscore.Storage
	runs   *storage.Store
}

func (b backend) Close() {
	if b.runs != nil {
		b.runs.Close()
	}
}

// openBackend opens the storage chosen by --store. A database that cannot
// be opened falls back to an in-memory ledger so the game still works.
func openBackend(logger *log.Logger) (backend, error) {
	switch flagStore {
	case "sqlite", "":
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open scores database, scores will not persist", "path", flagDBPath, "error", err)
			return backend{ledger: storage.NewMemoryStore()}, nil
		}
		return backend{ledger: store, runs: store}, nil
	case "gdata":
		store, err := storage.OpenDataStore(appName)
		if err != nil {
			logger.Warn("could not open app data, scores will not persist", "error", err)
			return backend{ledger: storage.NewMemoryStore()}, nil
		}
		return backend{ledger: store}, nil
	case "memory":
		return backend{ledger: storage.NewMemoryStore()}, nil
	}
	return backend{}, fmt.Errorf("unknown --store %q (want sqlite, gdata or memory)", flagStore)
}

// loadConfig loads the runner config, keeping the defaults on a bad user file.
func loadConfig(logger *log.Logger) config.RunnerConfig {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	return cfg
}

// openLedger opens the ledger of player on b; an empty player is the
// local one.
func openLedger(b backend, cfg config.RunnerConfig, player string, logger *log.Logger) *highscore.Ledger {
	opts := highscore.OptionsFrom(cfg.Ledger).ForPlayer(player)
	opts.Logger = logger
	return highscore.Open(b.ledger, opts)
}

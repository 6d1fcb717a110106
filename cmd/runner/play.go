package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a run",
	Long: `Start a run directly, skipping the title menu.

Controls:
  Space/Up/W - Jump
  R          - Restart (after game over)
  Esc/B      - Back (after game over)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Examples:
  runner play
  runner play --seed 42
  runner play --config ./my-runner.yaml
  runner play --store memory`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// runtimeConfig reads the terminal size for a new runtime config.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := openBackend(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	cfg := loadConfig(logger)
	rt := runtimeConfig()
	ledger := openLedger(b, cfg, rt.Player, logger)

	opts := tui.Options{Runtime: rt, Logger: logger}
	if b.runs != nil {
		opts.Runs = b.runs
	}

	if _, err := tui.Run(runner.New(cfg, rt, ledger), opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// runMenu loops between the title menu, runs and the scoreboard until the
// player quits.
func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := openBackend(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	cfg := loadConfig(logger)
	rt := runtimeConfig()
	ledger := openLedger(b, cfg, rt.Player, logger)

	var history tui.HistoryStore
	if b.runs != nil {
		history = b.runs
	}

	for {
		result, err := tui.RunMenu(ledger, rt)
		if err != nil {
			return err
		}
		rt = result.Config

		switch result.Choice {
		case tui.ChoicePlay:
			opts := tui.Options{Runtime: rt, Logger: logger}
			if b.runs != nil {
				opts.Runs = b.runs
			}
			back, err := tui.Run(runner.New(cfg, rt, ledger), opts)
			if err != nil {
				return fmt.Errorf("error running game: %w", err)
			}
			// --seed fixes only the first run; later ones are time seeded
			rt.Seed = 0
			if !back {
				return nil
			}

		case tui.ChoiceScores:
			back, err := tui.RunScoreboard(ledger, history, rt.Player, rt.ScreenW, rt.ScreenH)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		default:
			return nil
		}
	}
}

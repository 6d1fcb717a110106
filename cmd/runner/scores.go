package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
)

var (
	flagInteractive bool
	flagClear       bool
	flagPlayer      string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score ledger",
	Long: `Display the top-5 ledger and, with the sqlite backend, stats of
the recorded runs.

Examples:
  runner scores
  runner scores --interactive
  runner scores --clear
  runner scores --player alice --db /srv/runner/scores.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scoreboard browser")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded run history and exit")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show the ledger of an SSH player")
}

func runScores(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := openBackend(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	player := tui.PlayerName(flagPlayer)
	if flagClear {
		if err := clearHistory(b, player); err != nil {
			return err
		}
		fmt.Printf("Cleared run history of %s\n", player)
		return nil
	}

	cfg := loadConfig(logger)
	ledger := openLedger(b, cfg, flagPlayer, logger)

	if flagInteractive {
		rt := runtimeConfig()
		var history tui.HistoryStore
		if b.runs != nil {
			history = b.runs
		}
		_, err := tui.RunScoreboard(ledger, history, player, rt.ScreenW, rt.ScreenH)
		return err
	}

	fmt.Println("High Scores - Runner")
	fmt.Println()

	entries := ledger.Entries()
	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %s\n", "Rank", "Name", "Score")
	fmt.Printf("  %-4s  %-16s  %s\n", "----", "----", "-----")
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %-4d  %-16s  %d\n", i+1, name, e.Score)
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", ledger.Best())

	if b.runs == nil {
		return nil
	}
	stats, err := b.runs.Stats(player)
	if err != nil {
		logger.Warn("cannot read run stats", "error", err)
		return nil
	}
	if stats.RunsCount > 0 {
		fmt.Printf("Runs: %d  Average: %.1f  Last played: %s\n",
			stats.RunsCount, stats.AvgScore, stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

// clearHistory deletes the run history of player. Only the sqlite backend
// keeps one.
func clearHistory(b backend, player string) error {
	if b.runs == nil {
		return fmt.Errorf("--clear needs the sqlite store, got %q", flagStore)
	}
	return b.runs.ClearRuns(player)
}

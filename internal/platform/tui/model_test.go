package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/highscore"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

type fakeRuns struct {
	saved []int
	fail  bool
}

func (f *fakeRuns) SaveRun(player string, score int) (int64, error) {
	if f.fail {
		return 0, errors.New("disk full")
	}
	f.saved = append(f.saved, score)
	return int64(len(f.saved)), nil
}

func newTestModel(t *testing.T, runs *fakeRuns) Model {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	// Every obstacle spawns almost at once so runs end quickly
	cfg.Spawn.InitialInterval = 0
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	ledger := highscore.Open(storage.NewMemoryStore(), highscore.OptionsFrom(cfg.Ledger))
	opts := Options{Runtime: rt}
	if runs != nil {
		opts.Runs = runs
	}
	return NewModel(runner.New(cfg, rt, ledger), opts)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return mm
}

// playUntilOver ticks the model without jumping until the run ends.
func playUntilOver(t *testing.T, m Model) Model {
	t.Helper()
	now := m.epoch
	for i := 0; i < 2000; i++ {
		now = now.Add(16 * time.Millisecond)
		m = update(t, m, TickMsg(now))
		if !m.Session().Running() {
			return m
		}
	}
	t.Fatal("run did not end")
	return m
}

func TestModelGameOverSavesRunAndAsksName(t *testing.T) {
	runs := &fakeRuns{}
	m := playUntilOver(t, newTestModel(t, runs))

	if len(runs.saved) != 1 {
		t.Fatalf("Expected one saved run, got %v", runs.saved)
	}
	if !m.Naming() {
		t.Fatal("First run should rank and open the name prompt")
	}
	if !strings.Contains(m.View(), "Name:") {
		t.Error("View() should show the name prompt")
	}

	// Further ticks do not save again
	m = update(t, m, TickMsg(m.epoch.Add(time.Hour)))
	if len(runs.saved) != 1 {
		t.Errorf("Run saved %d times", len(runs.saved))
	}
}

func TestModelNameEntry(t *testing.T) {
	m := playUntilOver(t, newTestModel(t, nil))

	for _, r := range "Ada" {
		m = update(t, m, runeKey(string(r)))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Naming() {
		t.Error("Enter should close the prompt")
	}
	if got := m.Session().Ledger().Entries()[0].Name; got != "Ada" {
		t.Errorf("Entry name = %q, expected Ada", got)
	}
}

func TestModelRestartKeepsDraft(t *testing.T) {
	runs := &fakeRuns{}
	m := playUntilOver(t, newTestModel(t, runs))

	m = update(t, m, runeKey("B"))
	m = update(t, m, runeKey("o"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = update(t, m, TickMsg(m.epoch.Add(time.Hour)))

	if !m.Session().Running() {
		t.Fatal("ctrl+r should restart the run")
	}
	if got := m.Session().Ledger().Entries()[0].Name; got != "Bo" {
		t.Errorf("Typed draft should be committed on restart, got %q", got)
	}

	playUntilOver(t, m)
	if len(runs.saved) != 2 {
		t.Errorf("Second run should be saved too, got %v", runs.saved)
	}
}

func TestModelSaveFailureIsSwallowed(t *testing.T) {
	m := playUntilOver(t, newTestModel(t, &fakeRuns{fail: true}))
	if m.IsQuitting() {
		t.Error("A failed save should not end the program")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	if m.Session().TrackWidth() != 1200 {
		t.Errorf("TrackWidth() = %v, expected 1200", m.Session().TrackWidth())
	}
	if m.screen.Width() != 120 || m.screen.Height() != 29 {
		t.Errorf("Screen = %dx%d, expected 120x29", m.screen.Width(), m.screen.Height())
	}
}

func TestModelQuitAndBack(t *testing.T) {
	m := newTestModel(t, nil)

	// Back is ignored while running
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("Esc while running should not leave the game")
	}

	m = playUntilOver(t, m)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // dismisses the prompt
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Esc after game over should go back to the menu")
	}

	m = update(t, m, runeKey("q"))
	if !m.IsQuitting() || m.View() != "" {
		t.Error("q should quit")
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if m.Selected() != ChoiceScores {
		t.Errorf("Selected() = %v, expected ChoiceScores", m.Selected())
	}
}

func TestScoreboardViews(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	ledger := highscore.Open(storage.NewMemoryStore(), highscore.OptionsFrom(cfg.Ledger))
	ledger.Record(42)
	ledger.SetName(0, "Ada")

	sb := NewScoreboardModel(ledger, nil, "local", 100, 30)
	if !strings.Contains(sb.View(), "Ada") {
		t.Error("Ledger view should list named entries")
	}

	// Without history there is only one table to show
	next, _ := sb.Update(tea.KeyMsg{Type: tea.KeyTab})
	sb = next.(ScoreboardModel)
	if sb.view != ViewLedger {
		t.Errorf("view = %v, expected ledger", sb.view)
	}
}

func TestScoreboardHistory(t *testing.T) {
	store, err := storage.Open(t.TempDir() + "/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveRun("local", 10)
	store.SaveRun("local", 20)

	sb := NewScoreboardModel(nil, store, "local", 100, 30)
	next, _ := sb.Update(tea.KeyMsg{Type: tea.KeyTab})
	sb = next.(ScoreboardModel)

	if sb.view != ViewHistory {
		t.Fatalf("view = %v, expected history", sb.view)
	}
	if len(sb.runs) != 2 || sb.stats == nil || sb.stats.RunsCount != 2 {
		t.Errorf("runs = %v, stats = %+v", sb.runs, sb.stats)
	}
	if !strings.Contains(sb.View(), "Recent Runs") {
		t.Error("View() should title the history table")
	}
}

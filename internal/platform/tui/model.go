package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/highscore"
)

// RunRecorder stores finished runs. *storage.Store implements it.
type RunRecorder interface {
	SaveRun(player string, score int) (int64, error)
}

// Options configures a game model.
type Options struct {
	Runtime core.RuntimeConfig
	Runs    RunRecorder // optional run history
	Logger  *log.Logger
}

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for one runner session.
// All session events go through Update, which keeps the session single-writer.
type Model struct {
	session    *runner.Session
	scene      *runner.Scene
	screen     *core.Screen
	runs       RunRecorder
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	epoch      time.Time

	nameInput textinput.Model
	naming    bool
	nameIndex int

	quitting   bool
	backToMenu bool
	runSaved   bool
}

// NewModel creates a new Bubble Tea model driving the given session.
func NewModel(session *runner.Session, opts Options) Model {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = session.Config().Ledger.DefaultName
	ti.CharLimit = session.Config().Ledger.MaxNameLength
	ti.Width = ti.CharLimit + 1
	ti.Prompt = "> "

	h := help.New()
	h.ShowAll = false

	m := Model{
		session:    session,
		scene:      runner.NewScene(session.Config(), cfg.TickRate),
		screen:     core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		runs:       opts.Runs,
		logger:     logger.WithPrefix("tui"),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		epoch:      time.Now(),
		nameInput:  ti,
		nameIndex:  highscore.NotRanked,
	}
	m.scene.Apply(session.Frame(0))
	return m
}

// playfieldHeight leaves the bottom line for the help bar or name prompt.
func playfieldHeight(h int) int {
	return max(1, h-1)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input during play and on the game-over screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionBack && !m.session.Running() {
		m.backToMenu = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleNameKey routes keys to the name prompt. Enter submits, Esc dismisses,
// and ctrl+r restarts right away, keeping whatever was typed.
func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.session.SubmitName(m.nameIndex, m.nameInput.Value())
		m.closePrompt()
		return m, nil
	case "esc":
		m.session.CancelName()
		m.closePrompt()
		return m, nil
	case "ctrl+r":
		m.closePrompt()
		m.inputFrame.Set(core.ActionRestart)
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	m.session.SetNameDraft(m.nameInput.Value())
	return m, cmd
}

func (m *Model) openPrompt(index int) {
	m.naming = true
	m.nameIndex = index
	m.nameInput.Reset()
	m.nameInput.Focus()
}

func (m *Model) closePrompt() {
	m.naming = false
	m.nameIndex = highscore.NotRanked
	m.nameInput.Blur()
	m.scene.ClearNameRequest()
}

// handleResize keeps the run going on the new track width.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
	m.help.Width = msg.Width

	cfg := m.session.Config()
	m.session.Resize(float64(msg.Width) * cfg.Track.CellWidth)
	return m, nil
}

// handleTick applies the collected input and runs one frame.
func (m Model) handleTick(t TickMsg) (tea.Model, tea.Cmd) {
	wasOver := !m.session.Running()
	m.session.Apply(m.inputFrame)
	if wasOver && m.session.Running() {
		m.runSaved = false
	}
	m.inputFrame.Clear()

	cmds := m.session.Frame(millisSince(m.epoch, t))
	m.scene.Apply(cmds)

	for _, c := range cmds {
		switch c := c.(type) {
		case runner.ShowGameOver:
			m.saveRun(c.FinalScore)
		case runner.RequestName:
			m.openPrompt(c.Index)
		}
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished run once per game over.
func (m *Model) saveRun(score int) {
	if m.runSaved || m.runs == nil {
		return
	}
	m.runSaved = true
	if _, err := m.runs.SaveRun(m.player(), score); err != nil {
		// Best-effort save, game continues regardless
		m.logger.Warn("cannot save run", "score", score, "error", err)
	}
}

func (m Model) player() string {
	return PlayerName(m.config.Player)
}

// LocalPlayer is the run history name of the player at the local terminal.
const LocalPlayer = "local"

// PlayerName maps a runtime player to its run history name.
func PlayerName(player string) string {
	if player == "" {
		return LocalPlayer
	}
	return player
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.scene.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("runner_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.scene.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

// statusLine is the name prompt while one is open, the help bar otherwise.
func (m Model) statusLine() string {
	if m.naming {
		return promptStyle.Render(fmt.Sprintf("New high score #%d! Name: ", m.nameIndex+1)) +
			m.nameInput.View() +
			helpStyle.Render("  enter save  esc skip")
	}
	return helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// Session returns the driven session.
func (m Model) Session() *runner.Session {
	return m.session
}

// Naming reports whether the name prompt is open.
func (m Model) Naming() bool {
	return m.naming
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given session.
// It reports whether the player asked to go back to the menu.
func Run(session *runner.Session, opts Options) (backToMenu bool, err error) {
	model := NewModel(session, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.BackToMenu(), nil
	}
	return false, nil
}

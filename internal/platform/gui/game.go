// Package gui provides the graphical frontend for the runner on top of
// Ebitengine. It runs on desktop and, compiled for js/wasm, in the browser.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/highscore"
)

// ErrQuit is returned from Update when the player closes the game.
var ErrQuit = errors.New("gui: quit requested")

// Window defaults in world units; one unit is one logical pixel.
const (
	DefaultWidth  = 800
	DefaultHeight = 300
)

var (
	colorSky    = color.RGBA{R: 247, G: 247, B: 247, A: 255}
	colorGround = color.RGBA{R: 83, G: 83, B: 83, A: 255}
	colorPlayer = color.RGBA{R: 60, G: 140, B: 60, A: 255}
	colorPlain  = color.RGBA{R: 46, G: 125, B: 50, A: 255}
	colorTall   = color.RGBA{R: 198, G: 40, B: 40, A: 255}
	colorPanel  = color.RGBA{R: 30, G: 30, B: 30, A: 220}
)

// Game implements ebiten.Game around one runner session.
// Ebitengine calls Update and Draw from a single goroutine, which keeps the
// session single-writer.
type Game struct {
	session *runner.Session
	scene   *runner.Scene
	logger  *log.Logger
	start   time.Time
	pixel   *ebiten.Image

	width, height int
	pendingWidth  int // set by Layout, applied by Update

	naming    bool
	nameIndex int
	name      []rune
}

// NewGame creates a game driving session. logger may be nil.
func NewGame(session *runner.Session, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	g := &Game{
		session:   session,
		scene:     runner.NewScene(session.Config(), ebiten.TPS()),
		logger:    logger.WithPrefix("gui"),
		start:     time.Now(),
		pixel:     pixel,
		width:     DefaultWidth,
		height:    DefaultHeight,
		nameIndex: highscore.NotRanked,
	}
	session.Resize(DefaultWidth)
	g.scene.Apply(session.Frame(0))
	return g
}

// Update handles input and advances the simulation by one frame.
func (g *Game) Update() error {
	if g.pendingWidth > 0 && g.pendingWidth != g.width {
		g.width = g.pendingWidth
		g.session.Resize(float64(g.width))
	}

	if g.naming {
		g.updateName()
	} else if err := g.updatePlay(); err != nil {
		return err
	}

	now := float64(time.Since(g.start)) / float64(time.Millisecond)
	cmds := g.session.Frame(now)
	g.scene.Apply(cmds)

	for _, c := range cmds {
		switch c := c.(type) {
		case runner.ShowGameOver:
			g.logger.Debug("run ended", "score", c.FinalScore)
		case runner.RequestName:
			g.naming = true
			g.nameIndex = c.Index
			g.name = g.name[:0]
		}
	}
	return nil
}

func (g *Game) updatePlay() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.session.Jump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Restart()
	}
	return nil
}

// updateName edits the name prompt. Enter submits, Escape dismisses and
// ctrl+R restarts with the typed text as the name.
func (g *Game) updateName() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.session.SubmitName(g.nameIndex, string(g.name))
		g.closePrompt()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.session.CancelName()
		g.closePrompt()
		return
	case ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.closePrompt()
		g.session.Restart()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if len(g.name) > 0 {
			g.name = g.name[:len(g.name)-1]
		}
	}

	limit := g.session.Config().Ledger.MaxNameLength
	for _, r := range ebiten.AppendInputChars(nil) {
		if limit > 0 && len(g.name) >= limit {
			break
		}
		g.name = append(g.name, r)
	}
	g.session.SetNameDraft(string(g.name))
}

func (g *Game) closePrompt() {
	g.naming = false
	g.nameIndex = highscore.NotRanked
	g.scene.ClearNameRequest()
}

// Draw renders the scene. World y grows upwards from the bottom of the window.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)

	cfg := g.session.Config()
	ground := float64(g.height) - cfg.Player.Ground
	g.fillRect(screen, 0, ground, float64(g.width), 2, colorGround)

	for _, o := range g.scene.Obstacles() {
		c := colorPlain
		if o.Kind == runner.KindTall {
			c = colorTall
		}
		g.fillRect(screen, o.X, ground-o.H, o.W, o.H, c)
	}

	_, offset := g.scene.Pose()
	g.drawPlayer(screen, cfg.Player.X, ground-offset-cfg.Player.Height, cfg.Player.Width, cfg.Player.Height)

	score, best, speed := g.scene.Score()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %05d  HI %05d", score, best), 10, 10)
	if g.scene.SpeedLabelVisible() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SPEED %.0f", speed), g.width-90, 10)
	}

	if over, final := g.scene.GameOver(); over {
		g.drawGameOver(screen, final)
	}
}

// drawPlayer draws the body with two legs that alternate while running.
func (g *Game) drawPlayer(screen *ebiten.Image, x, y, w, h float64) {
	legH := h / 4
	g.fillRect(screen, x, y, w, h-legH, colorPlayer)
	g.fillRect(screen, x+w*0.6, y+h*0.15, w*0.15, h*0.15, colorSky) // eye

	pose, _ := g.scene.Pose()
	front, back := legH, legH
	if pose == runner.PoseGrounded {
		if g.scene.LegFrame() < 5 {
			front = legH / 2
		} else {
			back = legH / 2
		}
	}
	g.fillRect(screen, x+w*0.15, y+h-legH, w*0.2, back, colorPlayer)
	g.fillRect(screen, x+w*0.6, y+h-legH, w*0.2, front, colorPlayer)
}

func (g *Game) drawGameOver(screen *ebiten.Image, final int) {
	entries, highlight := g.scene.Leaderboard()

	panelW, panelH := 320.0, 70.0+float64(len(entries))*16
	px := (float64(g.width) - panelW) / 2
	py := (float64(g.height) - panelH) / 2
	g.fillRect(screen, px, py, panelW, panelH, colorPanel)

	x, y := int(px)+16, int(py)+10
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("GAME OVER  score %d", final), x, y)
	ebitenutil.DebugPrintAt(screen, "R: restart   Q: quit", x, y+16)

	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		marker := "  "
		if i == highlight {
			marker = "> "
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s%d. %-16s %6d", marker, i+1, name, e.Score), x, y+40+i*16)
	}

	if g.naming {
		prompt := fmt.Sprintf("Name: %s_  (Enter save, Esc skip)", string(g.name))
		ebitenutil.DebugPrintAt(screen, prompt, x, int(py+panelH)+6)
	}
}

func (g *Game) fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(g.pixel, op)
}

// Layout keeps one world unit per logical pixel. A new width is handed to
// the session on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 {
		g.pendingWidth = outsideWidth
	}
	if outsideHeight > 0 {
		g.height = outsideHeight
	}
	return max(1, outsideWidth), max(1, outsideHeight)
}

// Run opens the window and blocks until it is closed.
func Run(session *runner.Session, logger *log.Logger) error {
	ebiten.SetWindowSize(DefaultWidth, DefaultHeight)
	ebiten.SetWindowTitle("Runner")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(session, logger)); err != nil && !errors.Is(err, ErrQuit) {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}

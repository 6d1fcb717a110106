package runner

import (
	"fmt"
	"math"
	"slices"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/highscore"
)

// Visual characters for rendering
const (
	DinoBody   = '█'
	DinoHead   = '◆'
	DinoLeg1   = '╱'
	DinoLeg2   = '╲'
	PlainChar  = '▓'
	TallChar   = '█'
	GroundChar = '═'
)

// Scene is the renderer-side mirror of a session. It is built only from
// render commands, so any frontend that can draw a core.Screen can show a run.
type Scene struct {
	cfg      config.RunnerConfig
	tickRate int

	obstacles []Obstacle // spawn order
	pose      Pose
	offset    float64
	score     int
	speed     float64
	best      int

	leaderboard []highscore.Entry
	highlight   int
	gameOver    bool
	finalScore  int
	askName     int

	frames   int // player updates seen, drives the leg animation
	legFrame int
}

// NewScene creates an empty scene. tickRate is the frame pulse rate used to
// turn frame counts into seconds for the blinking speed label.
func NewScene(cfg config.RunnerConfig, tickRate int) *Scene {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Scene{
		cfg:       cfg,
		tickRate:  tickRate,
		speed:     cfg.Speed.Base,
		highlight: highscore.NotRanked,
		askName:   highscore.NotRanked,
	}
}

// Apply updates the scene with commands in order.
func (sc *Scene) Apply(cmds []Command) {
	for _, c := range cmds {
		switch c := c.(type) {
		case SpawnObstacle:
			sc.obstacles = append(sc.obstacles, c.Obstacle)
		case MoveObstacle:
			if i := sc.find(c.ID); i >= 0 {
				sc.obstacles[i].X = c.X
			}
		case RemoveObstacle:
			if i := sc.find(c.ID); i >= 0 {
				sc.obstacles = slices.Delete(sc.obstacles, i, i+1)
			}
		case UpdatePlayer:
			sc.pose = c.Pose
			sc.offset = c.Offset
			sc.frames++
			sc.legFrame = (sc.legFrame + 1) % 10
		case UpdateScore:
			sc.score = c.Score
			sc.speed = c.Speed
		case UpdateHighScore:
			sc.best = c.Best
		case ShowLeaderboard:
			sc.leaderboard = c.Entries
			sc.highlight = c.Highlight
		case ShowGameOver:
			sc.gameOver = true
			sc.finalScore = c.FinalScore
		case HideGameOver:
			sc.gameOver = false
			sc.askName = highscore.NotRanked
		case RequestName:
			sc.askName = c.Index
		}
	}
}

func (sc *Scene) find(id int) int {
	return slices.IndexFunc(sc.obstacles, func(o Obstacle) bool { return o.ID == id })
}

// ClearNameRequest hides the name prompt once the host resolved it.
func (sc *Scene) ClearNameRequest() {
	sc.askName = highscore.NotRanked
}

// Obstacles returns the obstacles currently shown.
func (sc *Scene) Obstacles() []Obstacle {
	return slices.Clone(sc.obstacles)
}

// Pose returns the player's pose and height above the ground.
func (sc *Scene) Pose() (Pose, float64) {
	return sc.pose, sc.offset
}

// Score returns the displayed score, the best score and the current speed.
func (sc *Scene) Score() (score, best int, speed float64) {
	return sc.score, sc.best, sc.speed
}

// GameOver reports whether the game-over surface is shown and its final score.
func (sc *Scene) GameOver() (bool, int) {
	return sc.gameOver, sc.finalScore
}

// Leaderboard returns the ranked list and the highlighted index.
func (sc *Scene) Leaderboard() ([]highscore.Entry, int) {
	return sc.leaderboard, sc.highlight
}

// NameRequested returns the ledger index awaiting a name, or highscore.NotRanked.
func (sc *Scene) NameRequested() int {
	return sc.askName
}

// LegFrame returns the running animation frame in [0, 10).
func (sc *Scene) LegFrame() int {
	return sc.legFrame
}

// SpeedLabelVisible reports whether the blinking speed label is lit.
// The blink period shortens as the run speeds up.
func (sc *Scene) SpeedLabelVisible() bool {
	period := RunState{Speed: sc.speed}.LabelPeriod(sc.cfg.Speed.Base)
	elapsed := float64(sc.frames) / float64(sc.tickRate)
	return math.Mod(elapsed, period) < period*0.6
}

// Render draws the scene into dst, one cell per CellWidth x CellHeight world units.
func (sc *Scene) Render(dst *core.Screen) {
	dst.Clear()

	groundY := dst.Height() - 2
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar, core.ColorGray)

	for _, o := range sc.obstacles {
		sc.drawObstacle(dst, o, groundY)
	}
	sc.drawDino(dst, groundY)

	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", sc.score), core.ColorBrightWhite)
	dst.DrawTextColored(16, 0, fmt.Sprintf(" Best: %d ", sc.best), core.ColorYellow)
	if sc.SpeedLabelVisible() {
		speedText := fmt.Sprintf(" Spd: %.0f ", sc.speed)
		dst.DrawTextColored(dst.Width()-len(speedText)-2, 0, speedText, core.ColorCyan)
	}

	if sc.gameOver {
		sc.drawGameOver(dst)
	}
}

// column converts a world x-coordinate to a screen column.
func (sc *Scene) column(x float64) int {
	return int(math.Floor(x / sc.cfg.Track.CellWidth))
}

// rows converts a world height to a number of screen rows, at least one.
func (sc *Scene) rows(h float64) int {
	return max(1, int(math.Round(h/sc.cfg.Track.CellHeight)))
}

// drawDino renders the player character.
func (sc *Scene) drawDino(dst *core.Screen, groundY int) {
	lift := int(math.Round(sc.offset / sc.cfg.Track.CellHeight))
	baseY := groundY - 3 - lift
	playerX := sc.column(sc.cfg.Player.X)

	//  ◆█
	// ███
	// ╱╲
	dst.SetColored(playerX+1, baseY, DinoHead, core.ColorGreen)
	dst.SetColored(playerX+2, baseY, DinoBody, core.ColorGreen)
	for dx := 0; dx < 3; dx++ {
		dst.SetColored(playerX+dx, baseY+1, DinoBody, core.ColorGreen)
	}

	legs := [3]rune{DinoLeg1, DinoLeg2, ' '}
	if sc.pose == PoseGrounded {
		if sc.legFrame < 5 {
			legs = [3]rune{DinoLeg1, ' ', DinoLeg2}
		} else {
			legs = [3]rune{' ', DinoLeg1, DinoLeg2}
		}
	}
	for dx, r := range legs {
		dst.SetColored(playerX+dx, baseY+2, r, core.ColorGreen)
	}
}

// drawObstacle renders one obstacle standing on the ground line.
func (sc *Scene) drawObstacle(dst *core.Screen, o Obstacle, groundY int) {
	ch, color := PlainChar, core.ColorGreen
	if o.Kind == KindTall {
		ch, color = TallChar, core.ColorRed
	}
	x := sc.column(o.X)
	w := max(1, sc.column(o.Right())-x)
	h := sc.rows(o.H)
	dst.DrawRect(core.NewRect(x, groundY-h, w, h), ch, color)
}

// drawGameOver draws the game-over box with the ranked list under it.
func (sc *Scene) drawGameOver(dst *core.Screen) {
	title := "GAME OVER"
	subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", sc.finalScore)

	lines := make([]string, 0, len(sc.leaderboard))
	for i, e := range sc.leaderboard {
		name := e.Name
		if name == "" {
			name = "-"
		}
		lines = append(lines, fmt.Sprintf("%d. %-16s %6d", i+1, name, e.Score))
	}

	boxW := len(subtitle) + 4
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l))+4)
	}
	boxH := 5
	if len(lines) > 0 {
		boxH += len(lines) + 1
	}
	boxX := core.Clamp((dst.Width()-boxW)/2, 0, dst.Width())
	boxY := core.Clamp((dst.Height()-boxH)/2, 1, dst.Height())

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorRed)
	dst.DrawTextCentered(boxY+3, subtitle)

	for i, l := range lines {
		color := core.ColorDefault
		if i == sc.highlight {
			color = core.ColorYellow
		}
		dst.DrawTextColored(boxX+2, boxY+5+i, l, color)
	}
}

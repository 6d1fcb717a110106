// Package runner implements the endless-runner simulation.
// A Session owns one run: the player body, the obstacle track, the
// speed/score accumulators and the link to a high-score ledger. It is driven
// by frame pulses and discrete input events and answers with render commands;
// it never draws or blocks.
package runner

import (
	"math/rand"
	"strings"
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/highscore"
)

// NameRequest is an open request for the display name of a ranked entry.
type NameRequest struct {
	Index int
	Draft string // text typed so far, committed on restart when non-blank
}

// Session is one run context. It is not safe for concurrent use: the host
// serializes frames and input through its event loop.
type Session struct {
	cfg     config.RunnerConfig
	runtime core.RuntimeConfig
	ledger  *highscore.Ledger

	clock   Clock
	body    Body
	state   RunState
	spawner *Spawner
	track   Track
	phase   Phase
	pending *NameRequest

	trackWidth float64
	nextID     int
	queued     []Command
}

// New creates a running session. The track width is derived from the
// runtime screen width and the configured cell scale until Resize is called.
// A nil ledger keeps scores in memory only.
func New(cfg config.RunnerConfig, runtime core.RuntimeConfig, ledger *highscore.Ledger) *Session {
	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if ledger == nil {
		ledger = highscore.New(nil, highscore.OptionsFrom(cfg.Ledger))
	}

	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		cfg:        cfg,
		runtime:    runtime,
		ledger:     ledger,
		clock:      NewClock(cfg.Physics.MaxStep),
		spawner:    NewSpawner(cfg.Spawn, cfg.Obstacles, rng),
		trackWidth: float64(runtime.ScreenW) * cfg.Track.CellWidth,
	}
	s.reset()

	s.emit(UpdateHighScore{Best: ledger.Best()})
	s.emit(ShowLeaderboard{Entries: ledger.Entries(), Highlight: highscore.NotRanked})
	return s
}

// reset puts the run back to its initial state: base speed, zero score,
// grounded body, empty track and no previous timestamp.
func (s *Session) reset() {
	s.state = RunState{
		Speed:         s.cfg.Speed.Base,
		SpawnInterval: s.cfg.Spawn.InitialInterval,
		Running:       true,
	}
	s.body = Body{
		X: s.cfg.Player.X,
		W: s.cfg.Player.Width,
		H: s.cfg.Player.Height,
	}
	s.track.Clear()
	s.clock.Reset()
	s.phase = PhaseRunning
}

func (s *Session) emit(c Command) {
	s.queued = append(s.queued, c)
}

// flush hands over the commands produced by input handlers since the last frame.
func (s *Session) flush() []Command {
	out := s.queued
	s.queued = nil
	return out
}

// Frame advances the simulation to now (milliseconds from a monotonic source)
// and returns the render commands produced since the previous frame.
// While the run is over only pending commands are returned.
func (s *Session) Frame(now float64) []Command {
	out := s.flush()
	if s.phase != PhaseRunning {
		return out
	}

	dt := s.clock.Advance(now)
	start := s.state.Accelerate(dt, s.cfg.Speed.Accel)

	s.body.Integrate(dt, s.cfg.Physics.Gravity)
	out = append(out, UpdatePlayer{Pose: s.body.Pose(), Offset: s.body.Y})

	if o, ok := s.spawner.Tick(&s.state, dt, s.trackWidth); ok {
		s.nextID++
		o.ID = s.nextID
		s.track.Add(o)
		out = append(out, SpawnObstacle{Obstacle: o})
	}

	player := s.PlayerHitbox()
	for i := s.track.Len() - 1; i >= 0; i-- {
		o := s.track.At(i)
		o.X -= s.state.Speed * dt
		out = append(out, MoveObstacle{ID: o.ID, X: o.X})

		if player.Overlaps(s.Hitbox(*o)) {
			s.gameOver()
			return append(out, s.flush()...)
		}

		if o.Right() < -s.cfg.Track.DespawnMargin {
			id := o.ID
			s.track.RemoveAt(i)
			out = append(out, RemoveObstacle{ID: id})
		}
	}

	s.state.Accrue(dt, start, s.cfg.Speed.ScoreDivisor)
	return append(out, UpdateScore{Score: s.state.DisplayScore(), Speed: s.state.Speed})
}

// PlayerHitbox returns the player's collision box.
func (s *Session) PlayerHitbox() core.Box {
	in := s.cfg.Hitbox.Player
	return s.body.Box(s.cfg.Player.Ground).Inset(in.X, in.Y)
}

// Hitbox returns the collision box of an obstacle; the inset depends on its kind.
func (s *Session) Hitbox(o Obstacle) core.Box {
	in := s.cfg.Hitbox.Plain
	if o.Kind == KindTall {
		in = s.cfg.Hitbox.Tall
	}
	return o.Box(s.cfg.Player.Ground).Inset(in.X, in.Y)
}

// gameOver freezes the run and records the floored score.
func (s *Session) gameOver() {
	s.phase = PhaseGameOver
	s.state.Running = false

	final := s.state.DisplayScore()
	idx, ranked := s.ledger.Record(final)

	s.emit(ShowGameOver{FinalScore: final})
	s.emit(UpdateHighScore{Best: s.ledger.Best()})
	s.emit(ShowLeaderboard{Entries: s.ledger.Entries(), Highlight: idx})
	if ranked {
		s.pending = &NameRequest{Index: idx}
		s.emit(RequestName{Index: idx})
	}
}

// Jump asks the player to jump. It reports whether the jump happened; it is
// ignored while airborne or after the run ended.
func (s *Session) Jump() bool {
	if s.phase != PhaseRunning {
		return false
	}
	return s.body.Jump(s.cfg.Physics.JumpVelocity)
}

// Restart starts a new run after a game over. A name typed but not submitted
// is committed first; an empty draft discards the request and the entry stays
// anonymous. It reports false while a run is in progress.
func (s *Session) Restart() bool {
	if s.phase != PhaseGameOver {
		return false
	}

	if p := s.pending; p != nil && strings.TrimSpace(p.Draft) != "" {
		s.ledger.SetName(p.Index, p.Draft)
	}
	s.pending = nil

	for _, o := range s.track.Items() {
		s.emit(RemoveObstacle{ID: o.ID})
	}
	s.reset()

	s.emit(HideGameOver{})
	s.emit(ShowLeaderboard{Entries: s.ledger.Entries(), Highlight: highscore.NotRanked})
	s.emit(UpdatePlayer{Pose: PoseGrounded})
	s.emit(UpdateScore{Score: 0, Speed: s.state.Speed})
	return true
}

// Resize sets the visible track width in world units. The next frame is a
// zero-length step so layout changes never show up as a time jump.
func (s *Session) Resize(trackWidth float64) {
	s.trackWidth = trackWidth
	if s.phase == PhaseRunning {
		s.clock.Reset()
	}
}

// SetNameDraft records the text currently typed into the name prompt.
func (s *Session) SetNameDraft(text string) {
	if s.pending != nil {
		s.pending.Draft = text
	}
}

// SubmitName resolves the pending name request for the entry at index.
// It reports false when no request for that entry is open.
func (s *Session) SubmitName(index int, text string) bool {
	if s.pending == nil || s.pending.Index != index {
		return false
	}
	s.pending = nil
	if !s.ledger.SetName(index, text) {
		return false
	}
	s.emit(ShowLeaderboard{Entries: s.ledger.Entries(), Highlight: index})
	return true
}

// CancelName drops the pending name request. The entry stays anonymous.
func (s *Session) CancelName() {
	s.pending = nil
}

// Apply maps a frame's platform actions onto session events.
func (s *Session) Apply(in core.InputFrame) {
	if in.Has(core.ActionJump) {
		s.Jump()
	}
	if in.Has(core.ActionRestart) {
		s.Restart()
	}
}

// State returns a copy of the run accumulators.
func (s *Session) State() RunState {
	return s.state
}

// Body returns a copy of the player body.
func (s *Session) Body() Body {
	return s.body
}

// Obstacles returns the live obstacles in track order.
func (s *Session) Obstacles() []Obstacle {
	return s.track.Items()
}

// Phase returns the controller state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Running reports whether a run is in progress.
func (s *Session) Running() bool {
	return s.phase == PhaseRunning
}

// Pending returns the open name request, if any.
func (s *Session) Pending() (NameRequest, bool) {
	if s.pending == nil {
		return NameRequest{}, false
	}
	return *s.pending, true
}

// Ledger returns the session's high-score ledger.
func (s *Session) Ledger() *highscore.Ledger {
	return s.ledger
}

// TrackWidth returns the visible track width in world units.
func (s *Session) TrackWidth() float64 {
	return s.trackWidth
}

// Config returns the simulation config the session runs with.
func (s *Session) Config() config.RunnerConfig {
	return s.cfg
}

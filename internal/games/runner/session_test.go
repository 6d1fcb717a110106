package runner

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/highscore"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return newTestSessionWith(t, config.DefaultRunnerConfig())
}

func newTestSessionWith(t *testing.T, cfg config.RunnerConfig) *Session {
	t.Helper()
	rt := core.DefaultConfig()
	rt.Seed = 42
	ledger := highscore.Open(storage.NewMemoryStore(), highscore.OptionsFrom(cfg.Ledger))
	return New(cfg, rt, ledger)
}

func initialState(cfg config.RunnerConfig) RunState {
	return RunState{
		Speed:         cfg.Speed.Base,
		SpawnInterval: cfg.Spawn.InitialInterval,
		Running:       true,
	}
}

func countCommands[T Command](cmds []Command) int {
	n := 0
	for _, c := range cmds {
		if _, ok := c.(T); ok {
			n++
		}
	}
	return n
}

// crash runs frames until the session reports a game over.
func crash(t *testing.T, s *Session) []Command {
	t.Helper()
	s.Frame(0)
	s.track.Add(Obstacle{ID: 900, X: 100, W: 40, H: 200})
	cmds := s.Frame(16)
	if s.Running() {
		t.Fatal("Session should be over after hitting an obstacle")
	}
	return cmds
}

func TestSessionInitialCommands(t *testing.T) {
	s := newTestSession(t)

	cmds := s.Frame(0)
	if countCommands[UpdateHighScore](cmds) != 1 || countCommands[ShowLeaderboard](cmds) != 1 {
		t.Errorf("First frame should announce the high score and leaderboard, got %#v", cmds)
	}
	if got := s.State(); got != initialState(s.cfg) {
		t.Errorf("Zero-length first frame changed state: %+v", got)
	}
}

func TestSessionSpeedScoreScenario(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Physics.MaxStep = 0.1
	s := newTestSessionWith(t, cfg)
	s.Frame(1000)
	s.Frame(1100)

	st := s.State()
	if !near(st.Speed, 300.8) {
		t.Errorf("Speed = %v, expected 300.8", st.Speed)
	}
	if !near(st.Score, 0.3) {
		t.Errorf("Score = %v, expected 0.3", st.Score)
	}
}

func TestSessionSpeedScoreMonotonic(t *testing.T) {
	s := newTestSession(t)
	rng := rand.New(rand.NewSource(8))

	now := 0.0
	prev := s.State()
	for i := 0; i < 3000 && s.Running(); i++ {
		// Mostly forward, sometimes backwards or long pauses
		switch rng.Intn(20) {
		case 0:
			now -= 40
		case 1:
			now += 2000
		default:
			now += 16
		}
		if rng.Intn(30) == 0 {
			s.Jump()
		}
		s.Frame(now)

		st := s.State()
		if st.Speed < prev.Speed || st.Score < prev.Score {
			t.Fatalf("frame %d: speed/score decreased from %+v to %+v", i, prev, st)
		}
		if b := s.Body(); b.Y < 0 {
			t.Fatalf("frame %d: body below ground: %+v", i, b)
		}
		prev = st
	}
}

func TestSessionJumpIgnoredWhileAirborne(t *testing.T) {
	s := newTestSession(t)
	s.Frame(1000)

	if !s.Jump() {
		t.Fatal("Jump() on the ground should succeed")
	}
	cmds := s.Frame(1016)

	var pose UpdatePlayer
	for _, c := range cmds {
		if p, ok := c.(UpdatePlayer); ok {
			pose = p
		}
	}
	if pose.Pose != PoseAirborne || pose.Offset <= 0 {
		t.Errorf("UpdatePlayer after jump = %+v, expected airborne", pose)
	}

	vy := s.Body().VY
	if s.Jump() {
		t.Error("Jump() while airborne should report false")
	}
	if s.Body().VY != vy {
		t.Error("Jump() while airborne should not change VY")
	}
}

func TestSessionSpawnsObstacles(t *testing.T) {
	s := newTestSession(t)

	spawned := 0
	for now := 0.0; now <= 2000; now += 16 {
		for _, c := range s.Frame(now) {
			if sp, ok := c.(SpawnObstacle); ok {
				spawned++
				if want := s.TrackWidth() + 20; sp.Obstacle.X != want {
					t.Errorf("Obstacle spawned at %v, expected %v", sp.Obstacle.X, want)
				}
			}
		}
		if !s.Running() {
			break
		}
	}
	if spawned != 1 {
		t.Errorf("Expected one obstacle within 2s, got %d", spawned)
	}
}

func TestSessionRemovesObstaclesPastMargin(t *testing.T) {
	s := newTestSession(t)
	s.Frame(0)
	s.track.Add(Obstacle{ID: 1, X: -95, W: 40, H: 30})
	s.track.Add(Obstacle{ID: 2, X: 600, W: 30, H: 30})

	cmds := s.Frame(16)
	if countCommands[RemoveObstacle](cmds) != 1 {
		t.Fatalf("Expected one RemoveObstacle, got %#v", cmds)
	}

	for now := 32.0; now < 200; now += 16 {
		s.Frame(now)
		for _, o := range s.Obstacles() {
			if o.ID == 1 {
				t.Fatal("Removed obstacle reappeared")
			}
		}
	}
	if obs := s.Obstacles(); len(obs) != 1 || obs[0].ID != 2 {
		t.Errorf("Obstacles() = %+v, expected only ID 2", obs)
	}
}

func TestSessionTouchingHitboxesCollide(t *testing.T) {
	s := newTestSession(t)

	// Player hitbox spans x [98, 110]; a plain obstacle at x=100, w=40
	// has hitbox x [110, 130] and touches it on the edge.
	o := Obstacle{X: 100, W: 40, H: 40}
	if !s.PlayerHitbox().Overlaps(s.Hitbox(o)) {
		t.Error("Touching hitboxes should overlap")
	}

	o.X = 100.5
	if s.PlayerHitbox().Overlaps(s.Hitbox(o)) {
		t.Error("Separated hitboxes should not overlap")
	}

	p := s.PlayerHitbox()
	if p.X != 98 || p.Y != 34 || p.W != 12 || p.H != 24 {
		t.Errorf("PlayerHitbox() = %+v, expected {98 34 12 24}", p)
	}
}

func TestSessionHitboxInsetByKind(t *testing.T) {
	s := newTestSession(t)

	// Player hitbox spans x [98, 110]. Tall obstacles are inset 18 units
	// horizontally, plain ones 10.
	tests := []struct {
		name    string
		o       Obstacle
		collide bool
	}{
		{"tall touching", Obstacle{X: 92, W: 60, H: 60, Kind: KindTall}, true},
		{"tall half a unit clear", Obstacle{X: 92.5, W: 60, H: 60, Kind: KindTall}, false},
		{"plain at the same spot", Obstacle{X: 92.5, W: 60, H: 60, Kind: KindPlain}, true},
		{"tall left edge touching", Obstacle{X: 20, W: 96, H: 60, Kind: KindTall}, true},
		{"tall passed", Obstacle{X: 19.5, W: 60, H: 60, Kind: KindTall}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.PlayerHitbox().Overlaps(s.Hitbox(tc.o)); got != tc.collide {
				t.Errorf("Overlaps() = %v, expected %v (hitbox %+v)", got, tc.collide, s.Hitbox(tc.o))
			}
		})
	}

	h := s.Hitbox(Obstacle{X: 92, W: 60, H: 60, Kind: KindTall})
	if h.X != 110 || h.Y != 34 || h.W != 24 || h.H != 36 {
		t.Errorf("Hitbox(tall) = %+v, expected {110 34 24 36}", h)
	}
}

func TestSessionTallObstacleEndsRun(t *testing.T) {
	s := newTestSession(t)
	s.Frame(1000)
	s.track.Add(Obstacle{ID: 7, X: 92, W: 60, H: 60, Kind: KindTall})

	cmds := s.Frame(1000)
	if countCommands[ShowGameOver](cmds) != 1 {
		t.Fatalf("Touching a tall obstacle should end the run, got %#v", cmds)
	}
}

func TestSessionGameOverOnce(t *testing.T) {
	s := newTestSession(t)
	s.Frame(0)
	s.track.Add(Obstacle{ID: 1, X: 2000, W: 30, H: 30})
	s.track.Add(Obstacle{ID: 2, X: 100, W: 40, H: 40})

	cmds := s.Frame(16)

	if countCommands[ShowGameOver](cmds) != 1 {
		t.Fatalf("Expected exactly one ShowGameOver, got %#v", cmds)
	}
	if s.State().Running || s.Phase() != PhaseGameOver {
		t.Error("RunState.Running should be false after a collision")
	}
	for _, c := range cmds {
		if m, ok := c.(MoveObstacle); ok && m.ID == 1 {
			t.Error("Obstacles after the collision should not move that frame")
		}
		if _, ok := c.(UpdateScore); ok {
			t.Error("Score should not update on the collision frame")
		}
	}
	if s.Obstacles()[0].X != 2000 {
		t.Errorf("Untouched obstacle moved to %v", s.Obstacles()[0].X)
	}

	// The run is frozen
	frozen := s.State()
	later := s.Frame(500)
	if len(later) != 0 {
		t.Errorf("Frame() after game over should be empty, got %#v", later)
	}
	if s.State() != frozen {
		t.Error("State changed after game over")
	}
	if s.Jump() {
		t.Error("Jump() after game over should be ignored")
	}
}

func TestSessionGameOverRecordsScore(t *testing.T) {
	s := newTestSession(t)
	cmds := crash(t, s)

	if s.Ledger().Len() != 1 {
		t.Fatalf("Ledger should hold the finished run, got %v", s.Ledger().Entries())
	}

	var req RequestName
	if n := countCommands[RequestName](cmds); n != 1 {
		t.Fatalf("Expected one RequestName, got %d", n)
	}
	for _, c := range cmds {
		switch c := c.(type) {
		case RequestName:
			req = c
		case ShowLeaderboard:
			if c.Highlight != 0 {
				t.Errorf("Leaderboard highlight = %d, expected 0", c.Highlight)
			}
		}
	}
	if p, ok := s.Pending(); !ok || p.Index != req.Index {
		t.Errorf("Pending() = %+v, %v; expected index %d", p, ok, req.Index)
	}
}

func TestSessionNotRankedRequestsNoName(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	store := storage.NewMemoryStore()
	store.Set(cfg.Ledger.Key, `[{"score":50},{"score":40},{"score":30},{"score":20},{"score":10}]`)
	ledger := highscore.Open(store, highscore.OptionsFrom(cfg.Ledger))
	s := New(cfg, core.RuntimeConfig{ScreenW: 80, Seed: 1}, ledger)

	cmds := crash(t, s)
	if countCommands[RequestName](cmds) != 0 {
		t.Error("Unranked run should not request a name")
	}
	if _, ok := s.Pending(); ok {
		t.Error("Unranked run should leave no pending request")
	}
	for _, c := range cmds {
		if lb, ok := c.(ShowLeaderboard); ok && lb.Highlight != highscore.NotRanked {
			t.Errorf("Highlight = %d, expected none", lb.Highlight)
		}
	}
}

func TestSessionRestartIdempotent(t *testing.T) {
	s := newTestSession(t)

	if s.Restart() {
		t.Error("Restart() while running should be ignored")
	}

	crash(t, s)
	if !s.Restart() {
		t.Fatal("Restart() after game over should succeed")
	}
	once := s.State()
	if s.Restart() {
		t.Error("Second Restart() should be a no-op")
	}
	if s.State() != once || once != initialState(s.cfg) {
		t.Errorf("State after restarts = %+v, expected %+v", s.State(), initialState(s.cfg))
	}
	if len(s.Obstacles()) != 0 {
		t.Error("Restart() should clear the track")
	}
	if b := s.Body(); b.Y != 0 || b.VY != 0 {
		t.Errorf("Restart() should ground the body, got %+v", b)
	}

	cmds := s.Frame(10_000)
	if countCommands[HideGameOver](cmds) != 1 || countCommands[RemoveObstacle](cmds) != 1 {
		t.Errorf("Restart should hide the game over and remove obstacles, got %#v", cmds)
	}
	if s.State().Speed != s.cfg.Speed.Base {
		t.Error("First frame after restart should be zero-length")
	}
}

func TestSessionRestartCommitsDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft string
		want  string
	}{
		{"typed name", "  Ada ", "Ada"},
		{"blank draft", "   ", ""},
		{"no draft", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t)
			crash(t, s)

			s.SetNameDraft(tc.draft)
			s.Restart()

			if got := s.Ledger().Entries()[0].Name; got != tc.want {
				t.Errorf("Entry name = %q, expected %q", got, tc.want)
			}
			if _, ok := s.Pending(); ok {
				t.Error("Restart() should drop the pending request")
			}
		})
	}
}

func TestSessionSubmitName(t *testing.T) {
	s := newTestSession(t)
	crash(t, s)
	p, _ := s.Pending()

	if s.SubmitName(p.Index+1, "Wrong") {
		t.Error("SubmitName() for another entry should fail")
	}
	if !s.SubmitName(p.Index, "Grace") {
		t.Fatal("SubmitName() should resolve the pending request")
	}
	if s.SubmitName(p.Index, "Again") {
		t.Error("SubmitName() twice should fail")
	}
	if got := s.Ledger().Entries()[p.Index].Name; got != "Grace" {
		t.Errorf("Entry name = %q, expected Grace", got)
	}
	if countCommands[ShowLeaderboard](s.Frame(0)) != 1 {
		t.Error("SubmitName() should refresh the leaderboard")
	}
}

func TestSessionCancelName(t *testing.T) {
	s := newTestSession(t)
	crash(t, s)
	s.SetNameDraft("Linus")
	s.CancelName()
	s.Restart()

	if got := s.Ledger().Entries()[0].Name; got != "" {
		t.Errorf("Cancelled request should leave the entry anonymous, got %q", got)
	}
}

func TestSessionResize(t *testing.T) {
	s := newTestSession(t)
	s.Frame(1000)
	s.Frame(1016)
	speed := s.State().Speed
	if speed == s.cfg.Speed.Base {
		t.Fatal("Regular frame should accelerate")
	}

	s.Resize(1234)
	if s.TrackWidth() != 1234 {
		t.Errorf("TrackWidth() = %v, expected 1234", s.TrackWidth())
	}
	s.Frame(6000)
	if s.State().Speed != speed {
		t.Error("Frame after Resize() should be zero-length")
	}
}

func TestSessionApply(t *testing.T) {
	s := newTestSession(t)
	s.Frame(1000)

	in := core.NewInputFrame()
	in.Set(core.ActionJump)
	s.Apply(in)
	s.Frame(1016)
	if s.Body().Grounded() {
		t.Error("ActionJump should make the player jump")
	}

	crash(t, s)
	in.Clear()
	in.Set(core.ActionRestart)
	s.Apply(in)
	if !s.Running() {
		t.Error("ActionRestart should restart after game over")
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() []Obstacle {
		s := newTestSession(t)
		var seen []Obstacle
		for now := 0.0; now < 6000 && s.Running(); now += 16 {
			if int(now)%480 == 0 {
				s.Jump()
			}
			for _, c := range s.Frame(now) {
				if sp, ok := c.(SpawnObstacle); ok {
					seen = append(seen, sp.Obstacle)
				}
			}
		}
		return seen
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Spawn counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

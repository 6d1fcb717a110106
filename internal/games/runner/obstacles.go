package runner

import (
	"math/rand"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Kind selects an obstacle's size distribution, hitbox inset and visual.
type Kind int

const (
	KindPlain Kind = iota
	KindTall
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindTall {
		return "tall-hazard"
	}
	return "plain"
}

// Obstacle is a ground obstacle scrolling right to left.
type Obstacle struct {
	ID   int
	X    float64 // left edge
	W    float64
	H    float64
	Kind Kind
}

// Box returns the visual box in world units.
func (o Obstacle) Box(ground float64) core.Box {
	return core.NewBox(o.X, ground, o.W, o.H)
}

// Right returns the x-coordinate of the right edge.
func (o Obstacle) Right() float64 {
	return o.X + o.W
}

// Spawner decides when obstacles appear and what they look like.
// Its timer lives in RunState so a restart resets it with the rest of the run.
type Spawner struct {
	spawn config.SpawnConfig
	obs   config.ObstacleConfig
	rng   *rand.Rand
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(spawn config.SpawnConfig, obs config.ObstacleConfig, rng *rand.Rand) *Spawner {
	return &Spawner{spawn: spawn, obs: obs, rng: rng}
}

// Tick advances the spawn timer by dt. When the timer exceeds the interval it
// restarts the timer, shortens the interval for the current speed and returns
// a new obstacle placed just past the right edge of the track.
func (sp *Spawner) Tick(rs *RunState, dt, trackWidth float64) (Obstacle, bool) {
	rs.SpawnTimer += dt
	if rs.SpawnTimer <= rs.SpawnInterval {
		return Obstacle{}, false
	}
	rs.SpawnTimer = 0
	rs.SpawnInterval = sp.NextInterval(rs.Speed)
	return sp.Generate(trackWidth + sp.spawn.Offset), true
}

// NextInterval returns the spawn interval for the given speed. It shrinks as
// speed grows and bottoms out at Base + MinExtra.
func (sp *Spawner) NextInterval(speed float64) float64 {
	return sp.spawn.Base + max(sp.spawn.MinExtra, sp.spawn.MaxExtra-speed/sp.spawn.SpeedDivisor)
}

// Generate creates an obstacle with randomized size at x.
func (sp *Spawner) Generate(x float64) Obstacle {
	o := Obstacle{X: x, Kind: KindPlain}
	if sp.obs.ForceTall || sp.rng.Float64() < sp.obs.TallChance {
		o.Kind = KindTall
	}

	switch o.Kind {
	case KindTall:
		o.H = sp.uniform(sp.obs.TallHeight)
		o.W = o.H * sp.uniform(sp.obs.TallAspect)
	default:
		o.W = sp.uniform(sp.obs.PlainWidth)
		o.H = sp.uniform(sp.obs.PlainHeight)
	}
	return o
}

func (sp *Spawner) uniform(r config.Range) float64 {
	return r.Min + sp.rng.Float64()*(r.Max-r.Min)
}

// Track is the ordered set of live obstacles. Order is spawn order, which is
// also left-to-right order while every obstacle moves at the same speed.
type Track struct {
	items []Obstacle
}

// Add appends a freshly spawned obstacle.
func (t *Track) Add(o Obstacle) {
	t.items = append(t.items, o)
}

// Len returns the number of live obstacles.
func (t *Track) Len() int {
	return len(t.items)
}

// At returns a pointer to the obstacle at index i for in-place updates.
func (t *Track) At(i int) *Obstacle {
	return &t.items[i]
}

// RemoveAt deletes the obstacle at index i, preserving the order of the rest.
func (t *Track) RemoveAt(i int) {
	t.items = append(t.items[:i], t.items[i+1:]...)
}

// Items returns a copy of the live obstacles.
func (t *Track) Items() []Obstacle {
	out := make([]Obstacle, len(t.items))
	copy(out, t.items)
	return out
}

// Clear removes every obstacle and returns their IDs.
func (t *Track) Clear() []int {
	ids := make([]int, len(t.items))
	for i, o := range t.items {
		ids[i] = o.ID
	}
	t.items = t.items[:0]
	return ids
}

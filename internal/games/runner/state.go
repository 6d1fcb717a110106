package runner

import "math"

// Phase is the run controller state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game over"
	}
	return "running"
}

// RunState holds the per-run accumulators. Speed and Score never decrease
// while the run is active.
type RunState struct {
	Speed         float64
	Score         float64
	SpawnTimer    float64
	SpawnInterval float64
	Running       bool
}

// Accelerate raises the speed for a step of dt seconds and returns the speed
// the step started at.
func (rs *RunState) Accelerate(dt, accel float64) float64 {
	start := rs.Speed
	rs.Speed += accel * dt
	return start
}

// Accrue adds the score earned over dt seconds at the given speed.
func (rs *RunState) Accrue(dt, speed, divisor float64) {
	rs.Score += dt * (speed / divisor)
}

// DisplayScore is the floored score shown to the player.
func (rs RunState) DisplayScore() int {
	return int(math.Floor(rs.Score))
}

// LabelPeriod is the blink period in seconds of the speed indicator; it
// shortens as the run speeds up.
func (rs RunState) LabelPeriod(baseSpeed float64) float64 {
	return math.Max(0.12, 2-(rs.Speed-baseSpeed)/120)
}

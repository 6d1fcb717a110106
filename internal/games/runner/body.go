package runner

import "github.com/vovakirdan/tui-runner/internal/core"

// Pose is the renderer-facing animation state derived from the body.
type Pose int

const (
	PoseGrounded Pose = iota
	PoseAirborne
)

// String returns the pose name.
func (p Pose) String() string {
	if p == PoseAirborne {
		return "airborne"
	}
	return "grounded"
}

// Body is the player's vertical-only kinematic state.
// Y is the height above the ground and never negative.
type Body struct {
	X  float64 // fixed horizontal offset
	Y  float64
	VY float64
	W  float64
	H  float64
}

// Grounded reports whether the body rests on the ground.
func (b Body) Grounded() bool {
	return b.Y == 0
}

// Pose derives the animation state.
func (b Body) Pose() Pose {
	if b.Grounded() {
		return PoseGrounded
	}
	return PoseAirborne
}

// Integrate applies gravity for dt seconds and lands the body on the ground.
func (b *Body) Integrate(dt, gravity float64) {
	b.VY += gravity * dt
	b.Y += b.VY * dt
	if b.Y < 0 {
		b.Y = 0
		b.VY = 0
	}
}

// Jump launches a grounded body with the given velocity.
// Requests while airborne are ignored.
func (b *Body) Jump(velocity float64) bool {
	if !b.Grounded() {
		return false
	}
	b.VY = velocity
	return true
}

// Box returns the visual box in world units, lifted by the ground offset.
func (b Body) Box(ground float64) core.Box {
	return core.NewBox(b.X, ground+b.Y, b.W, b.H)
}

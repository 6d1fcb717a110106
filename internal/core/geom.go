// Package core provides fundamental types and utilities for the runner.
// It contains no external dependencies (especially no Bubble Tea or Ebiten) to
// keep simulation logic pure and testable.
package core

// Rect is an integer rectangle in screen cells, used by renderers.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units.
// Y grows upward from the ground line.
type Box struct {
	X, Y float64 // Bottom-left corner
	W, H float64
}

// NewBox creates a box with the given position and dimensions.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 {
	return b.Y + b.H
}

// Inset shrinks the box by dx on the left and right and dy on the top and bottom.
// Width and height never go below zero.
func (b Box) Inset(dx, dy float64) Box {
	return Box{
		X: b.X + dx,
		Y: b.Y + dy,
		W: max(0, b.W-2*dx),
		H: max(0, b.H-2*dy),
	}
}

// Overlaps reports whether two boxes share at least one point.
// Boxes that only touch along an edge count as overlapping: they are
// disjoint only when one lies strictly to one side of the other.
func (b Box) Overlaps(other Box) bool {
	return !(b.Right() < other.X ||
		b.X > other.Right() ||
		b.Top() < other.Y ||
		b.Y > other.Top())
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

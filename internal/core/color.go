package core

// Color represents a foreground color for a screen cell.
// Renderers map it to ANSI 256-color codes or RGBA values.
type Color uint8

// Colors used by the runner scene.
const (
	ColorDefault Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorCyan
	ColorOrange
	ColorGray
	ColorBrightWhite
)

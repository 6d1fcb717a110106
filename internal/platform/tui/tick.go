// Package tui provides the Bubble Tea frontend for the runner.
// It handles the terminal UI loop, input mapping and name entry, and feeds
// frame pulses into a runner.Session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// millisSince converts a tick to the session clock: milliseconds since epoch,
// taken from the monotonic reading of both timestamps.
func millisSince(epoch time.Time, t TickMsg) float64 {
	return float64(time.Time(t).Sub(epoch)) / float64(time.Millisecond)
}

package core

// RuntimeConfig contains configuration passed to a session at start.
// Sessions use it to size the track and seed the obstacle RNG.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Frame pulses per second requested from the host (default 60)
	Seed     int64  // RNG seed for deterministic obstacle streams
	Player   string // Ledger namespace; empty for the local player
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

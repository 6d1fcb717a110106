package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in runner configuration.
// It mirrors defaults/runner.yaml and is used when the embedded file cannot be parsed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Physics: PhysicsConfig{
			Gravity:      -2200,
			JumpVelocity: 700,
			MaxStep:      0.05,
		},
		Speed: SpeedConfig{
			Base:         300,
			Accel:        8,
			ScoreDivisor: 100,
		},
		Spawn: SpawnConfig{
			InitialInterval: 1.6,
			Base:            1.0,
			MinExtra:        0.3,
			MaxExtra:        1.6,
			SpeedDivisor:    1000,
			Offset:          20,
		},
		Obstacles: ObstacleConfig{
			PlainWidth:  Range{Min: 20, Max: 60},
			PlainHeight: Range{Min: 20, Max: 80},
			TallHeight:  Range{Min: 36, Max: 96},
			TallAspect:  Range{Min: 0.9, Max: 1.3},
			TallChance:  0.28,
			ForceTall:   false,
		},
		Hitbox: HitboxConfig{
			Player: Inset{X: 18, Y: 12},
			Plain:  Inset{X: 10, Y: 8},
			Tall:   Inset{X: 18, Y: 12},
		},
		Player: PlayerConfig{
			X:      80,
			Width:  48,
			Height: 48,
			Ground: 22,
		},
		Track: TrackConfig{
			DespawnMargin: 50,
			CellWidth:     10,
			CellHeight:    16,
		},
		Ledger: LedgerConfig{
			Capacity:      5,
			DefaultName:   "Player",
			MaxNameLength: 16,
			Key:           "runner.highscores",
			LegacyKey:     "runner.highscore",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}

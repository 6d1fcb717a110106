// Package config provides YAML-based configuration loading for the runner.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains all tunables of the runner simulation.
type RunnerConfig struct {
	Physics   PhysicsConfig  `yaml:"physics"`
	Speed     SpeedConfig    `yaml:"speed"`
	Spawn     SpawnConfig    `yaml:"spawn"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Hitbox    HitboxConfig   `yaml:"hitbox"`
	Player    PlayerConfig   `yaml:"player"`
	Track     TrackConfig    `yaml:"track"`
	Ledger    LedgerConfig   `yaml:"ledger"`
}

// PhysicsConfig defines vertical motion of the player body.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // units/s², negative pulls down
	JumpVelocity float64 `yaml:"jump_velocity"` // units/s applied on jump
	MaxStep      float64 `yaml:"max_step"`      // dt cap in seconds
}

// SpeedConfig defines horizontal speed growth and score accrual.
type SpeedConfig struct {
	Base         float64 `yaml:"base"`          // units/s at run start
	Accel        float64 `yaml:"accel"`         // units/s²
	ScoreDivisor float64 `yaml:"score_divisor"` // score rate = speed / divisor
}

// SpawnConfig defines the obstacle spawn timer.
// After each spawn the interval becomes Base + max(MinExtra, MaxExtra - speed/SpeedDivisor).
type SpawnConfig struct {
	InitialInterval float64 `yaml:"initial_interval"`
	Base            float64 `yaml:"base"`
	MinExtra        float64 `yaml:"min_extra"`
	MaxExtra        float64 `yaml:"max_extra"`
	SpeedDivisor    float64 `yaml:"speed_divisor"`
	Offset          float64 `yaml:"offset"` // spawn distance past the right edge
}

// Range is a half-open [Min, Max) interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ObstacleConfig defines obstacle sizes and kind selection.
type ObstacleConfig struct {
	PlainWidth  Range   `yaml:"plain_width"`
	PlainHeight Range   `yaml:"plain_height"`
	TallHeight  Range   `yaml:"tall_height"`
	TallAspect  Range   `yaml:"tall_aspect"` // width = height * aspect
	TallChance  float64 `yaml:"tall_chance"`
	ForceTall   bool    `yaml:"force_tall"`
}

// Inset is a horizontal/vertical hitbox shrink.
type Inset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// HitboxConfig defines how far hitboxes are shrunk from the visual boxes.
type HitboxConfig struct {
	Player Inset `yaml:"player"`
	Plain  Inset `yaml:"plain"`
	Tall   Inset `yaml:"tall"`
}

// PlayerConfig defines the player's visual box.
type PlayerConfig struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Ground float64 `yaml:"ground"` // ground line offset shared by player and obstacles
}

// TrackConfig defines the play field.
type TrackConfig struct {
	DespawnMargin float64 `yaml:"despawn_margin"` // obstacles vanish once their right edge is this far left of 0
	CellWidth     float64 `yaml:"cell_width"`     // world units per terminal column
	CellHeight    float64 `yaml:"cell_height"`    // world units per terminal row
}

// LedgerConfig defines the high-score ledger.
type LedgerConfig struct {
	Capacity      int    `yaml:"capacity"`
	DefaultName   string `yaml:"default_name"`
	MaxNameLength int    `yaml:"max_name_length"`
	Key           string `yaml:"key"`
	LegacyKey     string `yaml:"legacy_key"`
}

// Validate reports the first nonsensical value in the config.
func (c RunnerConfig) Validate() error {
	var errs []error
	if c.Physics.Gravity >= 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must be negative, got %v", c.Physics.Gravity))
	}
	if c.Physics.JumpVelocity <= 0 {
		errs = append(errs, fmt.Errorf("physics.jump_velocity must be positive, got %v", c.Physics.JumpVelocity))
	}
	if c.Physics.MaxStep <= 0 {
		errs = append(errs, fmt.Errorf("physics.max_step must be positive, got %v", c.Physics.MaxStep))
	}
	if c.Speed.Base <= 0 || c.Speed.Accel < 0 || c.Speed.ScoreDivisor <= 0 {
		errs = append(errs, errors.New("speed: base and score_divisor must be positive, accel non-negative"))
	}
	if c.Spawn.SpeedDivisor <= 0 {
		errs = append(errs, errors.New("spawn.speed_divisor must be positive"))
	}
	ranges := []struct {
		name string
		r    Range
	}{
		{"plain_width", c.Obstacles.PlainWidth},
		{"plain_height", c.Obstacles.PlainHeight},
		{"tall_height", c.Obstacles.TallHeight},
		{"tall_aspect", c.Obstacles.TallAspect},
	}
	for _, rr := range ranges {
		if rr.r.Min <= 0 || rr.r.Max < rr.r.Min {
			errs = append(errs, fmt.Errorf("obstacles.%s must satisfy 0 < min <= max", rr.name))
		}
	}
	if c.Obstacles.TallChance < 0 || c.Obstacles.TallChance > 1 {
		errs = append(errs, fmt.Errorf("obstacles.tall_chance must be in [0,1], got %v", c.Obstacles.TallChance))
	}
	if c.Track.CellWidth <= 0 || c.Track.CellHeight <= 0 {
		errs = append(errs, errors.New("track: cell_width and cell_height must be positive"))
	}
	if c.Ledger.Capacity <= 0 || c.Ledger.Key == "" {
		errs = append(errs, errors.New("ledger: capacity must be positive and key non-empty"))
	}
	return errors.Join(errs...)
}

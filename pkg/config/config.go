// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config contains configuration for a magball session
type Config struct {
	Physics  PhysicsConfig `json:"physics"`
	Field    FieldConfig   `json:"field"`
	Pocket   PocketConfig  `json:"pocket"`
	Chaos    ChaosConfig   `json:"chaos"`
	Window   WindowConfig  `json:"window"`
	LevelDir string        `json:"levelDir"`
}

// PhysicsConfig contains ball and collision parameters. Distances are in
// table units, time in seconds.
type PhysicsConfig struct {
	BallRadius        float64 `json:"ballRadius"`
	Friction          float64 `json:"friction"`
	TimeStep          float64 `json:"timeStep"`
	RestPerpendicular float64 `json:"restPerpendicular"`
	RestParallel      float64 `json:"restParallel"`
	RestThreshold     float64 `json:"restThreshold"`
}

// FieldConfig contains the magnetic field controller limits
type FieldConfig struct {
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
	Min  float64 `json:"min"`
}

// PocketConfig contains the pocket defaults used when a level omits them
type PocketConfig struct {
	Radius float64 `json:"radius"`
}

// ChaosConfig contains Poincaré-section study parameters
type ChaosConfig struct {
	BallCount int     `json:"ballCount"`
	DCoord    float64 `json:"dCoord"`
	DAngle    float64 `json:"dAngle"`
	Seed      uint64  `json:"seed"`
	Steps     int     `json:"steps"`
}

// WindowConfig contains display settings for the graphical client
type WindowConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`
}

// Environment variables read by ApplyEnv.
const (
	EnvFriction   = "MAGBALL_FRICTION"
	EnvTimeStep   = "MAGBALL_TIME_STEP"
	EnvFieldMax   = "MAGBALL_FIELD_MAX"
	EnvChaosBalls = "MAGBALL_CHAOS_BALLS"
	EnvChaosSeed  = "MAGBALL_CHAOS_SEED"
	EnvLevelDir   = "MAGBALL_LEVEL_DIR"
)

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	if config == nil {
		return errors.New("failed to marshal config: nil config")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			BallRadius:        10,
			Friction:          40,
			TimeStep:          1.0 / 60,
			RestPerpendicular: 1,
			RestParallel:      1,
			RestThreshold:     0.01,
		},
		Field: FieldConfig{
			Max:  3,
			Step: 0.25,
			Min:  0.1,
		},
		Pocket: PocketConfig{
			Radius: 15,
		},
		Chaos: ChaosConfig{
			BallCount: 16,
			DCoord:    2,
			DAngle:    0.02,
			Seed:      1,
			Steps:     20000,
		},
		Window: WindowConfig{
			Width:  750,
			Height: 500,
			FPS:    60,
		},
		LevelDir: "levels",
	}
}

// ApplyEnv overrides configuration values from MAGBALL_* environment
// variables. Unset variables leave the value alone; malformed ones are an
// error.
func (c *Config) ApplyEnv() error {
	var err error
	if c.Physics.Friction, err = getEnvAsFloatOrDefault(EnvFriction, c.Physics.Friction); err != nil {
		return err
	}
	if c.Physics.TimeStep, err = getEnvAsFloatOrDefault(EnvTimeStep, c.Physics.TimeStep); err != nil {
		return err
	}
	if c.Field.Max, err = getEnvAsFloatOrDefault(EnvFieldMax, c.Field.Max); err != nil {
		return err
	}
	if c.Chaos.BallCount, err = getEnvAsIntOrDefault(EnvChaosBalls, c.Chaos.BallCount); err != nil {
		return err
	}
	if c.Chaos.Seed, err = getEnvAsUintOrDefault(EnvChaosSeed, c.Chaos.Seed); err != nil {
		return err
	}
	c.LevelDir = getEnvOrDefault(EnvLevelDir, c.LevelDir)
	return nil
}

// Validate checks that every value is usable by the physics core.
func (c *Config) Validate() error {
	p := c.Physics
	switch {
	case !positive(p.BallRadius):
		return fmt.Errorf("physics.ballRadius must be positive, got %v", p.BallRadius)
	case !finite(p.Friction) || p.Friction < 0:
		return fmt.Errorf("physics.friction must be non-negative, got %v", p.Friction)
	case !positive(p.TimeStep):
		return fmt.Errorf("physics.timeStep must be positive, got %v", p.TimeStep)
	case !unit(p.RestPerpendicular) || !unit(p.RestParallel):
		return fmt.Errorf("physics restitution must be within [0,1], got %v/%v", p.RestPerpendicular, p.RestParallel)
	case !finite(p.RestThreshold) || p.RestThreshold < 0:
		return fmt.Errorf("physics.restThreshold must be non-negative, got %v", p.RestThreshold)
	}

	f := c.Field
	if !positive(f.Max) || !positive(f.Step) || !finite(f.Min) || f.Min < 0 || f.Min >= f.Max {
		return fmt.Errorf("field limits invalid: max=%v step=%v min=%v", f.Max, f.Step, f.Min)
	}

	if !positive(c.Pocket.Radius) {
		return fmt.Errorf("pocket.radius must be positive, got %v", c.Pocket.Radius)
	}

	ch := c.Chaos
	switch {
	case ch.BallCount < 1:
		return fmt.Errorf("chaos.ballCount must be at least 1, got %d", ch.BallCount)
	case !finite(ch.DCoord) || ch.DCoord < 0 || !finite(ch.DAngle) || ch.DAngle < 0:
		return fmt.Errorf("chaos jitter must be non-negative, got dCoord=%v dAngle=%v", ch.DCoord, ch.DAngle)
	case ch.Steps < 0:
		return fmt.Errorf("chaos.steps must be non-negative, got %d", ch.Steps)
	}

	w := c.Window
	if w.Width <= 0 || w.Height <= 0 || w.FPS <= 0 {
		return fmt.Errorf("window settings must be positive, got %dx%d@%d", w.Width, w.Height, w.FPS)
	}

	return nil
}

func finite(v float64) bool   { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func positive(v float64) bool { return finite(v) && v > 0 }
func unit(v float64) bool     { return finite(v) && v >= 0 && v <= 1 }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvAsUintOrDefault(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return u, nil
}

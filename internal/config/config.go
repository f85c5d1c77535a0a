// Package config loads runtime tuning from ORRERY_* environment variables.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/keymap"
	"github.com/litescript/ls-orrery/internal/rings"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Prefix is the environment variable prefix.
const Prefix = "ORRERY"

// Config is the full runtime configuration. Command-line flags override it.
type Config struct {
	Data     string `envconfig:"DATA" default:"sol"`
	Subject  string `envconfig:"SUBJECT"`
	Layout   string `envconfig:"LAYOUT" default:"qwerty"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	MetricsAddr   string        `envconfig:"METRICS_ADDR"`
	FrameInterval time.Duration `envconfig:"FRAME_INTERVAL" default:"16ms"`

	Speed                float64 `envconfig:"SPEED" default:"10"`
	MinRevolutionSeconds float64 `envconfig:"MIN_REVOLUTION_SECONDS" default:"8"`

	FOV               float64 `envconfig:"FOV" default:"60"`
	Coverage          float64 `envconfig:"COVERAGE" default:"0.35"`
	TransitionSeconds float64 `envconfig:"TRANSITION_SECONDS" default:"0.8"`
	MoveSpeed         float64 `envconfig:"MOVE_SPEED" default:"40"`
	LookSensitivity   float64 `envconfig:"LOOK_SENSITIVITY" default:"0.01"`

	RingMinPixels     float64 `envconfig:"RING_MIN_PIXELS" default:"0.1"`
	RingAngularSize   float64 `envconfig:"RING_ANGULAR_SIZE" default:"0.03"`
	RingEpsilon       float64 `envconfig:"RING_EPSILON" default:"0.05"`
	RingFadeStrength  float64 `envconfig:"RING_FADE_STRENGTH" default:"1"`
	RingCollapseAngle float64 `envconfig:"RING_COLLAPSE_ANGLE" default:"0.02"`
}

// Load reads the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration with every default applied and no
// environment overrides.
func Default() Config {
	cam := camera.DefaultConfig()
	rc := rings.DefaultConfig()
	return Config{
		Data:                 "sol",
		Layout:               string(keymap.QWERTY),
		LogLevel:             "info",
		FrameInterval:        16 * time.Millisecond,
		Speed:                scene.DefaultSpeed,
		MinRevolutionSeconds: 8,
		FOV:                  cam.FOV,
		Coverage:             cam.Coverage,
		TransitionSeconds:    cam.TransitionSeconds,
		MoveSpeed:            cam.MoveSpeed,
		LookSensitivity:      cam.LookSensitivity,
		RingMinPixels:        rc.MinPixels,
		RingAngularSize:      rc.AngularSize,
		RingEpsilon:          rc.Epsilon,
		RingFadeStrength:     rc.FadeStrength,
		RingCollapseAngle:    rc.CollapseAngle,
	}
}

// Validate checks values that cannot be clamped.
func (c *Config) Validate() error {
	if _, err := keymap.ParseLayout(c.Layout); err != nil {
		return err
	}
	if c.FrameInterval < time.Millisecond {
		return fmt.Errorf("frame interval %v is too short", c.FrameInterval)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("field of view %v must be between 0 and 180 degrees", c.FOV)
	}
	if c.Coverage <= 0 || c.Coverage > 1 {
		return fmt.Errorf("coverage %v must be in (0, 1]", c.Coverage)
	}
	return nil
}

// Clamp forces the soft values into range.
func (c *Config) Clamp() {
	c.Speed = math.Max(scene.MinSpeed, math.Min(scene.MaxSpeed, c.Speed))
	c.MinRevolutionSeconds = math.Max(0, c.MinRevolutionSeconds)
	c.TransitionSeconds = math.Max(0, c.TransitionSeconds)
	c.RingEpsilon = math.Max(0, math.Min(1, c.RingEpsilon))
	c.RingFadeStrength = math.Max(0, c.RingFadeStrength)
}

// KeyLayout returns the parsed keyboard layout, QWERTY when invalid.
func (c *Config) KeyLayout() keymap.Layout {
	l, err := keymap.ParseLayout(c.Layout)
	if err != nil {
		return keymap.QWERTY
	}
	return l
}

// Camera returns the camera controller tuning.
func (c *Config) Camera() camera.Config {
	cfg := camera.DefaultConfig()
	cfg.FOV = c.FOV
	cfg.Coverage = c.Coverage
	cfg.TransitionSeconds = c.TransitionSeconds
	cfg.MoveSpeed = c.MoveSpeed
	cfg.LookSensitivity = c.LookSensitivity
	return cfg
}

// Rings returns the ring resolver tuning.
func (c *Config) Rings() rings.Config {
	cfg := rings.DefaultConfig()
	cfg.MinPixels = c.RingMinPixels
	cfg.AngularSize = c.RingAngularSize
	cfg.Epsilon = c.RingEpsilon
	cfg.FadeStrength = c.RingFadeStrength
	cfg.CollapseAngle = c.RingCollapseAngle
	return cfg
}

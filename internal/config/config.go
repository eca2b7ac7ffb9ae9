package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

const (
	DefaultHorizon   = 80000.0
	DefaultIncrement = 15.0
	DefaultGain      = -1e4
	DefaultAltitude  = 400.0
)

// DefaultEpoch is the reference date of the dart scenario.
var DefaultEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type Config struct {
	Scenario      string          `yaml:"scenario"`
	Integrator    string          `yaml:"integrator"`
	Control       string          `yaml:"control"`
	Aero          string          `yaml:"aero"`
	Geometry      string          `yaml:"geometry"`
	Epoch         time.Time       `yaml:"epoch"`
	Horizon       float64         `yaml:"horizon"`
	Increment     float64         `yaml:"increment"`
	Tolerance     float64         `yaml:"tolerance"`
	AbsTolerance  float64         `yaml:"abs_tolerance"`
	MaxStep       float64         `yaml:"max_step"`
	MinStep       float64         `yaml:"min_step"`
	InitialStep   float64         `yaml:"initial_step"`
	MaxSegments   int             `yaml:"max_segments"`
	Altitude      float64         `yaml:"altitude"`
	Inertia       [3]float64      `yaml:"inertia"`
	InitState     InitStateConfig `yaml:"init_state"`
	ControlParams ControlConfig   `yaml:"control_params"`
}

// InitStateConfig holds the initial ECI position (km), velocity (km/s),
// orbital-to-body quaternion [w, x, y, z] and body rate (rad/s).
type InitStateConfig struct {
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Attitude [4]float64 `yaml:"attitude"`
	Rate     [3]float64 `yaml:"rate"`
}

type ControlConfig struct {
	Gain      float64 `yaml:"gain"`
	MaxDipole float64 `yaml:"max_dipole"`
}

func DefaultConfig() *Config {
	run := dynamo.DefaultConfig()
	return &Config{
		Scenario:     "dart",
		Integrator:   "rk45",
		Control:      "bdot",
		Aero:         "panel",
		Geometry:     "dart",
		Epoch:        DefaultEpoch,
		Horizon:      DefaultHorizon,
		Increment:    DefaultIncrement,
		Tolerance:    run.Tolerance,
		AbsTolerance: run.AbsTolerance,
		MaxStep:      run.MaxStep,
		MinStep:      run.MinStep,
		InitialStep:  run.InitialStep,
		Altitude:     DefaultAltitude,
		Inertia:      [3]float64{0.038, 0.04, 0.0066667},
		InitState: InitStateConfig{
			Position: [3]float64{6878, 0, 0},
			Velocity: [3]float64{0, 5.38, 5.38},
			Attitude: [4]float64{1, 0, 0, 0},
			Rate:     [3]float64{0.1, 0.25, 0.03},
		},
		ControlParams: ControlConfig{
			Gain: DefaultGain,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// RunConfig extracts the propagation settings.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Horizon:      c.Horizon,
		Increment:    c.Increment,
		Tolerance:    c.Tolerance,
		AbsTolerance: c.AbsTolerance,
		MaxStep:      c.MaxStep,
		MinStep:      c.MinStep,
		InitialStep:  c.InitialStep,
		MaxSegments:  c.MaxSegments,
	}
}

func (c *Config) GetInitState() dynamo.State {
	s := c.InitState
	x := make(dynamo.State, 0, dynamo.StateDim)
	x = append(x, s.Position[:]...)
	x = append(x, s.Velocity[:]...)
	x = append(x, s.Attitude[:]...)
	x = append(x, s.Rate[:]...)
	return x
}

func (c *Config) GetControlParams() map[string]float64 {
	return map[string]float64{
		"gain":       c.ControlParams.Gain,
		"max_dipole": c.ControlParams.MaxDipole,
	}
}

// Validate checks the fields that do not depend on registered components.
func (c *Config) Validate() error {
	if c.Epoch.IsZero() {
		return fmt.Errorf("%w: epoch is not set", dynamo.ErrInvalidConfig)
	}
	for _, v := range c.Inertia {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: inertia %v: %w", dynamo.ErrInvalidConfig, c.Inertia, dynamo.ErrInvalidInertia)
		}
	}
	if c.Altitude < 0 {
		return fmt.Errorf("%w: altitude %v km", dynamo.ErrInvalidConfig, c.Altitude)
	}
	if c.ControlParams.MaxDipole < 0 {
		return fmt.Errorf("%w: max dipole %v", dynamo.ErrInvalidConfig, c.ControlParams.MaxDipole)
	}
	return nil
}

package config

import (
	"maps"
	"slices"
)

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"dart": preset(func(c *Config) {}),
	"tumble": preset(func(c *Config) {
		c.Scenario = "tumble"
		c.Horizon = 40000
		c.InitState.Rate = [3]float64{0.5, -0.8, 0.3}
		c.ControlParams.Gain = -2e4
	}),
	"saturated": preset(func(c *Config) {
		c.Scenario = "saturated"
		c.ControlParams.MaxDipole = 0.02
	}),
	"torque-free": preset(func(c *Config) {
		c.Scenario = "torque-free"
		c.Control = "none"
		c.Aero = "none"
		c.Horizon = 6000
	}),
	"quick": preset(func(c *Config) {
		c.Scenario = "quick"
		c.Horizon = 1500
		c.Tolerance = 1e-9
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}

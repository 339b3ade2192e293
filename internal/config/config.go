package config

import (
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultSpeed    = 20.0
	DefaultKp       = 0.3
	DefaultKi       = 0.6
	DefaultKd       = 0.0
	DefaultOutMax   = 0.5
)

type Config struct {
	Model      string             `yaml:"model"`
	Scenario   string             `yaml:"scenario"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Speed      float64            `yaml:"speed"`
	Seed       int64              `yaml:"seed"`
	NoiseStd   float64            `yaml:"noise_std"`
	Vehicle    VehicleConfig      `yaml:"vehicle"`
	PID        PIDConfig          `yaml:"pid"`
	Overrides  map[string]float64 `yaml:"overrides"`
}

type VehicleConfig struct {
	Mass  float64 `yaml:"mass"`
	Iz    float64 `yaml:"iz"`
	A     float64 `yaml:"a"`
	B     float64 `yaml:"b"`
	Cf    float64 `yaml:"cf"`
	Cr    float64 `yaml:"cr"`
	Mu    float64 `yaml:"mu"`
	Track float64 `yaml:"track"`
	HCg   float64 `yaml:"h_cg"`
}

type PIDConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	OutMax float64 `yaml:"out_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "bicycle",
		Scenario:   "step_steer",
		Integrator: string(vdyn.IntegratorRK4),
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Speed:      DefaultSpeed,
		Vehicle: VehicleConfig{
			Mass: 1500, Iz: 2250,
			A: 1.2, B: 1.6,
			Cf: 80000, Cr: 80000,
			Mu: 1.0, Track: 1.6, HCg: 0.55,
		},
		PID: PIDConfig{
			Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd, OutMax: DefaultOutMax,
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
		return nil, err
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

// VehicleParams range-checks the configured vehicle geometry.
func (c *Config) VehicleParams() (vparam.Vehicle, error) {
	return vparam.New(vparam.Vehicle{
		Mass: c.Vehicle.Mass, Iz: c.Vehicle.Iz,
		A: c.Vehicle.A, B: c.Vehicle.B,
		Cf: c.Vehicle.Cf, Cr: c.Vehicle.Cr,
		Mu: c.Vehicle.Mu, Track: c.Vehicle.Track, HCg: c.Vehicle.HCg,
	})
}

// SimParams assembles the runtime parameter set for a model run,
// including the seeded noise source when one is configured.
func (c *Config) SimParams() (vdyn.Params, error) {
	v, err := c.VehicleParams()
	if err != nil {
		return vdyn.Params{}, err
	}
	p := vdyn.Params{
		Vehicle:       v,
		Speed:         c.Speed,
		Integrator:    vdyn.IntegratorKind(c.Integrator),
		FrictionClamp: true,
		NoiseStd:      c.NoiseStd,
	}
	if c.Seed != 0 {
		p.Rand = rand.New(rand.NewSource(c.Seed))
	}
	return p, nil
}

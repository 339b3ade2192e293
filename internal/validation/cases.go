package validation

import (
	"errors"
	"math"

	"github.com/san-kum/vehlab/internal/models"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// ErrUnknownCase is returned when a case id has no registered definition.
var ErrUnknownCase = errors.New("validation: unknown case")

const (
	CaseNoSteerFlat   = "no_steer_flat"
	CaseSkidpadSteady = "skidpad_steady"
)

// Cases returns the built-in validation case definitions keyed by id.
func Cases() map[string]Definition {
	defs := []Definition{noSteerFlat(), skidpadSteady()}
	out := make(map[string]Definition, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

// Lookup resolves a case id against the built-in set.
func Lookup(id string) (Definition, error) {
	d, ok := Cases()[id]
	if !ok {
		return Definition{}, ErrUnknownCase
	}
	return d, nil
}

// noSteerFlat drives the planar bicycle straight ahead. Yaw rate and
// lateral acceleration both hold at zero.
func noSteerFlat() Definition {
	return Definition{
		ID: CaseNoSteerFlat,
		Fields: []FieldSpec{
			{Name: "speed", Min: 1, Max: 60, Default: 20},
			{Name: "duration", Min: 1, Max: 60, Default: 6},
		},
		Dt:         0.01,
		SampleRate: 20,
		SettleTime: 0.5,
		Duration:   6,
		Tolerances: map[string]float64{
			"yawRate":  0.01,
			"latAccel": 0.01,
		},
		ComputeExpected: func(_ vparam.Vehicle, _ CaseParams) Expected {
			return Expected{}
		},
		ModelConfig: func(p CaseParams) (string, *vdyn.Params, float64) {
			return models.ModelBicycle, nil, p["speed"]
		},
		Input: func(CaseParams) vdyn.Sampler {
			return func(float64, string, vdyn.Params) vdyn.Inputs {
				return vdyn.Inputs{}
			}
		},
	}
}

// skidpadSteady holds the kinematic unicycle on a constant-radius circle
// with a fixed steer angle and checks the v/R, v^2/R steady state.
func skidpadSteady() Definition {
	return Definition{
		ID: CaseSkidpadSteady,
		Fields: []FieldSpec{
			{Name: "speed", Min: 1, Max: 40, Default: 12},
			{Name: "radius", Min: 5, Max: 200, Default: 25},
		},
		Dt:         0.01,
		SampleRate: 20,
		SettleTime: 1.0,
		Duration:   12,
		Tolerances: map[string]float64{
			"yawRate":  0.02,
			"latAccel": 0.02,
		},
		ComputeExpected: func(v vparam.Vehicle, p CaseParams) Expected {
			speed, radius := p["speed"], p["radius"]
			return Expected{
				YawRate:   speed / radius,
				LatAccelG: speed * speed / (radius * v.Gravity),
			}
		},
		ModelConfig: func(p CaseParams) (string, *vdyn.Params, float64) {
			return models.ModelUnicycle, nil, p["speed"]
		},
		Input: func(p CaseParams) vdyn.Sampler {
			radius := p["radius"]
			return func(_ float64, _ string, mp vdyn.Params) vdyn.Inputs {
				return vdyn.Inputs{Steer: math.Atan(mp.Vehicle.Wheelbase() / radius)}
			}
		},
	}
}

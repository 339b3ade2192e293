package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/vdyn"
)

// SamplerFor builds an open-loop input sampler for incremental (session)
// driving of a scenario. Closed-loop details that need tick feedback,
// like the skidpad PID, are replaced by their steady-state equivalent:
// the session contract only carries time, model id and params.
//
// Recognised override keys: "delta", "tStep", "freqHz", "amplitude",
// "rampRate", "radius".
func SamplerFor(id string, overrides map[string]float64) (vdyn.Sampler, error) {
	ov := func(key string, def float64) float64 {
		if v, ok := overrides[key]; ok {
			return v
		}
		return def
	}

	switch id {
	case "", "none":
		return func(t float64, modelID string, p vdyn.Params) vdyn.Inputs {
			return vdyn.Inputs{}
		}, nil

	case StepSteer:
		delta := ov("delta", 4*math.Pi/180)
		tStep := ov("tStep", 1.0)
		return func(t float64, modelID string, p vdyn.Params) vdyn.Inputs {
			if t < tStep {
				return vdyn.Inputs{}
			}
			return vdyn.Inputs{Steer: delta}
		}, nil

	case Skidpad:
		radius := ov("radius", 30)
		return func(t float64, modelID string, p vdyn.Params) vdyn.Inputs {
			pred, err := theory.SkidpadSteadyState(p.Vehicle, p.Speed, radius)
			if err != nil {
				return vdyn.Inputs{}
			}
			return vdyn.Inputs{Steer: pred.SteerAngle}
		}, nil

	case FrequencyResponse:
		freq := ov("freqHz", 0.5)
		amp := ov("amplitude", 3*math.Pi/180)
		return func(t float64, modelID string, p vdyn.Params) vdyn.Inputs {
			return vdyn.Inputs{Steer: amp * math.Sin(2*math.Pi*freq*t)}
		}, nil

	case RampToLimit:
		rate := ov("rampRate", 1*math.Pi/180)
		return func(t float64, modelID string, p vdyn.Params) vdyn.Inputs {
			return vdyn.Inputs{Steer: rate * t}
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

// List returns the canonical scenario ids in a stable order.
func List() []string {
	return []string{StepSteer, Skidpad, FrequencyResponse, RampToLimit}
}

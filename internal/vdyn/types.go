package vdyn

import (
	"math"
	"math/rand"

	"github.com/san-kum/vehlab/internal/vparam"
)

// State is a flat numeric state vector. Each model documents its own
// layout via index constants. Step consumes the previous state by value
// and returns a fresh one; callers own the vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Inputs holds one tick of driver input. Throttle and brake are optional
// and ignored by models that hold speed constant.
type Inputs struct {
	Steer    float64 // rad
	Throttle float64
	Brake    float64
}

// IntegratorKind selects the fixed-step integrator a model runs with.
// The choice never changes the model's external contract.
type IntegratorKind string

const (
	IntegratorRK4   IntegratorKind = "rk4"
	IntegratorEuler IntegratorKind = "semi_implicit_euler"
)

// Params configures one model instance for a run. Vehicle is validated
// by vparam.New before it gets here; nothing in the core re-validates it
// per step.
type Params struct {
	Vehicle       vparam.Vehicle
	Speed         float64 // constant forward speed, m/s
	Integrator    IntegratorKind
	FrictionClamp bool    // clamp axle forces to the friction circle
	NoiseStd      float64 // additive yaw-rate noise, 0 disables
	Rand          *rand.Rand
}

// Telemetry is the read-only derived output of one simulation tick.
// Notes carries model-specific diagnostics (slip angles, limit flags).
type Telemetry struct {
	T        float64
	X, Y     float64
	Heading  float64
	YawRate  float64
	LatAccel float64
	Sideslip float64
	Notes    map[string]float64
}

// Geometry is an optional visualization hint.
type Geometry struct {
	Length    float64
	Width     float64
	Wheelbase float64
}

// Model is the common contract every dynamics model implements.
type Model interface {
	ID() string
	Defaults() Params
	Init(p Params) State
	Step(x State, in Inputs, dt float64, p Params) (State, error)
	Outputs(x State, p Params) Telemetry
}

// GeometryHinter is implemented by models that can describe their
// footprint for rendering.
type GeometryHinter interface {
	Geometry(p Params) Geometry
}

// Sampler produces the input for a given simulation time. It is the
// contract between scenario scripts, the session transport and a model
// run loop.
type Sampler func(t float64, modelID string, p Params) Inputs

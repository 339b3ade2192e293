package models

import (
	"fmt"
	"math"

	"github.com/san-kum/vehlab/internal/integrators"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// ModelUnicycle is the registry id of the kinematic single-track model.
const ModelUnicycle = "unicycle"

// Unicycle state layout.
const (
	UniX = iota
	UniY
	UniHeading
	UniYawRate
	UniDtClamped
	uniStateLen
)

// Unicycle is the kinematic single-track model: curvature follows the
// steer angle directly, yaw rate is v * curvature, and only the pose is
// integrated. No tyre forces, no inertia.
type Unicycle struct{}

func NewUnicycle() *Unicycle {
	return &Unicycle{}
}

func (u *Unicycle) ID() string {
	return ModelUnicycle
}

func (u *Unicycle) Defaults() vdyn.Params {
	v, _ := vparam.New(vparam.Vehicle{
		Mass: 1200, Iz: 1800,
		A: 1.1, B: 1.5,
		Cf: 70000, Cr: 70000,
		Mu: 1.0, Track: 1.5, HCg: 0.5,
	})
	return vdyn.Params{
		Vehicle:    v,
		Speed:      10,
		Integrator: vdyn.IntegratorRK4,
	}
}

func (u *Unicycle) Init(p vdyn.Params) vdyn.State {
	return make(vdyn.State, uniStateLen)
}

func (u *Unicycle) Step(x vdyn.State, in vdyn.Inputs, dt float64, p vdyn.Params) (vdyn.State, error) {
	if !validDt(dt) {
		return nil, fmt.Errorf("%w: dt=%v", vdyn.ErrInvalidTimestep, dt)
	}
	dt, clamped := EnforceDtBounds(ModelUnicycle, dt)

	v := p.Speed
	l := p.Vehicle.Wheelbase()
	curvature := math.Tan(in.Steer) / l

	yawRate := v * curvature
	if p.NoiseStd > 0 && p.Rand != nil {
		yawRate += p.NoiseStd * p.Rand.NormFloat64()
	}

	deriv := func(s vdyn.State, _ float64) vdyn.State {
		return vdyn.State{
			v * math.Cos(s[2]),
			v * math.Sin(s[2]),
			yawRate,
		}
	}

	pose := vdyn.State{x[UniX], x[UniY], x[UniHeading]}
	pose = integrators.Step(p.Integrator, pose, deriv, 0, dt)

	next := make(vdyn.State, uniStateLen)
	next[UniX] = pose[0]
	next[UniY] = pose[1]
	next[UniHeading] = pose[2]
	next[UniYawRate] = yawRate
	if clamped {
		next[UniDtClamped] = 1
	}
	return next, nil
}

func (u *Unicycle) Outputs(x vdyn.State, p vdyn.Params) vdyn.Telemetry {
	return vdyn.Telemetry{
		X:        x[UniX],
		Y:        x[UniY],
		Heading:  x[UniHeading],
		YawRate:  x[UniYawRate],
		LatAccel: p.Speed * x[UniYawRate],
		Sideslip: 0,
		Notes: map[string]float64{
			"dtClamped": x[UniDtClamped],
		},
	}
}

func (u *Unicycle) Geometry(p vdyn.Params) vdyn.Geometry {
	return vdyn.Geometry{
		Length:    p.Vehicle.Wheelbase() * 1.3,
		Width:     p.Vehicle.Track,
		Wheelbase: p.Vehicle.Wheelbase(),
	}
}

func validDt(dt float64) bool {
	return !math.IsNaN(dt) && !math.IsInf(dt, 0) && dt > 0
}

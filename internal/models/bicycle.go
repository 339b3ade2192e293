package models

import (
	"fmt"
	"math"

	"github.com/san-kum/vehlab/internal/integrators"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// ModelBicycle is the registry id of the linear 2-DOF bicycle model.
const ModelBicycle = "bicycle"

// Bicycle state layout. The first five entries are the integrated ODE
// states; the rest are diagnostics recomputed after each step.
const (
	BicVy = iota
	BicYawRate
	BicHeading
	BicX
	BicY
	BicAyDot
	BicAy
	BicSlipF
	BicSlipR
	BicForceF
	BicForceR
	BicLimitF
	BicLimitR
	BicVxEff
	BicDtClamped
	bicStateLen
)

// Bicycle is the linear two-degree-of-freedom single-track model with an
// optional friction-circle clamp on each axle force.
type Bicycle struct{}

func NewBicycle() *Bicycle {
	return &Bicycle{}
}

func (b *Bicycle) ID() string {
	return ModelBicycle
}

func (b *Bicycle) Defaults() vdyn.Params {
	v, _ := vparam.New(vparam.Vehicle{
		Mass: 1500, Iz: 2250,
		A: 1.2, B: 1.6,
		Cf: 80000, Cr: 80000,
		Mu: 1.0, Track: 1.6, HCg: 0.55,
	})
	return vdyn.Params{
		Vehicle:       v,
		Speed:         20,
		Integrator:    vdyn.IntegratorRK4,
		FrictionClamp: true,
	}
}

func (b *Bicycle) Init(p vdyn.Params) vdyn.State {
	x := make(vdyn.State, bicStateLen)
	x[BicVxEff] = vparam.ClampSpeed(p.Speed)
	return x
}

// ClampFriction limits a lateral force to the friction circle
// |Fy| <= limit, reporting whether it clipped.
func ClampFriction(force, limit float64) (float64, bool) {
	if force > limit {
		return limit, true
	}
	if force < -limit {
		return -limit, true
	}
	return force, false
}

// axleForces computes slip angles and lateral forces at the given lateral
// velocity and yaw rate, applying the friction clamp when enabled.
func (b *Bicycle) axleForces(vy, r, vx, steer float64, p vdyn.Params, loads vparam.AxleLoads) (fyF, fyR, alphaF, alphaR float64, limF, limR bool) {
	v := p.Vehicle
	alphaF = math.Atan2(vy+v.A*r, vx) - steer
	alphaR = math.Atan2(vy-v.B*r, vx)

	fyF = -v.Cf * alphaF
	fyR = -v.Cr * alphaR

	if p.FrictionClamp {
		fyF, limF = ClampFriction(fyF, v.Mu*loads.Front)
		fyR, limR = ClampFriction(fyR, v.Mu*loads.Rear)
	}
	return
}

func (b *Bicycle) Step(x vdyn.State, in vdyn.Inputs, dt float64, p vdyn.Params) (vdyn.State, error) {
	if !validDt(dt) {
		return nil, fmt.Errorf("%w: dt=%v", vdyn.ErrInvalidTimestep, dt)
	}
	dt, clamped := EnforceDtBounds(ModelBicycle, dt)

	v := p.Vehicle
	vx := vparam.ClampSpeed(p.Speed)

	loads, err := vparam.StaticLoads(v)
	if err != nil {
		return nil, err
	}

	// ODE over [vy, r, heading, x, y]; forces re-evaluated (and
	// re-clamped) at every derivative call so the saturated dynamics
	// stay continuous.
	deriv := func(s vdyn.State, _ float64) vdyn.State {
		fyF, fyR, _, _, _, _ := b.axleForces(s[0], s[1], vx, in.Steer, p, loads)
		vyDot := (fyF+fyR)/v.Mass - vx*s[1]
		rDot := (v.A*fyF - v.B*fyR) / v.Iz
		return vdyn.State{
			vyDot,
			rDot,
			s[1],
			vx*math.Cos(s[2]) - s[0]*math.Sin(s[2]),
			vx*math.Sin(s[2]) + s[0]*math.Cos(s[2]),
		}
	}

	core := vdyn.State{x[BicVy], x[BicYawRate], x[BicHeading], x[BicX], x[BicY]}
	core = integrators.Step(p.Integrator, core, deriv, 0, dt)

	vy, r := core[0], core[1]
	fyF, fyR, alphaF, alphaR, limF, limR := b.axleForces(vy, r, vx, in.Steer, p, loads)
	vyDot := (fyF+fyR)/v.Mass - vx*r
	ay := vx*r + vyDot

	next := make(vdyn.State, bicStateLen)
	next[BicVy] = vy
	next[BicYawRate] = r
	next[BicHeading] = core[2]
	next[BicX] = core[3]
	next[BicY] = core[4]
	next[BicAyDot] = (ay - x[BicAy]) / dt
	next[BicAy] = ay
	next[BicSlipF] = alphaF
	next[BicSlipR] = alphaR
	next[BicForceF] = fyF
	next[BicForceR] = fyR
	if limF {
		next[BicLimitF] = 1
	}
	if limR {
		next[BicLimitR] = 1
	}
	next[BicVxEff] = vx
	if clamped {
		next[BicDtClamped] = 1
	}
	return next, nil
}

func (b *Bicycle) Outputs(x vdyn.State, p vdyn.Params) vdyn.Telemetry {
	vx := x[BicVxEff]
	if vx == 0 {
		vx = vparam.ClampSpeed(p.Speed)
	}
	return vdyn.Telemetry{
		X:        x[BicX],
		Y:        x[BicY],
		Heading:  x[BicHeading],
		YawRate:  x[BicYawRate],
		LatAccel: x[BicAy],
		Sideslip: math.Atan2(x[BicVy], vx),
		Notes: map[string]float64{
			"slipFront":  x[BicSlipF],
			"slipRear":   x[BicSlipR],
			"forceFront": x[BicForceF],
			"forceRear":  x[BicForceR],
			"limitFront": x[BicLimitF],
			"limitRear":  x[BicLimitR],
			"latJerk":    x[BicAyDot],
			"vxEff":      x[BicVxEff],
			"dtClamped":  x[BicDtClamped],
		},
	}
}

func (b *Bicycle) Geometry(p vdyn.Params) vdyn.Geometry {
	return vdyn.Geometry{
		Length:    p.Vehicle.Wheelbase() * 1.4,
		Width:     p.Vehicle.Track,
		Wheelbase: p.Vehicle.Wheelbase(),
	}
}

package integrators

import "github.com/san-kum/vehlab/internal/vdyn"

// SemiImplicitEulerStep advances x by one step, evaluating the derivative
// once at the current state and applying it over the full dt.
func SemiImplicitEulerStep(x vdyn.State, f DerivFunc, t, dt float64) vdyn.State {
	dx := f(x, t)
	result := make(vdyn.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// Step dispatches on the configured integrator kind. Unknown kinds fall
// back to RK4.
func Step(kind vdyn.IntegratorKind, x vdyn.State, f DerivFunc, t, dt float64) vdyn.State {
	switch kind {
	case vdyn.IntegratorEuler:
		return SemiImplicitEulerStep(x, f, t, dt)
	default:
		return RK4Step(x, f, t, dt)
	}
}

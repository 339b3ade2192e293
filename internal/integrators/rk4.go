package integrators

import "github.com/san-kum/vehlab/internal/vdyn"

// DerivFunc evaluates dX/dt at state x and time t.
type DerivFunc func(x vdyn.State, t float64) vdyn.State

// RK4Step advances x by one classic 4th-order Runge-Kutta step. Pure: it
// never mutates x and keeps no scratch state between calls.
func RK4Step(x vdyn.State, f DerivFunc, t, dt float64) vdyn.State {
	n := len(x)

	k1 := f(x, t)

	s := make(vdyn.State, n)
	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := f(s, t+dt*0.5)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := f(s, t+dt*0.5)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*k3[i]
	}
	k4 := f(s, t+dt)

	result := make(vdyn.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}

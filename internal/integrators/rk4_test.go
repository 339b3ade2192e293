package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/vehlab/internal/vdyn"
)

// harmonic oscillator with closed form cos/sin solution.
func oscillator(x vdyn.State, t float64) vdyn.State {
	return vdyn.State{x[1], -x[0]}
}

func TestRK4Accuracy(t *testing.T) {
	x := vdyn.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = RK4Step(x, oscillator, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	x := vdyn.State{1.0, 0.0}
	orig := x.Clone()

	_ = RK4Step(x, oscillator, 0, 0.01)

	if x[0] != orig[0] || x[1] != orig[1] {
		t.Errorf("input state mutated: got %v, want %v", x, orig)
	}
}

func TestSemiImplicitEulerFirstOrder(t *testing.T) {
	// Exponential decay x' = -x; error should shrink roughly linearly
	// with dt.
	decay := func(x vdyn.State, t float64) vdyn.State {
		return vdyn.State{-x[0]}
	}

	run := func(dt float64) float64 {
		x := vdyn.State{1.0}
		steps := int(1.0 / dt)
		for i := 0; i < steps; i++ {
			x = SemiImplicitEulerStep(x, decay, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Exp(-1))
	}

	errCoarse := run(0.01)
	errFine := run(0.001)

	if errFine >= errCoarse {
		t.Errorf("error did not shrink with dt: coarse %.2e, fine %.2e", errCoarse, errFine)
	}
	ratio := errCoarse / errFine
	if ratio < 5 || ratio > 20 {
		t.Errorf("expected ~10x error reduction for 10x smaller dt, got %.2fx", ratio)
	}
}

func TestStepDispatch(t *testing.T) {
	x := vdyn.State{1.0, 0.0}

	rk4 := Step(vdyn.IntegratorRK4, x, oscillator, 0, 0.01)
	euler := Step(vdyn.IntegratorEuler, x, oscillator, 0, 0.01)

	if rk4[0] == euler[0] {
		t.Error("expected RK4 and Euler to differ on the oscillator")
	}

	// Unknown kinds fall back to RK4.
	def := Step("", x, oscillator, 0, 0.01)
	if def[0] != rk4[0] || def[1] != rk4[1] {
		t.Error("default dispatch should match RK4")
	}
}

package vparam

import (
	"errors"
	"math"
	"testing"
)

func refVehicle() Vehicle {
	return Vehicle{
		Mass: 1500, Iz: 2250,
		A: 1.2, B: 1.6,
		Cf: 80000, Cr: 80000,
		Mu: 1.0, Track: 1.6, HCg: 0.55,
		Gravity: 9.81,
	}
}

func TestNewRejectsNonPositiveWheelbase(t *testing.T) {
	raw := refVehicle()
	raw.A = 0
	raw.B = 0

	if _, err := New(raw); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}

	raw.A = 1.0
	raw.B = -1.5
	if _, err := New(raw); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for negative wheelbase, got %v", err)
	}
}

func TestNewDefaultsGravity(t *testing.T) {
	raw := refVehicle()
	raw.Gravity = 0

	v, err := New(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Gravity != 9.81 {
		t.Errorf("expected default gravity 9.81, got %f", v.Gravity)
	}
}

func TestStaticLoads(t *testing.T) {
	v, _ := New(refVehicle())

	loads, err := StaticLoads(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := v.Mass * v.Gravity
	if math.Abs(loads.Front+loads.Rear-total) > 1e-9 {
		t.Errorf("loads do not sum to weight: %f + %f != %f", loads.Front, loads.Rear, total)
	}

	// CG sits closer to the front axle, so the front carries more.
	if loads.Front <= loads.Rear {
		t.Errorf("expected front load > rear load, got %f <= %f", loads.Front, loads.Rear)
	}

	wantFront := total * v.B / v.Wheelbase()
	if math.Abs(loads.Front-wantFront) > 1e-9 {
		t.Errorf("front load: got %f, want %f", loads.Front, wantFront)
	}
}

func TestClampSpeed(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, MinSpeed},
		{0.1, MinSpeed},
		{-0.1, -MinSpeed},
		{MinSpeed, MinSpeed},
		{20, 20},
		{-20, -20},
	}
	for _, c := range cases {
		if got := ClampSpeed(c.in); got != c.want {
			t.Errorf("ClampSpeed(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestLinearBicycleCoeffsFinite(t *testing.T) {
	v, _ := New(refVehicle())

	for _, vx := range []float64{0, 0.01, -0.3, 5, 20, -20} {
		c := LinearBicycleCoeffs(v, vx)
		for name, val := range map[string]float64{
			"A11": c.A11, "A12": c.A12, "A21": c.A21, "A22": c.A22,
			"B1": c.B1, "B2": c.B2, "Vx": c.Vx,
		} {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				t.Errorf("vx=%f: %s is not finite", vx, name)
			}
		}
		if math.Abs(c.Vx) < MinSpeed {
			t.Errorf("vx=%f: effective speed %f below floor", vx, c.Vx)
		}
	}
}

func TestLinearBicycleCoeffsReference(t *testing.T) {
	v, _ := New(refVehicle())
	c := LinearBicycleCoeffs(v, 20)

	want := BicycleCoeffs{
		A11: -(80000 + 80000) / (1500.0 * 20),
		A12: -20 - (1.2*80000-1.6*80000)/(1500.0*20),
		A21: -(1.2*80000 - 1.6*80000) / (2250.0 * 20),
		A22: -(1.2*1.2*80000 + 1.6*1.6*80000) / (2250.0 * 20),
		B1:  80000 / 1500.0,
		B2:  1.2 * 80000 / 2250.0,
		Vx:  20,
	}

	tol := 1e-9
	if math.Abs(c.A11-want.A11) > tol || math.Abs(c.A12-want.A12) > tol ||
		math.Abs(c.A21-want.A21) > tol || math.Abs(c.A22-want.A22) > tol ||
		math.Abs(c.B1-want.B1) > tol || math.Abs(c.B2-want.B2) > tol {
		t.Errorf("coefficients mismatch:\n got %+v\nwant %+v", c, want)
	}
}

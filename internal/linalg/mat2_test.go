package linalg

import (
	"errors"
	"math"
	"testing"
)

func TestInverse(t *testing.T) {
	m := Mat2{A11: 4, A12: 7, A21: 2, A22: 6}

	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := m.Mul(inv)
	if math.Abs(id.A11-1) > 1e-12 || math.Abs(id.A22-1) > 1e-12 ||
		math.Abs(id.A12) > 1e-12 || math.Abs(id.A21) > 1e-12 {
		t.Errorf("m * m^-1 != I, got %+v", id)
	}
}

func TestInverseSingular(t *testing.T) {
	m := Mat2{A11: 1, A12: 2, A21: 2, A22: 4}

	if _, err := m.Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestSolve(t *testing.T) {
	m := Mat2{A11: 3, A12: 1, A21: 1, A22: 2}
	b := Vec2{X: 9, Y: 8}

	x, err := m.Solve(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3*2 + 1*3 = 9, 1*2 + 2*3 = 8
	if math.Abs(x.X-2) > 1e-12 || math.Abs(x.Y-3) > 1e-12 {
		t.Errorf("expected (2, 3), got (%f, %f)", x.X, x.Y)
	}
}

func TestSolveC(t *testing.T) {
	m := CMat2{
		A11: complex(1, 1), A12: complex(0, 0),
		A21: complex(0, 0), A22: complex(2, 0),
	}
	b := CVec2{X: complex(2, 2), Y: complex(4, 2)}

	x, err := m.SolveC(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmplxAbs(x.X-complex(2, 0)) > 1e-12 {
		t.Errorf("expected x0 = 2+0i, got %v", x.X)
	}
	if cmplxAbs(x.Y-complex(2, 1)) > 1e-12 {
		t.Errorf("expected x1 = 2+1i, got %v", x.Y)
	}
}

func TestSolveCSingular(t *testing.T) {
	m := CMat2{
		A11: complex(1, 0), A12: complex(2, 0),
		A21: complex(2, 0), A22: complex(4, 0),
	}

	if _, err := m.SolveC(CVec2{X: 1, Y: 1}); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

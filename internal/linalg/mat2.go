package linalg

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular indicates a 2x2 system with a numerically zero determinant.
var ErrSingular = errors.New("linalg: singular 2x2 system")

// Vec2 is a fixed-size 2-vector.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mat2 is a fixed-size 2x2 matrix in row-major naming.
type Mat2 struct {
	A11, A12 float64
	A21, A22 float64
}

// Identity returns the 2x2 identity matrix.
func Identity() Mat2 {
	return Mat2{A11: 1, A22: 1}
}

func (m Mat2) Det() float64 {
	return m.A11*m.A22 - m.A12*m.A21
}

func (m Mat2) Trace() float64 {
	return m.A11 + m.A22
}

func (m Mat2) Add(o Mat2) Mat2 {
	return Mat2{m.A11 + o.A11, m.A12 + o.A12, m.A21 + o.A21, m.A22 + o.A22}
}

func (m Mat2) Sub(o Mat2) Mat2 {
	return Mat2{m.A11 - o.A11, m.A12 - o.A12, m.A21 - o.A21, m.A22 - o.A22}
}

func (m Mat2) Scale(s float64) Mat2 {
	return Mat2{m.A11 * s, m.A12 * s, m.A21 * s, m.A22 * s}
}

func (m Mat2) Mul(o Mat2) Mat2 {
	return Mat2{
		A11: m.A11*o.A11 + m.A12*o.A21,
		A12: m.A11*o.A12 + m.A12*o.A22,
		A21: m.A21*o.A11 + m.A22*o.A21,
		A22: m.A21*o.A12 + m.A22*o.A22,
	}
}

func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		X: m.A11*v.X + m.A12*v.Y,
		Y: m.A21*v.X + m.A22*v.Y,
	}
}

// Inverse returns the inverse of m, or ErrSingular if the determinant is
// numerically zero.
func (m Mat2) Inverse() (Mat2, error) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Mat2{}, fmt.Errorf("%w: det=%.3e", ErrSingular, det)
	}
	inv := 1.0 / det
	return Mat2{
		A11: m.A22 * inv, A12: -m.A12 * inv,
		A21: -m.A21 * inv, A22: m.A11 * inv,
	}, nil
}

// Solve solves m*x = b via Cramer's rule.
func (m Mat2) Solve(b Vec2) (Vec2, error) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Vec2{}, fmt.Errorf("%w: det=%.3e", ErrSingular, det)
	}
	return Vec2{
		X: (b.X*m.A22 - b.Y*m.A12) / det,
		Y: (m.A11*b.Y - m.A21*b.X) / det,
	}, nil
}

// CMat2 is a complex-valued 2x2 matrix, used by the frequency-response
// solve at s = jw.
type CMat2 struct {
	A11, A12 complex128
	A21, A22 complex128
}

// CVec2 is a complex-valued 2-vector.
type CVec2 struct {
	X, Y complex128
}

// SolveC solves m*x = b over complex scalars via Cramer's rule.
func (m CMat2) SolveC(b CVec2) (CVec2, error) {
	det := m.A11*m.A22 - m.A12*m.A21
	if cmplxAbs(det) < 1e-12 {
		return CVec2{}, fmt.Errorf("%w: |det|=%.3e", ErrSingular, cmplxAbs(det))
	}
	return CVec2{
		X: (b.X*m.A22 - b.Y*m.A12) / det,
		Y: (m.A11*b.Y - m.A21*b.X) / det,
	}, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

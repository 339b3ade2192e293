package theory

import (
	"errors"
	"math"

	"github.com/san-kum/vehlab/internal/linalg"
	"github.com/san-kum/vehlab/internal/vparam"
)

// ErrSingularSystem indicates a theory evaluation hit a numerically zero
// determinant. Fatal to that specific call only.
var ErrSingularSystem = errors.New("theory: singular system")

// System is the continuous 2x2 state-space pair {A, B} of the linear
// bicycle model over states (vy, r) and input steer angle.
type System struct {
	A  linalg.Mat2
	B  linalg.Vec2
	Vx float64
}

// NewSystem builds the state-space system from derived coefficients.
func NewSystem(c vparam.BicycleCoeffs) System {
	return System{
		A: linalg.Mat2{
			A11: c.A11, A12: c.A12,
			A21: c.A21, A22: c.A22,
		},
		B:  linalg.Vec2{X: c.B1, Y: c.B2},
		Vx: c.Vx,
	}
}

// SteadyStateGain returns -A^-1 * B, the per-radian steady response of
// (vy, r) to a held steer input.
func (s System) SteadyStateGain() (linalg.Vec2, error) {
	inv, err := s.A.Inverse()
	if err != nil {
		return linalg.Vec2{}, errors.Join(ErrSingularSystem, err)
	}
	return inv.MulVec(s.B).Scale(-1), nil
}

// NaturalFrequency returns sqrt(det(A)), or 0 when det(A) <= 0 (no
// oscillatory response).
func (s System) NaturalFrequency() float64 {
	det := s.A.Det()
	if det <= 0 {
		return 0
	}
	return math.Sqrt(det)
}

// DampingRatio returns -trace(A) / (2 * omegaN), or 0 when the system has
// no natural frequency.
func (s System) DampingRatio() float64 {
	wn := s.NaturalFrequency()
	if wn == 0 {
		return 0
	}
	return -s.A.Trace() / (2 * wn)
}

// StepResponse holds the analytic response curves to a held steer input.
type StepResponse struct {
	Times   []float64
	LatVel  []float64 // vy
	YawRate []float64 // r
}

// StepCurves evaluates the exact convolution integral for a step input of
// magnitude delta at t=0:
//
//	x(t) = A^-1 (expm(A t) - I) B delta
//
// This path shares no code with the numeric integrators so the two can be
// compared as independent solutions of the same ODE.
func (s System) StepCurves(times []float64, delta float64) (StepResponse, error) {
	inv, err := s.A.Inverse()
	if err != nil {
		return StepResponse{}, errors.Join(ErrSingularSystem, err)
	}

	resp := StepResponse{
		Times:   append([]float64(nil), times...),
		LatVel:  make([]float64, len(times)),
		YawRate: make([]float64, len(times)),
	}

	id := linalg.Identity()
	for i, t := range times {
		if t <= 0 {
			continue
		}
		m := inv.Mul(Expm(s.A, t).Sub(id))
		x := m.MulVec(s.B).Scale(delta)
		resp.LatVel[i] = x.X
		resp.YawRate[i] = x.Y
	}
	return resp, nil
}

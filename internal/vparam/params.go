package vparam

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry indicates a non-positive wheelbase, radius or speed
// where a positive value is required.
var ErrInvalidGeometry = errors.New("vparam: invalid geometry")

// MinSpeed is the magnitude floor applied to forward speed before it is
// used as a divisor in the linear bicycle coefficients.
const MinSpeed = 0.5

// Vehicle holds the lumped parameters of a single-track vehicle model.
// Values are validated once by New and never mutated afterwards.
type Vehicle struct {
	Mass    float64 // kg
	Iz      float64 // yaw inertia, kg*m^2
	A       float64 // CG to front axle, m
	B       float64 // CG to rear axle, m
	Cf      float64 // front cornering stiffness, N/rad
	Cr      float64 // rear cornering stiffness, N/rad
	Mu      float64 // tyre-road friction coefficient
	Track   float64 // track width, m
	HCg     float64 // CG height, m
	Gravity float64 // m/s^2
}

// New validates raw vehicle parameters. It fails if the wheelbase a+b is
// not positive. A zero gravity defaults to 9.81.
func New(raw Vehicle) (Vehicle, error) {
	if raw.A+raw.B <= 0 {
		return Vehicle{}, fmt.Errorf("%w: wheelbase %.4f <= 0", ErrInvalidGeometry, raw.A+raw.B)
	}
	if raw.Gravity == 0 {
		raw.Gravity = 9.81
	}
	return raw, nil
}

// Wheelbase returns a+b.
func (v Vehicle) Wheelbase() float64 {
	return v.A + v.B
}

// AxleLoads holds the static normal loads on each axle, in newtons.
type AxleLoads struct {
	Front float64
	Rear  float64
}

// StaticLoads distributes the vehicle weight over the axles by lever arms.
// The wheelbase is re-checked here: this is called from inside integration
// steps and a zero divisor would poison the whole run.
func StaticLoads(v Vehicle) (AxleLoads, error) {
	l := v.Wheelbase()
	if l <= 0 {
		return AxleLoads{}, fmt.Errorf("%w: wheelbase %.4f <= 0", ErrInvalidGeometry, l)
	}
	w := v.Mass * v.Gravity
	return AxleLoads{
		Front: w * v.B / l,
		Rear:  w * v.A / l,
	}, nil
}

// ClampSpeed floors |vx| to MinSpeed while preserving sign. A speed of
// exactly zero is treated as forward.
func ClampSpeed(vx float64) float64 {
	if math.Abs(vx) >= MinSpeed {
		return vx
	}
	if vx < 0 {
		return -MinSpeed
	}
	return MinSpeed
}

// BicycleCoeffs holds the entries of the continuous 2x2 state matrix and
// input vector of the linear 2-DOF bicycle model over states
// (lateral velocity vy, yaw rate r) and input (steer angle).
type BicycleCoeffs struct {
	A11, A12 float64
	A21, A22 float64
	B1, B2   float64
	Vx       float64 // effective forward speed after clamping
}

// LinearBicycleCoeffs derives the state-space coefficients at forward
// speed vx. The speed is floored in magnitude so the matrix stays finite
// at rest.
func LinearBicycleCoeffs(v Vehicle, vx float64) BicycleCoeffs {
	vx = ClampSpeed(vx)
	return BicycleCoeffs{
		A11: -(v.Cf + v.Cr) / (v.Mass * vx),
		A12: -vx - (v.A*v.Cf-v.B*v.Cr)/(v.Mass*vx),
		A21: -(v.A*v.Cf - v.B*v.Cr) / (v.Iz * vx),
		A22: -(v.A*v.A*v.Cf + v.B*v.B*v.Cr) / (v.Iz * vx),
		B1:  v.Cf / v.Mass,
		B2:  v.A * v.Cf / v.Iz,
		Vx:  vx,
	}
}

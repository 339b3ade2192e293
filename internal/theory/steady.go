package theory

import (
	"fmt"

	"github.com/san-kum/vehlab/internal/vparam"
)

// SkidpadPrediction is the closed-form steady state of a constant-radius
// turn at constant speed.
type SkidpadPrediction struct {
	YawRate            float64 // v/R, rad/s
	LatAccel           float64 // v^2/R, m/s^2
	UndersteerGradient float64 // rad per g of lateral acceleration
	SteerAngle         float64 // rad
}

// UndersteerGradient returns (frontLoad/Cf - rearLoad/Cr) / g.
func UndersteerGradient(v vparam.Vehicle) (float64, error) {
	loads, err := vparam.StaticLoads(v)
	if err != nil {
		return 0, err
	}
	return (loads.Front/v.Cf - loads.Rear/v.Cr) / v.Gravity, nil
}

// SkidpadSteadyState predicts the settled response on a circle of radius
// r at speed vx. Fails with ErrInvalidGeometry for a non-positive radius.
func SkidpadSteadyState(v vparam.Vehicle, vx, radius float64) (SkidpadPrediction, error) {
	if radius <= 0 {
		return SkidpadPrediction{}, fmt.Errorf("%w: radius %.4f <= 0", vparam.ErrInvalidGeometry, radius)
	}
	u, err := UndersteerGradient(v)
	if err != nil {
		return SkidpadPrediction{}, err
	}
	return SkidpadPrediction{
		YawRate:            vx / radius,
		LatAccel:           vx * vx / radius,
		UndersteerGradient: u,
		SteerAngle:         v.Wheelbase()/radius + u*vx*vx/(radius*v.Gravity),
	}, nil
}

// FrictionLimit is the friction-envelope prediction for a given speed.
type FrictionLimit struct {
	AyMax        float64 // mu*g, m/s^2
	SteerAtLimit float64 // rad
}

// FrictionLimitPrediction returns the maximum sustainable lateral
// acceleration and the steer angle at which it is reached. The steer
// formula divides by speed squared, so zero speed is a precondition
// violation rather than a limiting case.
func FrictionLimitPrediction(v vparam.Vehicle, vx float64) (FrictionLimit, error) {
	if vx == 0 {
		return FrictionLimit{}, fmt.Errorf("%w: friction limit undefined at zero speed", vparam.ErrInvalidGeometry)
	}
	u, err := UndersteerGradient(v)
	if err != nil {
		return FrictionLimit{}, err
	}
	ayMax := v.Mu * v.Gravity
	return FrictionLimit{
		AyMax:        ayMax,
		SteerAtLimit: v.Wheelbase()*ayMax/(vx*vx) + u*ayMax/v.Gravity,
	}, nil
}

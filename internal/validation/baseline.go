package validation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vehlab/internal/models"
	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/vdyn"
)

// BaselineResult is one lightweight sanity check over a short run.
type BaselineResult struct {
	Name    string
	Metric  float64
	Bound   float64
	Passed  bool
	Details map[string]float64
}

// UnicycleCircleBaseline drives the kinematic model around a fixed circle
// and reports the RMS deviation of the traced radius from the commanded one.
func UnicycleCircleBaseline(reg *registry.Registry) (*BaselineResult, error) {
	const (
		speed  = 10.0
		radius = 20.0
		dt     = 0.01
		dur    = 15.0
		bound  = 0.5 // m
	)

	m, err := reg.Get(models.ModelUnicycle)
	if err != nil {
		return nil, err
	}
	p := m.Defaults()
	p.Speed = speed

	steer := math.Atan(p.Vehicle.Wheelbase() / radius)
	x := m.Init(p)

	// The trajectory starts at the origin heading +x, so the circle
	// center sits at (0, radius).
	var sumSq float64
	steps := int(dur / dt)
	for i := 0; i < steps; i++ {
		x, err = m.Step(x, vdyn.Inputs{Steer: steer}, dt, p)
		if err != nil {
			return nil, err
		}
		tel := m.Outputs(x, p)
		r := math.Hypot(tel.X, tel.Y-radius)
		e := r - radius
		sumSq += e * e
	}
	rms := math.Sqrt(sumSq / float64(steps))

	return &BaselineResult{
		Name:   "unicycle_circle",
		Metric: rms,
		Bound:  bound,
		Passed: rms <= bound,
		Details: map[string]float64{
			"radius": radius,
			"speed":  speed,
		},
	}, nil
}

// BicycleStepBaseline applies a steer step to the planar bicycle and checks
// that yaw rate stays non-negative, stays bounded and rises to a steady
// value rather than oscillating or diverging.
func BicycleStepBaseline(reg *registry.Registry) (*BaselineResult, error) {
	const (
		steer = 3.0 * math.Pi / 180
		dt    = 0.01
		dur   = 6.0
	)

	m, err := reg.Get(models.ModelBicycle)
	if err != nil {
		return nil, err
	}
	p := m.Defaults()
	x := m.Init(p)

	steps := int(dur / dt)
	yaw := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		x, err = m.Step(x, vdyn.Inputs{Steer: steer}, dt, p)
		if err != nil {
			return nil, err
		}
		yaw = append(yaw, m.Outputs(x, p).YawRate)
	}

	final := yaw[len(yaw)-1]
	peak := floats.Max(yaw)
	minVal := floats.Min(yaw)

	// A well damped response overshoots only a few percent, then the
	// tail holds within a narrow band around the final value.
	ok := final > 0 && minVal >= -1e-9 && peak <= 1.2*final
	tailStart := len(yaw) * 3 / 4
	for _, r := range yaw[tailStart:] {
		if math.Abs(r-final) > 0.02*final {
			ok = false
			break
		}
	}

	deviation := 0.0
	if final > 0 {
		deviation = peak/final - 1
	}
	return &BaselineResult{
		Name:   "bicycle_step",
		Metric: deviation,
		Bound:  0.2,
		Passed: ok,
		Details: map[string]float64{
			"finalYawRate": final,
			"peakYawRate":  peak,
			"minYawRate":   minVal,
		},
	}, nil
}

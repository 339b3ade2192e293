package scenario

import (
	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/vdyn"
)

// steadyWindow is the trailing fraction of a skidpad run averaged as the
// steady state.
const steadyWindow = 0.4

// SkidpadConfig configures a closed-loop constant-radius manoeuvre.
type SkidpadConfig struct {
	ModelID  string
	Params   *vdyn.Params
	Speed    float64 // m/s
	Radius   float64 // m
	Dt       float64
	Duration float64
	PID      PIDGains
}

func (c *SkidpadConfig) applyDefaults() {
	if c.ModelID == "" {
		c.ModelID = "bicycle"
	}
	if c.Speed == 0 {
		c.Speed = 15
	}
	if c.Radius == 0 {
		c.Radius = 30
	}
	if c.Dt == 0 {
		c.Dt = 0.01
	}
	if c.Duration == 0 {
		c.Duration = 20.0
	}
	if c.PID == (PIDGains{}) {
		c.PID = DefaultPIDGains()
	}
}

var skidpadTolerances = map[string]float64{
	"yawRate":  0.05,
	"latAccel": 0.05,
}

// RunSkidpad regulates yaw rate to v/R with a PID steering controller fed
// by the previous tick's telemetry, then compares the averaged steady
// window against the closed-form skidpad prediction.
func RunSkidpad(reg *registry.Registry, cfg SkidpadConfig) (*Result, error) {
	cfg.applyDefaults()

	m, p, err := resolve(reg, cfg.ModelID, cfg.Params, cfg.Speed)
	if err != nil {
		return nil, err
	}

	pred, err := theory.SkidpadSteadyState(p.Vehicle, p.Speed, cfg.Radius)
	if err != nil {
		return nil, err
	}

	controller := newPID(cfg.PID, pred.YawRate)
	series, err := drive(m, p, cfg.Dt, cfg.Duration, func(t float64, prev vdyn.Telemetry) vdyn.Inputs {
		return vdyn.Inputs{Steer: controller.compute(prev.YawRate, t)}
	})
	if err != nil {
		return nil, err
	}

	frictionLimited, linearRegion := seriesFlags(series)

	measYaw := meanTail(series, steadyWindow, func(tel vdyn.Telemetry) float64 { return tel.YawRate })
	measAy := meanTail(series, steadyWindow, func(tel vdyn.Telemetry) float64 { return tel.LatAccel })

	metrics := map[string]float64{
		"yawRate":  relErr(measYaw, pred.YawRate),
		"latAccel": relErr(measAy, pred.LatAccel),
	}

	return &Result{
		Scenario:  Skidpad,
		Model:     m.ID(),
		Telemetry: series,
		Theory: TheoryBundle{
			Skidpad: &pred,
		},
		Metrics: metrics,
		Grades:  gradeAll(metrics, skidpadTolerances, frictionLimited),
		Flags: map[string]bool{
			"frictionLimited": frictionLimited,
			"linearRegion":    linearRegion,
		},
	}, nil
}

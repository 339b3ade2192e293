package scenario

import (
	"math"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// StepSteerConfig configures an open-loop step-steer manoeuvre.
type StepSteerConfig struct {
	ModelID    string
	Params     *vdyn.Params // nil uses the model defaults
	Speed      float64      // m/s, 0 keeps the params' speed
	SteerAngle float64      // rad, 0 defaults to 4 degrees
	StepTime   float64      // s
	Dt         float64
	Duration   float64
}

func (c *StepSteerConfig) applyDefaults() {
	if c.ModelID == "" {
		c.ModelID = "bicycle"
	}
	if c.SteerAngle == 0 {
		c.SteerAngle = 4 * math.Pi / 180
	}
	if c.StepTime == 0 {
		c.StepTime = 1.0
	}
	if c.Dt == 0 {
		c.Dt = 0.01
	}
	if c.Duration == 0 {
		c.Duration = 8.0
	}
}

var stepSteerTolerances = map[string]float64{
	"finalYaw":  0.05,
	"settling":  0.25,
	"overshoot": 0.05,
}

// RunStepSteer applies a steer step at StepTime and grades the settled
// yaw rate, the settling time, and the overshoot against linear theory
// derived from the same vehicle parameters the model ran with.
func RunStepSteer(reg *registry.Registry, cfg StepSteerConfig) (*Result, error) {
	cfg.applyDefaults()

	m, p, err := resolve(reg, cfg.ModelID, cfg.Params, cfg.Speed)
	if err != nil {
		return nil, err
	}

	series, err := drive(m, p, cfg.Dt, cfg.Duration, func(t float64, _ vdyn.Telemetry) vdyn.Inputs {
		if t < cfg.StepTime {
			return vdyn.Inputs{}
		}
		return vdyn.Inputs{Steer: cfg.SteerAngle}
	})
	if err != nil {
		return nil, err
	}

	sys := theory.NewSystem(vparam.LinearBicycleCoeffs(p.Vehicle, p.Speed))
	gain, err := sys.SteadyStateGain()
	if err != nil {
		return nil, err
	}
	wn := sys.NaturalFrequency()
	zeta := sys.DampingRatio()

	stepTimes := make([]float64, len(series))
	for i, tel := range series {
		stepTimes[i] = tel.T - cfg.StepTime
	}
	stepResp, err := sys.StepCurves(stepTimes, cfg.SteerAngle)
	if err != nil {
		return nil, err
	}

	frictionLimited, linearRegion := seriesFlags(series)

	wantFinal := gain.Y * cfg.SteerAngle
	measFinal := meanTail(series, 0.1, func(tel vdyn.Telemetry) float64 { return tel.YawRate })

	metrics := map[string]float64{
		"finalYaw": relErr(measFinal, wantFinal),
	}

	if wn > 0 && zeta > 0 {
		wantSettling := 4 / (zeta * wn)
		measSettling := settlingTime(series, cfg.StepTime, measFinal)
		metrics["settling"] = relErr(measSettling, wantSettling)
	}

	// Overshoot is only defined for an underdamped system. Both values
	// are fractions of the settled yaw rate, so their difference is
	// already a relative error.
	if zeta > 0 && zeta < 1 {
		wantOvershoot := math.Exp(-math.Pi * zeta / math.Sqrt(1-zeta*zeta))
		measOvershoot := overshootFraction(series, cfg.StepTime, measFinal)
		metrics["overshoot"] = math.Abs(measOvershoot - wantOvershoot)
	}

	return &Result{
		Scenario:  StepSteer,
		Model:     m.ID(),
		Telemetry: series,
		Theory: TheoryBundle{
			SteadyYawGain: gain.Y,
			NaturalFreq:   wn,
			DampingRatio:  zeta,
			Step:          &stepResp,
		},
		Metrics: metrics,
		Grades:  gradeAll(metrics, stepSteerTolerances, frictionLimited),
		Flags: map[string]bool{
			"frictionLimited": frictionLimited,
			"linearRegion":    linearRegion,
		},
	}, nil
}

// settlingTime finds the 2%-band settling time relative to the step
// onset: the earliest time after which the yaw rate never leaves the band
// around its settled value.
func settlingTime(series []vdyn.Telemetry, stepTime, final float64) float64 {
	band := 0.02 * math.Abs(final)
	if band == 0 {
		return 0
	}

	lastOutside := -1
	for i, tel := range series {
		if tel.T < stepTime {
			continue
		}
		if math.Abs(tel.YawRate-final) > band {
			lastOutside = i
		}
	}
	if lastOutside < 0 || lastOutside == len(series)-1 {
		return 0
	}
	return series[lastOutside+1].T - stepTime
}

// overshootFraction returns (peak - final) / final, floored at zero.
func overshootFraction(series []vdyn.Telemetry, stepTime, final float64) float64 {
	if final == 0 {
		return 0
	}
	peak := 0.0
	sign := 1.0
	if final < 0 {
		sign = -1
	}
	for _, tel := range series {
		if tel.T < stepTime {
			continue
		}
		if v := sign * tel.YawRate; v > peak {
			peak = v
		}
	}
	frac := (peak - sign*final) / (sign * final)
	if frac < 0 {
		return 0
	}
	return frac
}

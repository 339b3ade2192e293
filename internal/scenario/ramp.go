package scenario

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// linearFitAyFraction bounds the samples used for the linear-region fit:
// only ticks below this fraction of the friction envelope count.
const linearFitAyFraction = 0.4

// RampConfig configures a steadily increasing steer ramp.
type RampConfig struct {
	ModelID  string
	Params   *vdyn.Params
	Speed    float64
	RampRate float64 // rad/s of steer
	Dt       float64
	Duration float64
}

func (c *RampConfig) applyDefaults() {
	if c.ModelID == "" {
		c.ModelID = "bicycle"
	}
	if c.Speed == 0 {
		c.Speed = 20
	}
	if c.RampRate == 0 {
		c.RampRate = 1 * math.Pi / 180
	}
	if c.Dt == 0 {
		c.Dt = 0.01
	}
	if c.Duration == 0 {
		c.Duration = 15.0
	}
}

var rampTolerances = map[string]float64{
	"linearGain": 0.10,
	"limitAy":    0.15,
}

// RunRampToLimit ramps the steer angle linearly, fits the small-steer
// linear region by least squares to estimate the measured yaw gain, and
// locates the first friction-limited sample. Both are compared against
// the linear-theory gain and the friction envelope.
func RunRampToLimit(reg *registry.Registry, cfg RampConfig) (*Result, error) {
	cfg.applyDefaults()

	m, p, err := resolve(reg, cfg.ModelID, cfg.Params, cfg.Speed)
	if err != nil {
		return nil, err
	}

	series, err := drive(m, p, cfg.Dt, cfg.Duration, func(t float64, _ vdyn.Telemetry) vdyn.Inputs {
		return vdyn.Inputs{Steer: cfg.RampRate * t}
	})
	if err != nil {
		return nil, err
	}

	sys := theory.NewSystem(vparam.LinearBicycleCoeffs(p.Vehicle, p.Speed))
	gain, err := sys.SteadyStateGain()
	if err != nil {
		return nil, err
	}
	limit, err := theory.FrictionLimitPrediction(p.Vehicle, p.Speed)
	if err != nil {
		return nil, err
	}

	frictionLimited, linearRegion := seriesFlags(series)

	// Least-squares fit of yaw rate against steer angle over the
	// comfortably-linear samples.
	var steers, yawRates []float64
	for _, tel := range series {
		if tel.Notes["limitFront"] == 1 || tel.Notes["limitRear"] == 1 {
			continue
		}
		if math.Abs(tel.LatAccel) > linearFitAyFraction*limit.AyMax {
			continue
		}
		steers = append(steers, cfg.RampRate*(tel.T-cfg.Dt))
		yawRates = append(yawRates, tel.YawRate)
	}

	metrics := map[string]float64{}
	if len(steers) >= 2 {
		_, slope := stat.LinearRegression(steers, yawRates, nil, false)
		metrics["linearGain"] = relErr(slope, gain.Y)
	}

	if idx := firstLimitedIndex(series); idx >= 0 {
		metrics["limitAy"] = relErr(math.Abs(series[idx].LatAccel), limit.AyMax)
		metrics["limitSteer"] = relErr(cfg.RampRate*(series[idx].T-cfg.Dt), limit.SteerAtLimit)
	}

	return &Result{
		Scenario:  RampToLimit,
		Model:     m.ID(),
		Telemetry: series,
		Theory: TheoryBundle{
			SteadyYawGain: gain.Y,
			Friction:      &limit,
		},
		Metrics: metrics,
		Grades:  gradeAll(metrics, rampTolerances, frictionLimited),
		Flags: map[string]bool{
			"frictionLimited": frictionLimited,
			"linearRegion":    linearRegion,
		},
	}, nil
}

func firstLimitedIndex(series []vdyn.Telemetry) int {
	for i, tel := range series {
		if tel.Notes["limitFront"] == 1 || tel.Notes["limitRear"] == 1 {
			return i
		}
	}
	return -1
}

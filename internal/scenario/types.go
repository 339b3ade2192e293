package scenario

import (
	"errors"
	"math"

	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/vdyn"
)

// ErrUnknownScenario indicates a scenario id with no registered sampler.
var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// Scenario identifiers.
const (
	StepSteer         = "step_steer"
	Skidpad           = "skidpad"
	FrequencyResponse = "frequency_response"
	RampToLimit       = "ramp_to_limit"
)

// smallAngleLinearRegion is the peak slip angle below which the run is
// considered to stay inside the linear tyre region.
const smallAngleLinearRegion = 6 * math.Pi / 180

// frictionWidenFactor widens grading tolerances when any sample of a run
// was friction-limited: saturation is expected behaviour, not an error.
const frictionWidenFactor = 2.0

// TheoryBundle collects the closed-form predictions a scenario was graded
// against. Only the fields relevant to the scenario kind are set.
type TheoryBundle struct {
	SteadyYawGain float64                   // (rad/s)/rad
	NaturalFreq   float64                   // rad/s
	DampingRatio  float64                   //
	Step          *theory.StepResponse      `json:",omitempty"`
	Bode          []theory.BodePoint        `json:",omitempty"`
	Skidpad       *theory.SkidpadPrediction `json:",omitempty"`
	Friction      *theory.FrictionLimit     `json:",omitempty"`
}

// Result is the outcome of one canonical scenario run: the telemetry
// series, the matching theory, named error metrics, their pass/fail
// grades, and qualitative flags. Immutable once returned.
type Result struct {
	Scenario  string
	Model     string
	Telemetry []vdyn.Telemetry
	Theory    TheoryBundle
	Metrics   map[string]float64
	Grades    map[string]bool
	Flags     map[string]bool
}

// seriesFlags scans a telemetry series for friction saturation and the
// peak slip angle.
func seriesFlags(series []vdyn.Telemetry) (frictionLimited, linearRegion bool) {
	peakSlip := 0.0
	for _, tel := range series {
		if tel.Notes["limitFront"] == 1 || tel.Notes["limitRear"] == 1 {
			frictionLimited = true
		}
		for _, key := range []string{"slipFront", "slipRear"} {
			if s := math.Abs(tel.Notes[key]); s > peakSlip {
				peakSlip = s
			}
		}
		if s := math.Abs(tel.Sideslip); s > peakSlip {
			peakSlip = s
		}
	}
	return frictionLimited, peakSlip <= smallAngleLinearRegion
}

// gradeAll grades each metric against its tolerance, widening all
// tolerances by frictionWidenFactor when the run saturated.
func gradeAll(metrics map[string]float64, tolerances map[string]float64, frictionLimited bool) map[string]bool {
	widen := 1.0
	if frictionLimited {
		widen = frictionWidenFactor
	}
	grades := make(map[string]bool, len(metrics))
	for name, val := range metrics {
		tol, ok := tolerances[name]
		if !ok {
			continue
		}
		grades[name] = math.Abs(val) <= tol*widen
	}
	return grades
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

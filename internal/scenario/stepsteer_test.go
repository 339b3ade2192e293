package scenario

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/vdyn"
)

func TestStepSteerReferenceGrades(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	res, err := RunStepSteer(reg, StepSteerConfig{
		ModelID:    "bicycle",
		Speed:      20,
		SteerAngle: 4 * math.Pi / 180,
		Duration:   8,
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(res.Grades).To(HaveKeyWithValue("finalYaw", true))
	g.Expect(res.Grades).To(HaveKeyWithValue("settling", true))
	g.Expect(res.Grades).To(HaveKeyWithValue("overshoot", true))

	g.Expect(res.Flags).To(HaveKeyWithValue("frictionLimited", false))
	g.Expect(res.Flags).To(HaveKeyWithValue("linearRegion", true))

	g.Expect(res.Theory.DampingRatio).To(BeNumerically("<", 1))
	g.Expect(res.Theory.NaturalFreq).To(BeNumerically(">", 0))
	g.Expect(res.Telemetry).To(HaveLen(800))
}

func TestStepSteerSettledValueMatchesTheory(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	res, err := RunStepSteer(reg, StepSteerConfig{Speed: 20})
	g.Expect(err).NotTo(HaveOccurred())

	last := res.Telemetry[len(res.Telemetry)-1]
	want := res.Theory.SteadyYawGain * 4 * math.Pi / 180
	g.Expect(last.YawRate).To(BeNumerically("~", want, math.Abs(want)*0.02))
}

func TestStepSteerUnknownModel(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	_, err := RunStepSteer(reg, StepSteerConfig{ModelID: "tricycle"})
	g.Expect(err).To(MatchError(vdyn.ErrUnknownModel))
}

func TestSettlingTimeMeasurement(t *testing.T) {
	g := NewWithT(t)

	// Synthetic exponential approach to 1.0 starting at t=1: settling
	// into the 2% band at 1 + ln(50)/lambda.
	lambda := 5.0
	series := make([]vdyn.Telemetry, 0, 1000)
	dt := 0.01
	for i := 1; i <= 1000; i++ {
		tt := float64(i) * dt
		r := 0.0
		if tt > 1 {
			r = 1 - math.Exp(-lambda*(tt-1))
		}
		series = append(series, vdyn.Telemetry{T: tt, YawRate: r})
	}

	got := settlingTime(series, 1.0, 1.0)
	want := math.Log(50) / lambda
	g.Expect(got).To(BeNumerically("~", want, 0.05))
}

func TestOvershootFraction(t *testing.T) {
	g := NewWithT(t)

	series := []vdyn.Telemetry{
		{T: 1.0, YawRate: 0},
		{T: 1.1, YawRate: 1.2},
		{T: 1.2, YawRate: 0.9},
		{T: 1.3, YawRate: 1.0},
	}
	g.Expect(overshootFraction(series, 0.5, 1.0)).To(BeNumerically("~", 0.2, 1e-12))

	// Monotone approach has zero overshoot.
	mono := []vdyn.Telemetry{
		{T: 1.0, YawRate: 0.5},
		{T: 1.1, YawRate: 0.9},
		{T: 1.2, YawRate: 1.0},
	}
	g.Expect(overshootFraction(mono, 0.5, 1.0)).To(BeZero())

	// Negative steady state mirrors.
	neg := []vdyn.Telemetry{
		{T: 1.0, YawRate: -1.3},
		{T: 1.1, YawRate: -1.0},
	}
	g.Expect(overshootFraction(neg, 0.5, -1.0)).To(BeNumerically("~", 0.3, 1e-12))
}

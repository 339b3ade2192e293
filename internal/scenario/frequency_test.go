package scenario

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/vehlab/internal/registry"
)

func TestFrequencyResponseReferenceGrades(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	res, err := RunFrequencyResponse(reg, FrequencyConfig{
		ModelID:     "bicycle",
		Speed:       18,
		Frequencies: []float64{0.5, 0.8, 1.2},
		Amplitude:   3 * math.Pi / 180,
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(res.Grades).To(HaveKeyWithValue("dcGain", true))
	g.Expect(res.Grades).To(HaveKeyWithValue("peakFrequency", true))
	g.Expect(res.Grades).To(HaveKeyWithValue("magnitudeRms", true))

	g.Expect(res.Theory.Bode).To(HaveLen(3))
	g.Expect(res.Flags).To(HaveKeyWithValue("frictionLimited", false))
}

func TestFrequencyResponseMeasuredGainsTrackTheory(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	res, err := RunFrequencyResponse(reg, FrequencyConfig{Speed: 18})
	g.Expect(err).NotTo(HaveOccurred())

	for _, pt := range res.Theory.Bode {
		name := metricName("gain", pt.FreqHz)
		g.Expect(res.Metrics).To(HaveKey(name))
		g.Expect(res.Metrics[name]).To(BeNumerically("~", pt.YawGain, pt.YawGain*0.05),
			"measured gain at %.2f Hz", pt.FreqHz)
	}
}

func TestFrequencyResponseSeriesIsMonotonic(t *testing.T) {
	g := NewWithT(t)

	reg := registry.Default()
	res, err := RunFrequencyResponse(reg, FrequencyConfig{
		Frequencies: []float64{0.5, 1.0},
		Cycles:      4,
	})
	g.Expect(err).NotTo(HaveOccurred())

	prev := 0.0
	for _, tel := range res.Telemetry {
		g.Expect(tel.T).To(BeNumerically(">", prev))
		prev = tel.T
	}
}

func TestFrequencyMetricNames(t *testing.T) {
	g := NewWithT(t)

	g.Expect(metricName("gain", 0.5)).To(Equal("gain@0.5Hz"))
	g.Expect(metricName("phase", 1.2)).To(Equal("phase@1.2Hz"))
}

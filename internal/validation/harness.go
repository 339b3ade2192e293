// Package validation runs named baseline and validation cases against a
// model, comparing measured telemetry to closed-form expected values.
package validation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

// FieldSpec describes one tunable case input with bounds and a default.
type FieldSpec struct {
	Name     string
	Min, Max float64
	Default  float64
}

// Expected is the closed-form steady state a case is graded against.
// LatAccelG is in units of g.
type Expected struct {
	YawRate   float64
	LatAccelG float64
}

// CaseParams are the resolved input values of one harness run.
type CaseParams map[string]float64

// Definition is a static validation case registration: the harness never
// mutates one after startup.
type Definition struct {
	ID         string
	Fields     []FieldSpec
	Dt         float64
	SampleRate float64            // Hz
	SettleTime float64            // s, discarded before sampling starts
	Duration   float64            // s, total including settle
	Tolerances map[string]float64 // per-channel max-error bound

	ComputeExpected func(v vparam.Vehicle, p CaseParams) Expected
	ModelConfig     func(p CaseParams) (modelID string, params *vdyn.Params, speed float64)
	Input           func(p CaseParams) vdyn.Sampler
}

// Defaults returns the case parameters with every field at its default.
func (d Definition) Defaults() CaseParams {
	p := make(CaseParams, len(d.Fields))
	for _, f := range d.Fields {
		p[f.Name] = f.Default
	}
	return p
}

// ChannelStats are the error statistics of one measured channel against
// its expected value.
type ChannelStats struct {
	RMSE    float64
	MeanErr float64
	MaxErr  float64
}

// Report is the outcome of one validation case run.
type Report struct {
	CaseID   string
	Channels map[string]ChannelStats
	Pass     map[string]bool
	Passed   bool
}

// Run integrates the case's model at fixed dt, discards the settle time,
// samples at the configured rate and computes RMSE / mean / max error of
// yaw rate and lateral acceleration (in g) against the closed-form
// expectation. A channel passes iff its max error stays within tolerance.
func Run(reg *registry.Registry, def Definition, p CaseParams) (*Report, error) {
	if p == nil {
		p = def.Defaults()
	}

	modelID, params, speed := def.ModelConfig(p)
	m, err := reg.Get(modelID)
	if err != nil {
		return nil, err
	}
	mp := m.Defaults()
	if params != nil {
		mp = *params
	}
	if speed != 0 {
		mp.Speed = speed
	}

	expected := def.ComputeExpected(mp.Vehicle, p)
	sampler := def.Input(p)

	sampleEvery := int(1/(def.SampleRate*def.Dt) + 0.5)
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	duration := def.Duration
	if d, ok := p["duration"]; ok && d > 0 {
		duration = d
	}
	steps := int(duration/def.Dt + 0.5)
	x := m.Init(mp)

	var yawErrs, ayErrs []float64
	for i := 0; i < steps; i++ {
		t := float64(i) * def.Dt
		in := sampler(t, modelID, mp)

		x, err = m.Step(x, in, def.Dt, mp)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", def.ID, err)
		}

		if t < def.SettleTime || i%sampleEvery != 0 {
			continue
		}

		tel := m.Outputs(x, mp)
		yawErrs = append(yawErrs, tel.YawRate-expected.YawRate)
		ayErrs = append(ayErrs, tel.LatAccel/mp.Vehicle.Gravity-expected.LatAccelG)
	}

	report := &Report{
		CaseID: def.ID,
		Channels: map[string]ChannelStats{
			"yawRate":  channelStats(yawErrs),
			"latAccel": channelStats(ayErrs),
		},
		Pass:   make(map[string]bool),
		Passed: true,
	}

	for name, stats := range report.Channels {
		tol, ok := def.Tolerances[name]
		if !ok {
			continue
		}
		pass := stats.MaxErr <= tol
		report.Pass[name] = pass
		report.Passed = report.Passed && pass
	}
	return report, nil
}

func channelStats(errs []float64) ChannelStats {
	if len(errs) == 0 {
		return ChannelStats{}
	}
	sumSq := 0.0
	maxAbs := 0.0
	for _, e := range errs {
		sumSq += e * e
		if a := math.Abs(e); a > maxAbs {
			maxAbs = a
		}
	}
	return ChannelStats{
		RMSE:    math.Sqrt(sumSq / float64(len(errs))),
		MeanErr: stat.Mean(errs, nil),
		MaxErr:  maxAbs,
	}
}

package scenario

import (
	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/vdyn"
)

// resolve looks up the model and assembles the run parameters: explicit
// params win over model defaults, and a non-zero speed overrides both.
func resolve(reg *registry.Registry, modelID string, params *vdyn.Params, speed float64) (vdyn.Model, vdyn.Params, error) {
	m, err := reg.Get(modelID)
	if err != nil {
		return nil, vdyn.Params{}, err
	}
	p := m.Defaults()
	if params != nil {
		p = *params
	}
	if speed != 0 {
		p.Speed = speed
	}
	return m, p, nil
}

// inputFunc generates one tick of input. prev is the telemetry of the
// previous tick (zero value on the first), which closed-loop scenarios
// feed into their controller.
type inputFunc func(t float64, prev vdyn.Telemetry) vdyn.Inputs

// drive runs a model at fixed dt for a fixed duration, collecting the
// telemetry series. Step errors abort the run; the partial series
// collected so far is returned alongside the error.
func drive(m vdyn.Model, p vdyn.Params, dt, duration float64, input inputFunc) ([]vdyn.Telemetry, error) {
	steps := int(duration/dt + 0.5)
	series := make([]vdyn.Telemetry, 0, steps)

	x := m.Init(p)
	var prev vdyn.Telemetry

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		in := input(t, prev)

		next, err := m.Step(x, in, dt, p)
		if err != nil {
			return series, &vdyn.StepError{Time: t, Step: i, Wrapped: err}
		}
		x = next

		tel := m.Outputs(x, p)
		tel.T = t + dt
		series = append(series, tel)
		prev = tel
	}
	return series, nil
}

// meanTail averages f over the last fraction of the series (e.g. 0.4 for
// the steady-state window of a skidpad run).
func meanTail(series []vdyn.Telemetry, fraction float64, f func(vdyn.Telemetry) float64) float64 {
	if len(series) == 0 {
		return 0
	}
	start := int(float64(len(series)) * (1 - fraction))
	if start < 0 {
		start = 0
	}
	sum := 0.0
	n := 0
	for _, tel := range series[start:] {
		sum += f(tel)
		n++
	}
	return sum / float64(n)
}

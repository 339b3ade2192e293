// Package vdyn defines the core contracts of the vehicle-dynamics engine.
//
// The package holds the fundamental types shared by every layer:
//
//   - [State]: flat vector holding one model's state
//   - [Model]: dynamics model contract (init, step, outputs)
//   - [Telemetry]: derived per-tick output
//   - [Sampler]: input-generating function of simulation time
//
// # Example
//
//	m, _ := reg.Get("bicycle")
//	p := m.Defaults()
//	x := m.Init(p)
//	x, _ = m.Step(x, vdyn.Inputs{Steer: 0.05}, 0.01, p)
//
// # Thread Safety
//
// Nothing in this package keeps global mutable state. A Model value is
// safe to use from any goroutine as long as each run owns its own State
// and Params (including the optional Rand source).
package vdyn

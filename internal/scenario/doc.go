// Package scenario runs the canonical test manoeuvres and grades the
// simulated response against linear theory.
//
// Four scenarios are implemented: step steer, PID-regulated skidpad,
// sinusoidal frequency sweep, and ramp-to-limit. Each builds its theory
// prediction from the same derived vehicle parameters the model ran
// with, so simulation and theory are always compared apples to apples.
package scenario

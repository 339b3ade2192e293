// Package models implements the concrete vehicle dynamics models.
//
// Two models share the vdyn.Model contract:
//
//   - [Unicycle]: kinematic single-track, pose integration only
//   - [Bicycle]: linear 2-DOF single-track with friction-circle clamping
//
// Both run a fixed-step integrator selected through vdyn.Params and clamp
// the requested step into a per-model stable band, flagging the clamp in
// the returned state.
package models

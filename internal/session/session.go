// Package session drives a model incrementally for real-time consumers.
// It honors the transport message contract: start, pause, resume, reset,
// parameter and scenario updates, and wall-clock speed scaling, emitting
// one {t, state, telemetry} tick per step.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/scenario"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

var (
	ErrNotStarted     = errors.New("session: not started")
	ErrAlreadyRunning = errors.New("session: already running")
)

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// StartRequest carries the start message payload. Params nil means the
// model's defaults; SpeedMultiplier zero means real time.
type StartRequest struct {
	ModelID         string
	Params          *vdyn.Params
	ScenarioID      string
	Overrides       map[string]float64
	Dt              float64
	Seed            int64
	SpeedMultiplier float64
}

// ParamPatch is a sparse parameter update, merged into the live Params
// without resetting simulation state. Nil fields keep the current value.
type ParamPatch struct {
	Speed    *float64
	Mass     *float64
	Iz       *float64
	A        *float64
	B        *float64
	Cf       *float64
	Cr       *float64
	Mu       *float64
	NoiseStd *float64
}

// Tick is the payload emitted on every advance.
type Tick struct {
	T         float64
	State     vdyn.State
	Telemetry vdyn.Telemetry
}

// Session owns one live simulation instance. All methods are safe for
// concurrent use; the transport may tick from a different goroutine than
// the one delivering control messages.
type Session struct {
	reg *registry.Registry

	mu      sync.Mutex
	status  Status
	model   vdyn.Model
	modelID string
	params  vdyn.Params
	sampler vdyn.Sampler
	dt      float64
	speed   float64
	seed    int64
	t       float64
	state   vdyn.State
}

func New(reg *registry.Registry) *Session {
	return &Session{reg: reg, status: StatusIdle, speed: 1}
}

// Start initializes the session and begins ticking.
func (s *Session) Start(req StartRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning {
		return ErrAlreadyRunning
	}

	m, err := s.reg.Get(req.ModelID)
	if err != nil {
		return err
	}
	sampler, err := scenario.SamplerFor(req.ScenarioID, req.Overrides)
	if err != nil {
		return err
	}

	p := m.Defaults()
	if req.Params != nil {
		p = *req.Params
	}
	if req.Seed != 0 {
		p.Rand = rand.New(rand.NewSource(req.Seed))
	}

	dt := req.Dt
	if dt <= 0 {
		dt = 0.01
	}

	s.model = m
	s.modelID = req.ModelID
	s.params = p
	s.sampler = sampler
	s.dt = dt
	s.seed = req.Seed
	s.speed = req.SpeedMultiplier
	if s.speed <= 0 {
		s.speed = 1
	}
	s.t = 0
	s.state = m.Init(p)
	s.status = StatusRunning
	return nil
}

// Tick advances one step and returns the emitted payload. Paused or idle
// sessions do not advance.
func (s *Session) Tick() (Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusIdle {
		return Tick{}, ErrNotStarted
	}
	if s.status == StatusPaused {
		return s.snapshotLocked(), nil
	}

	in := s.sampler(s.t, s.modelID, s.params)
	next, err := s.model.Step(s.state, in, s.dt, s.params)
	if err != nil {
		return Tick{}, fmt.Errorf("session: step at t=%.4f: %w", s.t, err)
	}
	s.state = next
	s.t += s.dt
	return s.snapshotLocked(), nil
}

// Pause halts ticking; the held state survives until Resume or Reset.
func (s *Session) Pause() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return s.status, ErrNotStarted
	}
	s.status = StatusPaused
	return s.status, nil
}

// Resume restarts ticking from the held state.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return ErrNotStarted
	}
	s.status = StatusRunning
	return nil
}

// Reset reinitializes model state and rewinds time to zero. Parameters,
// scenario and speed carry over; a seeded noise stream restarts.
func (s *Session) Reset() (Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return Tick{}, ErrNotStarted
	}
	if s.seed != 0 {
		s.params.Rand = rand.New(rand.NewSource(s.seed))
	}
	s.t = 0
	s.state = s.model.Init(s.params)
	return s.snapshotLocked(), nil
}

// UpdateParams merges a sparse patch into the live parameters without
// resetting simulation state. Vehicle changes re-validate geometry.
func (s *Session) UpdateParams(patch ParamPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return ErrNotStarted
	}

	v := s.params.Vehicle
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&v.Mass, patch.Mass)
	apply(&v.Iz, patch.Iz)
	apply(&v.A, patch.A)
	apply(&v.B, patch.B)
	apply(&v.Cf, patch.Cf)
	apply(&v.Cr, patch.Cr)
	apply(&v.Mu, patch.Mu)

	checked, err := vparam.New(v)
	if err != nil {
		return err
	}
	s.params.Vehicle = checked
	apply(&s.params.Speed, patch.Speed)
	apply(&s.params.NoiseStd, patch.NoiseStd)
	return nil
}

// UpdateScenario swaps the input sampler in place; simulation state and
// time are untouched.
func (s *Session) UpdateScenario(scenarioID string, overrides map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return ErrNotStarted
	}
	sampler, err := scenario.SamplerFor(scenarioID, overrides)
	if err != nil {
		return err
	}
	s.sampler = sampler
	return nil
}

// SetSpeed rescales the wall-clock-to-simulation-time ratio. Non-positive
// multipliers are rejected.
func (s *Session) SetSpeed(multiplier float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multiplier <= 0 {
		return fmt.Errorf("session: speed multiplier must be positive, got %f", multiplier)
	}
	s.speed = multiplier
	return nil
}

// SimInterval is the wall-clock pacing between ticks at the current
// speed multiplier.
func (s *Session) SimInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.dt / s.speed * float64(time.Second))
}

// Status reports the current lifecycle phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns the current tick payload without advancing.
func (s *Session) Snapshot() (Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle {
		return Tick{}, ErrNotStarted
	}
	return s.snapshotLocked(), nil
}

func (s *Session) snapshotLocked() Tick {
	return Tick{
		T:         s.t,
		State:     s.state.Clone(),
		Telemetry: telemetryAt(s.model, s.state, s.t, s.params),
	}
}

func telemetryAt(m vdyn.Model, x vdyn.State, t float64, p vdyn.Params) vdyn.Telemetry {
	tel := m.Outputs(x, p)
	tel.T = t
	return tel
}

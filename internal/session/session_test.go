package session

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/vehlab/internal/models"
	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/scenario"
)

func startStepSteer(t *testing.T) *Session {
	t.Helper()
	s := New(registry.Default())
	err := s.Start(StartRequest{
		ModelID:    models.ModelBicycle,
		ScenarioID: scenario.StepSteer,
		Dt:         0.01,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStartAndTick(t *testing.T) {
	s := startStepSteer(t)

	if got := s.Status(); got != StatusRunning {
		t.Fatalf("status = %q, want running", got)
	}

	tick, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if math.Abs(tick.T-0.01) > 1e-12 {
		t.Errorf("t = %v, want 0.01", tick.T)
	}
	if len(tick.State) == 0 {
		t.Error("tick carries no state")
	}
	if tick.Telemetry.T != tick.T {
		t.Errorf("telemetry time %v != tick time %v", tick.Telemetry.T, tick.T)
	}
}

func TestStartUnknownModel(t *testing.T) {
	s := New(registry.Default())
	err := s.Start(StartRequest{ModelID: "hovercraft", ScenarioID: scenario.StepSteer})
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestTickBeforeStart(t *testing.T) {
	s := New(registry.Default())
	if _, err := s.Tick(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("err = %v, want ErrNotStarted", err)
	}
}

func TestPauseHoldsState(t *testing.T) {
	s := startStepSteer(t)
	for i := 0; i < 10; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	status, err := s.Pause()
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if status != StatusPaused {
		t.Fatalf("status = %q, want paused", status)
	}

	a, _ := s.Tick()
	b, _ := s.Tick()
	if a.T != b.T {
		t.Errorf("paused session advanced: %v -> %v", a.T, b.T)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	c, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick after resume: %v", err)
	}
	if c.T <= b.T {
		t.Errorf("resumed session did not advance: %v -> %v", b.T, c.T)
	}
}

func TestResetRewindsToZero(t *testing.T) {
	s := startStepSteer(t)
	for i := 0; i < 50; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	tick, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if tick.T != 0 {
		t.Errorf("t after reset = %v, want 0", tick.T)
	}
	for _, v := range tick.State {
		if v != 0 {
			t.Errorf("state after reset not zeroed: %v", tick.State)
			break
		}
	}
}

func TestUpdateParamsKeepsState(t *testing.T) {
	s := startStepSteer(t)
	for i := 0; i < 200; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	before, _ := s.Snapshot()

	speed := 25.0
	if err := s.UpdateParams(ParamPatch{Speed: &speed}); err != nil {
		t.Fatalf("UpdateParams: %v", err)
	}

	after, _ := s.Snapshot()
	if after.T != before.T {
		t.Errorf("param update reset time: %v -> %v", before.T, after.T)
	}
	for i := range before.State {
		if before.State[i] != after.State[i] {
			t.Errorf("param update changed state at index %d", i)
		}
	}
}

func TestUpdateParamsRejectsBadGeometry(t *testing.T) {
	s := startStepSteer(t)
	bad := -1.2
	if err := s.UpdateParams(ParamPatch{A: &bad}); err == nil {
		t.Fatal("expected geometry error")
	}
}

func TestUpdateScenarioSwapsSampler(t *testing.T) {
	s := startStepSteer(t)
	if err := s.UpdateScenario(scenario.RampToLimit, nil); err != nil {
		t.Fatalf("UpdateScenario: %v", err)
	}
	if err := s.UpdateScenario("drift_circle", nil); !errors.Is(err, scenario.ErrUnknownScenario) {
		t.Fatalf("err = %v, want ErrUnknownScenario", err)
	}
}

func TestSetSpeedScalesInterval(t *testing.T) {
	s := startStepSteer(t)

	base := s.SimInterval()
	if base != 10*time.Millisecond {
		t.Fatalf("interval = %v, want 10ms", base)
	}

	if err := s.SetSpeed(2); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	if got := s.SimInterval(); got != 5*time.Millisecond {
		t.Errorf("interval at 2x = %v, want 5ms", got)
	}

	if err := s.SetSpeed(0); err == nil {
		t.Error("expected error for zero multiplier")
	}
}

func TestSeededNoiseReproducible(t *testing.T) {
	run := func() []float64 {
		s := New(registry.Default())
		err := s.Start(StartRequest{
			ModelID:    models.ModelUnicycle,
			ScenarioID: scenario.Skidpad,
			Dt:         0.01,
			Seed:       42,
		})
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		noise := 0.02
		if err := s.UpdateParams(ParamPatch{NoiseStd: &noise}); err != nil {
			t.Fatalf("UpdateParams: %v", err)
		}
		var out []float64
		for i := 0; i < 100; i++ {
			tick, err := s.Tick()
			if err != nil {
				t.Fatalf("Tick: %v", err)
			}
			out = append(out, tick.Telemetry.YawRate)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded runs diverge at sample %d: %v != %v", i, a[i], b[i])
		}
	}
}

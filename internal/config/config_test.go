package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "bicycle" {
		t.Errorf("model = %q, want bicycle", cfg.Model)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("dt = %v, want %v", cfg.Dt, DefaultDt)
	}
	if _, err := cfg.VehicleParams(); err != nil {
		t.Errorf("default vehicle rejected: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "skidpad"
	cfg.Speed = 12
	cfg.Seed = 7
	cfg.Overrides = map[string]float64{"radius": 25}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Scenario != "skidpad" || loaded.Speed != 12 || loaded.Seed != 7 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Overrides["radius"] != 25 {
		t.Errorf("overrides = %v", loaded.Overrides)
	}
	if loaded.Vehicle.Mass != 1500 {
		t.Errorf("vehicle mass = %v, want 1500", loaded.Vehicle.Mass)
	}
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "model: unicycle\nspeed: 8\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "unicycle" || cfg.Speed != 8 {
		t.Errorf("overridden fields lost: %+v", cfg)
	}
	if cfg.Dt != DefaultDt || cfg.Vehicle.Mass != 1500 {
		t.Errorf("omitted fields did not default: %+v", cfg)
	}
}

func TestSimParamsSeedsNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.NoiseStd = 0.01

	p, err := cfg.SimParams()
	if err != nil {
		t.Fatalf("SimParams: %v", err)
	}
	if p.Rand == nil {
		t.Error("seeded config produced nil noise source")
	}
	if p.NoiseStd != 0.01 {
		t.Errorf("noise std = %v", p.NoiseStd)
	}
}

func TestSimParamsRejectsBadGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vehicle.A = -2
	cfg.Vehicle.B = 1
	if _, err := cfg.SimParams(); err == nil {
		t.Error("expected geometry error")
	}
}

func TestPresets(t *testing.T) {
	for scenario, byName := range Presets {
		for name, cfg := range byName {
			if cfg.Scenario != scenario {
				t.Errorf("preset %s/%s declares scenario %q", scenario, name, cfg.Scenario)
			}
			if _, err := cfg.VehicleParams(); err != nil {
				t.Errorf("preset %s/%s vehicle rejected: %v", scenario, name, err)
			}
			if cfg.Dt <= 0 || cfg.Duration <= 0 {
				t.Errorf("preset %s/%s has non-positive timing", scenario, name)
			}
		}
	}

	if GetPreset("skidpad", "tight") == nil {
		t.Error("skidpad/tight preset missing")
	}
	if GetPreset("skidpad", "nope") != nil {
		t.Error("unexpected preset hit")
	}
	if names := ListPresets("step_steer"); len(names) != 3 {
		t.Errorf("step_steer presets = %v", names)
	}
}

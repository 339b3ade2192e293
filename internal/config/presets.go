package config

// Presets are ready-made vehicle and scenario pairings, keyed by scenario
// then preset name.
var Presets = map[string]map[string]*Config{
	"step_steer": {
		"reference": {
			Model: "bicycle", Scenario: "step_steer", Dt: 0.01, Duration: 8.0, Speed: 20,
			Vehicle: referenceVehicle,
		},
		"compact": {
			Model: "bicycle", Scenario: "step_steer", Dt: 0.01, Duration: 8.0, Speed: 18,
			Vehicle: compactVehicle,
		},
		"sports": {
			Model: "bicycle", Scenario: "step_steer", Dt: 0.005, Duration: 8.0, Speed: 28,
			Vehicle: sportsVehicle,
		},
	},
	"skidpad": {
		"reference": {
			Model: "bicycle", Scenario: "skidpad", Dt: 0.01, Duration: 20.0, Speed: 15,
			Vehicle:   referenceVehicle,
			Overrides: map[string]float64{"radius": 30},
		},
		"tight": {
			Model: "bicycle", Scenario: "skidpad", Dt: 0.01, Duration: 20.0, Speed: 10,
			Vehicle:   referenceVehicle,
			Overrides: map[string]float64{"radius": 15},
		},
		"kinematic": {
			Model: "unicycle", Scenario: "skidpad", Dt: 0.01, Duration: 15.0, Speed: 10,
			Vehicle:   referenceVehicle,
			Overrides: map[string]float64{"radius": 20},
		},
	},
	"frequency_response": {
		"reference": {
			Model: "bicycle", Scenario: "frequency_response", Dt: 0.01, Duration: 10.0, Speed: 18,
			Vehicle: referenceVehicle,
		},
		"sports": {
			Model: "bicycle", Scenario: "frequency_response", Dt: 0.005, Duration: 10.0, Speed: 30,
			Vehicle: sportsVehicle,
		},
	},
	"ramp_to_limit": {
		"reference": {
			Model: "bicycle", Scenario: "ramp_to_limit", Dt: 0.01, Duration: 15.0, Speed: 20,
			Vehicle: referenceVehicle,
		},
		"low_grip": {
			Model: "bicycle", Scenario: "ramp_to_limit", Dt: 0.01, Duration: 15.0, Speed: 20,
			Vehicle: lowGripVehicle,
		},
	},
}

var referenceVehicle = VehicleConfig{
	Mass: 1500, Iz: 2250,
	A: 1.2, B: 1.6,
	Cf: 80000, Cr: 80000,
	Mu: 1.0, Track: 1.6, HCg: 0.55,
}

var compactVehicle = VehicleConfig{
	Mass: 1100, Iz: 1500,
	A: 1.0, B: 1.4,
	Cf: 65000, Cr: 65000,
	Mu: 1.0, Track: 1.5, HCg: 0.52,
}

var sportsVehicle = VehicleConfig{
	Mass: 1350, Iz: 1900,
	A: 1.25, B: 1.35,
	Cf: 110000, Cr: 120000,
	Mu: 1.1, Track: 1.62, HCg: 0.45,
}

var lowGripVehicle = VehicleConfig{
	Mass: 1500, Iz: 2250,
	A: 1.2, B: 1.6,
	Cf: 80000, Cr: 80000,
	Mu: 0.5, Track: 1.6, HCg: 0.55,
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}

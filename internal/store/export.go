package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/vehlab/internal/scenario"
)

// ExportData is the canonical result export shape consumed by external
// tooling: the full telemetry series, theory bundle, metrics, grades and
// flags of one run.
type ExportData struct {
	Scenario  string                `json:"scenario"`
	Model     string                `json:"model"`
	Steps     int                   `json:"steps"`
	Telemetry []exportSample        `json:"telemetry"`
	Theory    scenario.TheoryBundle `json:"theory"`
	Metrics   map[string]float64    `json:"metrics"`
	Grades    map[string]bool       `json:"grades"`
	Flags     map[string]bool       `json:"flags"`
}

type exportSample struct {
	T        float64            `json:"t"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Heading  float64            `json:"heading"`
	YawRate  float64            `json:"yawRate"`
	LatAccel float64            `json:"latAccel"`
	Sideslip float64            `json:"sideslip"`
	Notes    map[string]float64 `json:"notes,omitempty"`
}

// ExportJSON writes one scenario result to path as indented JSON.
func ExportJSON(path string, result *scenario.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encodeResult(file, result)
}

// ExportJSONStdout writes one scenario result to standard output.
func ExportJSONStdout(result *scenario.Result) error {
	return encodeResult(os.Stdout, result)
}

func encodeResult(w io.Writer, result *scenario.Result) error {
	data := ExportData{
		Scenario:  result.Scenario,
		Model:     result.Model,
		Steps:     len(result.Telemetry),
		Telemetry: make([]exportSample, len(result.Telemetry)),
		Theory:    result.Theory,
		Metrics:   result.Metrics,
		Grades:    result.Grades,
		Flags:     result.Flags,
	}
	for i, tel := range result.Telemetry {
		data.Telemetry[i] = exportSample{
			T: tel.T, X: tel.X, Y: tel.Y, Heading: tel.Heading,
			YawRate: tel.YawRate, LatAccel: tel.LatAccel, Sideslip: tel.Sideslip,
			Notes: tel.Notes,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

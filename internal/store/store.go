// Package store persists scenario runs as one directory per run: a
// metadata.json with metrics, grades and flags, plus a telemetry.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/vehlab/internal/scenario"
	"github.com/san-kum/vehlab/internal/vdyn"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
	Grades    map[string]bool    `json:"grades"`
	Flags     map[string]bool    `json:"flags"`
}

// Save writes one run directory and returns its id.
func (s *Store) Save(result *scenario.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", result.Scenario, result.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  result.Scenario,
		Model:     result.Model,
		Timestamp: time.Now(),
		Metrics:   result.Metrics,
		Grades:    result.Grades,
		Flags:     result.Flags,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTelemetryCSV(csvFile, result.Telemetry); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteTelemetryCSV streams a telemetry series as CSV. Note columns come
// from the first sample, sorted for a stable header.
func WriteTelemetryCSV(f *os.File, series []vdyn.Telemetry) error {
	w := csv.NewWriter(f)
	defer w.Flush()

	if len(series) == 0 {
		return w.Write(telemetryHeader(nil))
	}

	noteKeys := make([]string, 0, len(series[0].Notes))
	for k := range series[0].Notes {
		noteKeys = append(noteKeys, k)
	}
	sort.Strings(noteKeys)

	if err := w.Write(telemetryHeader(noteKeys)); err != nil {
		return err
	}

	for _, tel := range series {
		row := []string{
			ff(tel.T), ff(tel.X), ff(tel.Y), ff(tel.Heading),
			ff(tel.YawRate), ff(tel.LatAccel), ff(tel.Sideslip),
		}
		for _, k := range noteKeys {
			row = append(row, ff(tel.Notes[k]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func telemetryHeader(noteKeys []string) []string {
	h := []string{"time", "x", "y", "heading", "yawRate", "latAccel", "sideslip"}
	return append(h, noteKeys...)
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTelemetry reads back the stored series. Note columns round-trip
// into the Notes map.
func (s *Store) LoadTelemetry(runID string) ([]vdyn.Telemetry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []vdyn.Telemetry{}, nil
	}

	header := records[0]
	fixed := len(telemetryHeader(nil))
	series := make([]vdyn.Telemetry, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < fixed {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}

		tel := vdyn.Telemetry{
			T: vals[0], X: vals[1], Y: vals[2], Heading: vals[3],
			YawRate: vals[4], LatAccel: vals[5], Sideslip: vals[6],
		}
		if len(record) > fixed {
			tel.Notes = make(map[string]float64, len(record)-fixed)
			for i := fixed; i < len(record) && i < len(header); i++ {
				tel.Notes[header[i]] = vals[i]
			}
		}
		series = append(series, tel)
	}
	return series, nil
}

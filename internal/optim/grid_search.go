// Package optim tunes scenario controllers by exhaustive parameter search.
package optim

import (
	"errors"
	"math"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/scenario"
)

var ErrNoResult = errors.New("optim: no candidate produced a score")

// Score evaluates one parameter combination; lower is better. Returning
// an error skips the combination.
type Score func(params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search exhaustively scores every combination and returns the best one.
func (g *GridSearch) Search(score Score) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(0, make(map[string]float64), score, &best, &bestParams)

	if bestParams == nil {
		return nil, 0, ErrNoResult
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, score Score, best *float64, bestParams *map[string]float64) {
	if depth == len(g.paramNames) {
		val, err := score(current)
		if err != nil || math.IsNaN(val) {
			return
		}
		if val < *best {
			*best = val
			picked := make(map[string]float64, len(current))
			for k, v := range current {
				picked[k] = v
			}
			*bestParams = picked
		}
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.searchRecursive(depth+1, current, score, best, bestParams)
	}
	delete(current, name)
}

// TuneSkidpadPID grid-searches the proportional and integral gains of the
// skidpad yaw-rate controller, scoring each candidate by its steady-state
// yaw-rate error. The base config's model, speed and radius are held fixed.
func TuneSkidpadPID(reg *registry.Registry, base scenario.SkidpadConfig, kpRange, kiRange []float64) (scenario.PIDGains, float64, error) {
	search := NewGridSearch([]string{"kp", "ki"}, [][]float64{kpRange, kiRange})

	bestParams, bestScore, err := search.Search(func(params map[string]float64) (float64, error) {
		cfg := base
		cfg.PID = scenario.PIDGains{
			Kp:     params["kp"],
			Ki:     params["ki"],
			OutMax: scenario.DefaultPIDGains().OutMax,
		}
		result, err := scenario.RunSkidpad(reg, cfg)
		if err != nil {
			return 0, err
		}
		return math.Abs(result.Metrics["yawRate"]), nil
	})
	if err != nil {
		return scenario.PIDGains{}, 0, err
	}

	gains := scenario.PIDGains{
		Kp:     bestParams["kp"],
		Ki:     bestParams["ki"],
		OutMax: scenario.DefaultPIDGains().OutMax,
	}
	return gains, bestScore, nil
}

package optim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/scenario"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch(
		[]string{"a", "b"},
		[][]float64{{-1, 0, 1, 2}, {-2, 0, 3}},
	)

	// paraboloid with minimum at a=1, b=0
	best, score, err := g.Search(func(p map[string]float64) (float64, error) {
		da, db := p["a"]-1, p["b"]
		return da*da + db*db, nil
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best["a"] != 1 || best["b"] != 0 {
		t.Errorf("best = %v", best)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	best, _, err := g.Search(func(p map[string]float64) (float64, error) {
		if p["x"] == 1 {
			return 0, errors.New("unstable")
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best["x"] != 2 {
		t.Errorf("best = %v, want x=2", best)
	}
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	_, _, err := g.Search(func(map[string]float64) (float64, error) {
		return 0, errors.New("nope")
	})
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("err = %v, want ErrNoResult", err)
	}
}

func TestTuneSkidpadPID(t *testing.T) {
	if testing.Short() {
		t.Skip("runs many closed-loop simulations")
	}

	base := scenario.SkidpadConfig{Speed: 15, Radius: 30, Duration: 12}
	gains, score, err := TuneSkidpadPID(registry.Default(), base,
		[]float64{0.1, 0.3}, []float64{0.3, 0.6})
	if err != nil {
		t.Fatalf("TuneSkidpadPID: %v", err)
	}

	if gains.Kp == 0 && gains.Ki == 0 {
		t.Error("no gains selected")
	}
	if math.IsInf(score, 1) || score > 0.2 {
		t.Errorf("best yaw-rate error = %v, expected a converged controller", score)
	}
}

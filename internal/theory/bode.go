package theory

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/san-kum/vehlab/internal/linalg"
)

// BodePoint holds magnitude and phase of the yaw-rate and
// lateral-acceleration responses at one frequency.
type BodePoint struct {
	FreqHz   float64
	YawGain  float64 // |r/delta|, (rad/s)/rad
	YawPhase float64 // rad
	AyGain   float64 // |ay/delta|, (m/s^2)/rad
	AyPhase  float64 // rad
}

// FrequencyResponse evaluates the transfer function at s = jw for each
// requested frequency by solving (sI - A) x = B over complex scalars.
// Lateral acceleration is reconstructed as ay = s*vy + vx*r.
func (s System) FrequencyResponse(freqsHz []float64) ([]BodePoint, error) {
	points := make([]BodePoint, 0, len(freqsHz))

	for _, f := range freqsHz {
		w := 2 * math.Pi * f
		jw := complex(0, w)

		m := linalg.CMat2{
			A11: jw - complex(s.A.A11, 0), A12: complex(-s.A.A12, 0),
			A21: complex(-s.A.A21, 0), A22: jw - complex(s.A.A22, 0),
		}
		b := linalg.CVec2{X: complex(s.B.X, 0), Y: complex(s.B.Y, 0)}

		x, err := m.SolveC(b)
		if err != nil {
			return nil, errors.Join(ErrSingularSystem, err)
		}

		vy, r := x.X, x.Y
		ay := jw*vy + complex(s.Vx, 0)*r

		points = append(points, BodePoint{
			FreqHz:   f,
			YawGain:  cmplx.Abs(r),
			YawPhase: cmplx.Phase(r),
			AyGain:   cmplx.Abs(ay),
			AyPhase:  cmplx.Phase(ay),
		})
	}
	return points, nil
}

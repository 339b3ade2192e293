package theory

import (
	"math"

	"github.com/san-kum/vehlab/internal/linalg"
)

// discriminant threshold below which eigenvalues are treated as repeated
const repeatedEigTol = 1e-9

// Expm evaluates the matrix exponential expm(A*t) of a 2x2 matrix in
// closed form, keyed on the discriminant of the characteristic equation.
//
// Writing A = mu*I + N with mu = trace/2, N*N = d*I where
// d = trace^2/4 - det:
//
//	d > 0: expm = e^(mu t) (cosh(s t) I + sinh(s t)/s N), s = sqrt(d)
//	d = 0: expm = e^(mu t) (I + t N)
//	d < 0: expm = e^(mu t) (cos(w t) I + sin(w t)/w N),  w = sqrt(-d)
func Expm(a linalg.Mat2, t float64) linalg.Mat2 {
	mu := a.Trace() / 2
	d := mu*mu - a.Det()

	id := linalg.Identity()
	n := a.Sub(id.Scale(mu))
	emu := math.Exp(mu * t)

	switch {
	case d > repeatedEigTol:
		// two distinct real eigenvalues
		s := math.Sqrt(d)
		return id.Scale(math.Cosh(s * t)).Add(n.Scale(math.Sinh(s*t) / s)).Scale(emu)
	case d < -repeatedEigTol:
		// complex conjugate pair
		w := math.Sqrt(-d)
		return id.Scale(math.Cos(w * t)).Add(n.Scale(math.Sin(w*t) / w)).Scale(emu)
	default:
		// repeated eigenvalue
		return id.Add(n.Scale(t)).Scale(emu)
	}
}

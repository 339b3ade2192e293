// Package analysis provides frequency-domain post-processing of recorded
// telemetry series.
package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrTooShort = errors.New("analysis: series too short")

// fft is a radix-2 Cooley-Tukey transform. Callers pad to a power of two.
func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		return data
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the one-sided magnitude spectrum of a real series.
// The input is zero-padded to the next power of two, so any length works.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]complex128, n)
	for i, v := range data {
		padded[i] = complex(v, 0)
	}

	out := fft(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return ps
}

// Spectrum is the result of analysing one telemetry channel sampled at a
// fixed timestep.
type Spectrum struct {
	Power       []float64 // magnitude per bin, DC first
	BinHz       float64   // frequency resolution
	DominantHz  float64   // peak bin, DC excluded
	DominantMag float64
}

// Analyze computes the power spectrum of a fixed-rate series and locates
// the dominant non-DC frequency.
func Analyze(data []float64, dt float64) (Spectrum, error) {
	if len(data) < 4 || dt <= 0 {
		return Spectrum{}, ErrTooShort
	}

	ps := PowerSpectrum(data)

	// padded length is 2*len(ps)
	binHz := 1.0 / (dt * float64(2*len(ps)))

	peakIdx, peakMag := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peakMag {
			peakMag = ps[i]
			peakIdx = i
		}
	}

	return Spectrum{
		Power:       ps,
		BinHz:       binHz,
		DominantHz:  float64(peakIdx) * binHz,
		DominantMag: peakMag,
	}, nil
}

// Package analysis examines recorded flight traces for oscillatory modes.
// The longitudinal dynamics of a conventional airframe show two of them, a
// fast short-period and a slow phugoid, and both leave a clear signature in
// the pitch and airspeed series of a hands-off run.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2 decimation. The
// input is zero-padded to the next power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)
	return fft(padded)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
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

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the single-sided magnitude spectrum of a series
// with its mean removed, so the DC bin does not swamp the modes.
func PowerSpectrum(data []float64) []float64 {
	detrended := make([]float64, len(data))
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}
	for i, v := range data {
		detrended[i] = v - mean
	}

	f := FFT(detrended)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz for a
// series sampled every dt seconds, and zero for a series too short to
// resolve one.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)
	n := nextPow2(len(data))

	best, bestMag := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestMag {
			best, bestMag = i, ps[i]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) / (float64(n) * dt)
}

package analysis

import "math"

// Mode characterizes one oscillation extracted from a trace.
type Mode struct {
	Frequency    float64 // Hz
	Period       float64 // s, zero when no oscillation found
	DampingRatio float64 // from logarithmic decrement, NaN when undetermined
}

// IdentifyMode estimates the dominant oscillatory mode of a series sampled
// every dt seconds. The frequency comes from the power spectrum and the
// damping ratio from the logarithmic decrement between successive peaks of
// the mean-removed series.
func IdentifyMode(data []float64, dt float64) Mode {
	freq := DominantFrequency(data, dt)
	m := Mode{Frequency: freq, DampingRatio: math.NaN()}
	if freq > 0 {
		m.Period = 1 / freq
	}

	peaks := findPeaks(data)
	if len(peaks) >= 2 {
		if zeta, ok := logDecrement(peaks); ok {
			m.DampingRatio = zeta
		}
	}
	return m
}

// findPeaks returns the local maxima amplitudes of the mean-removed series,
// in order of occurrence.
func findPeaks(data []float64) []float64 {
	if len(data) < 3 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	var peaks []float64
	for i := 1; i < len(data)-1; i++ {
		v := data[i] - mean
		if v > 0 && v > data[i-1]-mean && v >= data[i+1]-mean {
			peaks = append(peaks, v)
		}
	}
	return peaks
}

// logDecrement converts the amplitude ratio of the first and last peak into
// a damping ratio. Growing oscillations give a negative ratio.
func logDecrement(peaks []float64) (float64, bool) {
	first, last := peaks[0], peaks[len(peaks)-1]
	if first <= 0 || last <= 0 {
		return 0, false
	}
	n := float64(len(peaks) - 1)
	delta := math.Log(first/last) / n
	zeta := delta / math.Sqrt(4*math.Pi*math.Pi+delta*delta)
	return zeta, true
}

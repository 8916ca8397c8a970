package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT zero-pads data to the next power of two before transforming.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)
	return fft.FFTReal(padded)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the lower half of the spectrum.
// The mean is removed first so bin 0 does not swamp everything else.
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(detrend(data))
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin for samples taken every dt seconds.
func DominantFrequency(samples []float64, dt float64) float64 {
	if len(samples) < 2 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(samples)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] || best == 0 {
			best = i
		}
	}
	if best == 0 {
		return 0
	}
	n := nextPow2(len(samples))
	return float64(best) / (float64(n) * dt)
}

func detrend(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

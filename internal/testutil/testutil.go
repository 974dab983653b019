// Package testutil provides reusable helpers for the audio pipeline tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance   = 1e-9
	MagnitudeTolerance = 1e-2
	SampleTolerance    = 2.0 / 32768.0 // one quantization step of slack each way
)

// Sine returns n samples of a sinusoid at the given frequency and sample
// rate with the given linear amplitude.
func Sine(frequency, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2.0*math.Pi*frequency*float64(i)/sampleRate)
	}
	return out
}

// SineInt16 is Sine quantized to int16 samples.
func SineInt16(frequency, sampleRate, amplitude float64, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		v := amplitude * math.Sin(2.0*math.Pi*frequency*float64(i)/sampleRate)
		out[i] = int16(v * 32767.0)
	}
	return out
}

// NoiseInt16 returns n samples of deterministic pseudo-random broadband
// noise with the given linear amplitude.
func NoiseInt16(seed int64, amplitude float64, n int) []int16 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16((2.0*rng.Float64() - 1.0) * amplitude * 32767.0)
	}
	return out
}

// RMS returns the root-mean-square level of the samples.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [minVal, maxVal].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertFloatsClose verifies two float64 slices match element-wise within
// tol. A tolerance of zero demands exact equality.
func AssertFloatsClose(t *testing.T, expected, actual []float64, tol float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if math.Abs(expected[i]-actual[i]) > tol {
			return assert.Fail(t, "sample mismatch",
				"sample %d: expected %f, got %f (tol %f)",
				i, expected[i], actual[i], tol)
		}
	}
	return true
}

// AssertSamplesClose verifies two int16 sample slices match within tol
// (normalized amplitude).
func AssertSamplesClose(t *testing.T, expected, actual []int16, tol float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		diff := math.Abs(float64(expected[i])-float64(actual[i])) / 32768.0
		if diff > tol {
			return assert.Fail(t, "sample mismatch",
				"sample %d: expected %d, got %d (diff %f > tol %f)",
				i, expected[i], actual[i], diff, tol)
		}
	}
	return true
}

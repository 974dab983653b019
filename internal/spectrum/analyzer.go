// Package spectrum provides the FFT magnitude analysis feeding the
// visualization collaborator.
package spectrum

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// DefaultFFTSize is the analyzer size used by the processing engine.
const DefaultFFTSize = 512

const invSampleScale = 1.0 / 32768.0

// Analyzer errors.
var (
	// ErrNotReady indicates Compute was called before the sample buffer
	// filled up.
	ErrNotReady = errors.New("spectrum: buffer not full")

	// ErrInvalidSize indicates the requested FFT size is not a power of two.
	ErrInvalidSize = errors.New("spectrum: size must be a power of two")
)

// Analyzer accumulates normalized samples into a fixed power-of-two buffer
// and computes half-spectrum magnitudes on demand.
//
// Analyzer is not safe for concurrent use; the processing engine owns it
// and feeds it from the audio thread only.
type Analyzer struct {
	size int
	buf  []float64
	pos  int

	// Scratch for the transform
	freq []complex128
	mags []float64
}

// NewAnalyzer creates an analyzer for the given FFT size. The size must be
// a power of two of at least 2.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	return &Analyzer{
		size: size,
		buf:  make([]float64, size),
		freq: make([]complex128, size),
		mags: make([]float64, size/2),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// AddSamples appends normalized samples to the internal buffer until it is
// full. Samples beyond the buffer capacity are dropped; the next cycle
// starts after Compute drains the buffer.
func (a *Analyzer) AddSamples(samples []int16) {
	room := a.size - a.pos
	if room <= 0 {
		return
	}
	if len(samples) > room {
		samples = samples[:room]
	}

	dst := a.buf[a.pos : a.pos+len(samples)]
	for i, s := range samples {
		dst[i] = float64(s)
	}
	f64.Scale(dst, dst, invSampleScale)
	a.pos += len(samples)
}

// IsReady reports whether a full buffer of samples has accumulated.
func (a *Analyzer) IsReady() bool {
	return a.pos >= a.size
}

// Compute transforms the accumulated buffer and returns the magnitudes of
// the first half of the bins (the second half mirrors it for real input).
// The buffer is reset for the next accumulation cycle. The returned slice
// is reused by the next Compute call; callers that hold onto it must copy.
func (a *Analyzer) Compute() ([]float64, error) {
	if !a.IsReady() {
		return nil, ErrNotReady
	}

	for i, v := range a.buf {
		a.freq[i] = complex(v, 0)
	}
	out := fft(a.freq)

	half := a.size / 2
	for i := 0; i < half; i++ {
		re := real(out[i])
		im := imag(out[i])
		a.mags[i] = hypot(re, im)
	}

	a.pos = 0
	return a.mags, nil
}

// FrequencyForBin maps a half-spectrum bin index to its center frequency
// in Hz for the given sample rate.
func (a *Analyzer) FrequencyForBin(bin int, sampleRate float64) float64 {
	halfBins := a.size / 2
	return float64(bin) * sampleRate / float64(2*halfBins)
}

// DominantBin returns the index of the largest magnitude. It returns -1
// for an empty spectrum.
func DominantBin(mags []float64) int {
	if len(mags) == 0 {
		return -1
	}
	return floats.MaxIdx(mags)
}

// fft is a recursive divide-and-conquer Cooley-Tukey transform. It works
// for any power-of-two length; the base case returns the single-element
// input unchanged.
func fft(x []complex128) []complex128 {
	n := len(x)
	if n == 1 {
		return []complex128{x[0]}
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	evenOut := fft(even)
	oddOut := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		t := twiddle(k, n) * oddOut[k]
		out[k] = evenOut[k] + t
		out[k+n/2] = evenOut[k] - t
	}
	return out
}

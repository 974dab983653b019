// Package equalizer implements a parametric equalizer as a cascade of
// second-order IIR (biquad) sections with coefficients derived from
// Robert Bristow-Johnson's audio EQ cookbook.
//
// The package supports the following filter responses:
//
//   - Peaking
//   - Low-pass
//   - High-pass
//   - Band-pass
//   - Notch (band-reject)
//   - Low-shelf
//   - High-shelf
package equalizer

import (
	"fmt"
	"math"
)

// FilterType identifies the response of a biquad section.
type FilterType int

// Supported filter responses. The set is closed: coefficient derivation
// switches exhaustively over these values.
const (
	Peaking FilterType = iota
	LowPass
	HighPass
	BandPass
	Notch
	LowShelf
	HighShelf
)

// String returns the filter type name.
func (ft FilterType) String() string {
	switch ft {
	case Peaking:
		return "peaking"
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	case BandPass:
		return "bandpass"
	case Notch:
		return "notch"
	case LowShelf:
		return "lowshelf"
	case HighShelf:
		return "highshelf"
	default:
		return "unknown"
	}
}

// ParseFilterType is the inverse of [FilterType.String].
func ParseFilterType(s string) (FilterType, error) {
	switch s {
	case "peaking":
		return Peaking, nil
	case "lowpass":
		return LowPass, nil
	case "highpass":
		return HighPass, nil
	case "bandpass":
		return BandPass, nil
	case "notch":
		return Notch, nil
	case "lowshelf":
		return LowShelf, nil
	case "highshelf":
		return HighShelf, nil
	default:
		return 0, fmt.Errorf("unknown filter type %q", s)
	}
}

// Parameter ranges. Out-of-range values are clamped, never rejected.
const (
	MinFrequency = 20.0
	MaxFrequency = 20000.0
	MinGainDB    = -20.0
	MaxGainDB    = 20.0
	MinQ         = 0.1
	MaxQ         = 10.0
)

// Band holds the user-facing parameters of one equalizer band.
type Band struct {
	Frequency float64 // Center/cutoff frequency in Hz (20-20000)
	Gain      float64 // Gain in dB (-20 to +20); ignored by LP/HP/BP/Notch
	Q         float64 // Resonance/bandwidth (0.1-10)
	Type      FilterType
	Enabled   bool
}

// Clamp returns a copy of the band with all parameters forced into their
// valid ranges.
func (b Band) Clamp() Band {
	b.Frequency = clamp(b.Frequency, MinFrequency, MaxFrequency)
	b.Gain = clamp(b.Gain, MinGainDB, MaxGainDB)
	b.Q = clamp(b.Q, MinQ, MaxQ)
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Biquad is a single second-order IIR section in Direct Form I.
// Coefficients are stored already normalized by a0, so one sample costs
// five multiplies and four adds plus the history shift.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	// History state
	x1, x2 float64
	y1, y2 float64
}

// Coefficients returns the normalized filter coefficients (a0 = 1 implied).
func (f *Biquad) Coefficients() (b0, b1, b2, a1, a2 float64) {
	return f.b0, f.b1, f.b2, f.a1, f.a2
}

// Reset clears the filter history. Coefficients are kept.
func (f *Biquad) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}

// ProcessSample runs one step of the Direct Form I recursion.
func (f *Biquad) ProcessSample(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2

	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = y

	return y
}

// Configure derives the RBJ cookbook coefficients for the given band at the
// given sample rate and installs them normalized by a0. Filter history is
// preserved so in-place parameter changes do not click.
//
// The band is clamped before derivation, so q can never reach zero and the
// alpha division is always defined.
func (f *Biquad) Configure(band Band, sampleRate float64) {
	band = band.Clamp()

	omega := 2.0 * math.Pi * band.Frequency / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2.0 * band.Q)
	bigA := math.Pow(10.0, band.Gain/40.0)

	var b0, b1, b2, a0, a1, a2 float64

	switch band.Type {
	case Peaking:
		b0 = 1.0 + alpha*bigA
		b1 = -2.0 * cosOmega
		b2 = 1.0 - alpha*bigA
		a0 = 1.0 + alpha/bigA
		a1 = -2.0 * cosOmega
		a2 = 1.0 - alpha/bigA

	case LowPass:
		b0 = (1.0 - cosOmega) / 2.0
		b1 = 1.0 - cosOmega
		b2 = (1.0 - cosOmega) / 2.0
		a0 = 1.0 + alpha
		a1 = -2.0 * cosOmega
		a2 = 1.0 - alpha

	case HighPass:
		b0 = (1.0 + cosOmega) / 2.0
		b1 = -(1.0 + cosOmega)
		b2 = (1.0 + cosOmega) / 2.0
		a0 = 1.0 + alpha
		a1 = -2.0 * cosOmega
		a2 = 1.0 - alpha

	case BandPass:
		b0 = alpha
		b1 = 0.0
		b2 = -alpha
		a0 = 1.0 + alpha
		a1 = -2.0 * cosOmega
		a2 = 1.0 - alpha

	case Notch:
		b0 = 1.0
		b1 = -2.0 * cosOmega
		b2 = 1.0
		a0 = 1.0 + alpha
		a1 = -2.0 * cosOmega
		a2 = 1.0 - alpha

	case LowShelf:
		sqrtAAlpha := 2.0 * math.Sqrt(bigA) * alpha
		b0 = bigA * ((bigA + 1) - (bigA-1)*cosOmega + sqrtAAlpha)
		b1 = 2.0 * bigA * ((bigA - 1) - (bigA+1)*cosOmega)
		b2 = bigA * ((bigA + 1) - (bigA-1)*cosOmega - sqrtAAlpha)
		a0 = (bigA + 1) + (bigA-1)*cosOmega + sqrtAAlpha
		a1 = -2.0 * ((bigA - 1) + (bigA+1)*cosOmega)
		a2 = (bigA + 1) + (bigA-1)*cosOmega - sqrtAAlpha

	case HighShelf:
		sqrtAAlpha := 2.0 * math.Sqrt(bigA) * alpha
		b0 = bigA * ((bigA + 1) + (bigA-1)*cosOmega + sqrtAAlpha)
		b1 = -2.0 * bigA * ((bigA - 1) + (bigA+1)*cosOmega)
		b2 = bigA * ((bigA + 1) + (bigA-1)*cosOmega - sqrtAAlpha)
		a0 = (bigA + 1) - (bigA-1)*cosOmega + sqrtAAlpha
		a1 = 2.0 * ((bigA - 1) - (bigA+1)*cosOmega)
		a2 = (bigA + 1) - (bigA-1)*cosOmega - sqrtAAlpha

	default:
		// Unknown type: transparent section
		b0, a0 = 1.0, 1.0
	}

	// Normalize so a0 = 1
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

// Package dynamics implements the noise gate, soft compressor and
// amplification/clip stage of the pipeline.
//
// All four parameters are stored as atomic float64 bit patterns so the
// audio thread reads them lock-free while a control goroutine adjusts
// them. The per-sample transfer functions themselves are stateless: no
// envelope memory is carried between samples.
package dynamics

import (
	"math"
	"sync/atomic"
)

// Parameter ranges. Setters clamp silently; out-of-range values are never
// rejected.
const (
	MinGateThreshold = 0.001
	MaxGateThreshold = 0.2

	MinCompressionRatio = 0.1
	MaxCompressionRatio = 1.0

	MinCompressionThreshold = 0.1
	MaxCompressionThreshold = 1.0

	MinAmplification = 0.5
	MaxAmplification = 4.0
)

// Gate attenuation and output clip bounds.
const (
	gateAttenuation = 0.1 // soft floor below the gate threshold, not a mute
	clipLimit       = 0.95
)

// Defaults for a freshly created processor.
const (
	DefaultGateThreshold        = 0.01
	DefaultCompressionRatio     = 0.5
	DefaultCompressionThreshold = 0.6
	DefaultAmplification        = 1.0
)

// Processor applies the gate, compressor and gain stages. The filter bank
// cascade sits between the gate and the compressor; the caller composes
// the stages in that order.
type Processor struct {
	gateThreshold atomic.Uint64
	compRatio     atomic.Uint64
	compThreshold atomic.Uint64
	amplification atomic.Uint64
}

// NewProcessor returns a processor with default parameters.
func NewProcessor() *Processor {
	p := &Processor{}
	p.SetNoiseGate(DefaultGateThreshold)
	p.SetCompression(DefaultCompressionRatio, DefaultCompressionThreshold)
	p.SetAmplification(DefaultAmplification)
	return p
}

func storeClamped(dst *atomic.Uint64, v, lo, hi float64) {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	dst.Store(math.Float64bits(v))
}

func load(src *atomic.Uint64) float64 {
	return math.Float64frombits(src.Load())
}

// SetNoiseGate sets the gate threshold (linear amplitude, 0.001-0.2).
func (p *Processor) SetNoiseGate(threshold float64) {
	storeClamped(&p.gateThreshold, threshold, MinGateThreshold, MaxGateThreshold)
}

// SetCompression sets the compression ratio (0.1-1.0) and threshold
// (0.1-1.0 linear amplitude).
func (p *Processor) SetCompression(ratio, threshold float64) {
	storeClamped(&p.compRatio, ratio, MinCompressionRatio, MaxCompressionRatio)
	storeClamped(&p.compThreshold, threshold, MinCompressionThreshold, MaxCompressionThreshold)
}

// SetAmplification sets the output gain (linear, 0.5-4.0).
func (p *Processor) SetAmplification(gain float64) {
	storeClamped(&p.amplification, gain, MinAmplification, MaxAmplification)
}

// NoiseGate returns the effective gate threshold.
func (p *Processor) NoiseGate() float64 { return load(&p.gateThreshold) }

// CompressionRatio returns the effective compression ratio.
func (p *Processor) CompressionRatio() float64 { return load(&p.compRatio) }

// CompressionThreshold returns the effective compression threshold.
func (p *Processor) CompressionThreshold() float64 { return load(&p.compThreshold) }

// Amplification returns the effective output gain.
func (p *Processor) Amplification() float64 { return load(&p.amplification) }

// Gate attenuates samples below the gate threshold to a soft floor.
func (p *Processor) Gate(x float64) float64 {
	if math.Abs(x) < load(&p.gateThreshold) {
		return x * gateAttenuation
	}
	return x
}

// Compress reduces the portion of the sample above the compression
// threshold by the compression ratio, preserving sign.
func (p *Processor) Compress(x float64) float64 {
	threshold := load(&p.compThreshold)
	mag := math.Abs(x)
	if mag <= threshold {
		return x
	}

	out := threshold + (mag-threshold)*load(&p.compRatio)
	if x < 0 {
		return -out
	}
	return out
}

// Amplify applies the output gain and clips to +/-0.95.
func (p *Processor) Amplify(x float64) float64 {
	x *= load(&p.amplification)
	if x > clipLimit {
		return clipLimit
	}
	if x < -clipLimit {
		return -clipLimit
	}
	return x
}

// GateBuffer applies the gate stage in place. Parameters are read once for
// the whole chunk.
func (p *Processor) GateBuffer(buf []float64) {
	threshold := load(&p.gateThreshold)
	for i, x := range buf {
		if math.Abs(x) < threshold {
			buf[i] = x * gateAttenuation
		}
	}
}

// CompressBuffer applies the compressor, gain and clip stages in place.
func (p *Processor) CompressBuffer(buf []float64) {
	threshold := load(&p.compThreshold)
	ratio := load(&p.compRatio)
	gain := load(&p.amplification)

	for i, x := range buf {
		mag := math.Abs(x)
		if mag > threshold {
			mag = threshold + (mag-threshold)*ratio
			if x < 0 {
				x = -mag
			} else {
				x = mag
			}
		}

		x *= gain
		if x > clipLimit {
			x = clipLimit
		} else if x < -clipLimit {
			x = -clipLimit
		}
		buf[i] = x
	}
}

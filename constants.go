package hearclear

// Default processing parameters. Sample rate and chunk size are negotiated
// by the host's audio backend and passed in through Config; these are the
// values used when the Config leaves them zero.
const (
	// DefaultSampleRate is the assumed capture/playback rate in Hz.
	DefaultSampleRate = 44100

	// DefaultChunkSize is the number of samples read, processed and
	// written per loop iteration. Small chunks keep added latency under
	// ~3 ms at 44.1 kHz.
	DefaultChunkSize = 128

	// DefaultFFTSize is the spectrum analyzer's transform size.
	DefaultFFTSize = 512
)

// Visualization cadences, in chunks. The waveform/analyzer feed is
// sampled more often than the spectrum is recomputed.
const (
	defaultWaveformInterval = 2
	defaultSpectrumInterval = 4
)

// Sample format conversion.
const (
	sampleScale    = 32768.0
	sampleMax      = 32767.0
	invSampleScale = 1.0 / sampleScale
)

// presetCompressionThreshold is the compression threshold installed when a
// preset is applied. Presets carry only the ratio; the threshold is fixed.
const presetCompressionThreshold = 0.6

// stopTimeout bounds how long Stop waits for the processing loop to finish
// its current chunk before releasing devices anyway.
const stopTimeoutSeconds = 1

package hearclear

import (
	"errors"
	"fmt"
)

// Common errors returned by the engine.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrDeviceInit indicates a capture or playback device could not be
	// opened. Startup errors wrapped with this sentinel let the host avoid
	// entering a running state without active audio.
	ErrDeviceInit = errors.New("audio device initialization failed")

	// ErrAlreadyRunning indicates Start was called on a running engine.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrNotRunning indicates Stop was called on a stopped engine.
	ErrNotRunning = errors.New("engine not running")
)

// Config holds the processing engine configuration. The sample rate and
// chunk size come from the host's device negotiation; the engine never
// queries platform audio properties itself.
type Config struct {
	// SampleRate is the capture/playback rate in Hz.
	// Defaults to DefaultSampleRate when zero.
	SampleRate float64

	// ChunkSize is the number of samples per processing iteration.
	// Defaults to DefaultChunkSize when zero.
	ChunkSize int

	// FFTSize is the spectrum analyzer transform size. Must be a power of
	// two. Defaults to DefaultFFTSize when zero.
	FFTSize int

	// WaveformInterval is the cadence, in chunks, of the raw waveform and
	// analyzer feed. Defaults to every 2nd chunk when zero.
	WaveformInterval int

	// SpectrumInterval is the cadence, in chunks, at which a ready
	// spectrum is computed and pushed. Defaults to every 4th chunk when
	// zero.
	SpectrumInterval int

	// SpectrumFunc, when set, receives half-spectrum magnitudes at the
	// spectrum cadence. Called from the processing goroutine; it must not
	// retain the slice.
	SpectrumFunc func(magnitudes []float64)

	// WaveformFunc, when set, receives a copy of the raw captured chunk at
	// the waveform cadence. Called from the processing goroutine.
	WaveformFunc func(samples []int16)
}

// withDefaults returns a copy of the config with zero values replaced by
// defaults.
func (c Config) withDefaults() Config {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.FFTSize == 0 {
		c.FFTSize = DefaultFFTSize
	}
	if c.WaveformInterval == 0 {
		c.WaveformInterval = defaultWaveformInterval
	}
	if c.SpectrumInterval == 0 {
		c.SpectrumInterval = defaultSpectrumInterval
	}
	return c
}

// Validate checks the configuration after defaulting.
func (c *Config) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfig)
	}
	if c.FFTSize < 0 {
		return fmt.Errorf("%w: fft size must be positive", ErrInvalidConfig)
	}
	if c.FFTSize != 0 && c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: fft size must be a power of two, got %d", ErrInvalidConfig, c.FFTSize)
	}
	if c.WaveformInterval < 0 || c.SpectrumInterval < 0 {
		return fmt.Errorf("%w: visualization intervals must be positive", ErrInvalidConfig)
	}
	return nil
}

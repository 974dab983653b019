package hearclear

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hearclear/hearclear/internal/denoise"
	"github.com/hearclear/hearclear/internal/device"
	"github.com/hearclear/hearclear/internal/dynamics"
	"github.com/hearclear/hearclear/internal/equalizer"
	"github.com/hearclear/hearclear/internal/spectrum"
)

// Engine orchestrates the per-chunk pipeline: capture, noise cancelling,
// gate, equalizer cascade, compression and gain, playback, plus the
// throttled visualization feeds. One dedicated goroutine runs the loop;
// every exported method below is safe to call from other goroutines.
type Engine struct {
	config   Config
	capture  device.Capture
	playback device.Playback

	bank      *equalizer.Bank
	dyn       *dynamics.Processor
	canceller *denoise.Canceller
	analyzer  *spectrum.Analyzer

	running atomic.Bool
	done    chan struct{}

	mu      sync.Mutex
	runErr  error
	started bool
}

// NewEngine creates an engine processing samples from capture to playback.
// The devices are owned by the engine from this point on: Stop releases
// them.
func NewEngine(config *Config, capture device.Capture, playback device.Playback) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if capture == nil || playback == nil {
		return nil, fmt.Errorf("%w: capture and playback devices are required", ErrInvalidConfig)
	}

	cfg := config.withDefaults()
	analyzer, err := spectrum.NewAnalyzer(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Engine{
		config:    cfg,
		capture:   capture,
		playback:  playback,
		bank:      equalizer.NewBank(cfg.SampleRate),
		dyn:       dynamics.NewProcessor(),
		canceller: denoise.NewCanceller(),
		analyzer:  analyzer,
	}, nil
}

// Start launches the processing loop on its own goroutine.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyRunning
	}
	e.started = true
	e.runErr = nil
	e.done = make(chan struct{})
	e.running.Store(true)

	go e.run()
	return nil
}

// Stop requests the loop to exit, waits up to one second for it to finish
// its current chunk, then releases both devices unconditionally. It
// returns the run error, if the loop ended because of a mid-stream I/O
// failure.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return ErrNotRunning
	}
	done := e.done
	e.mu.Unlock()

	e.running.Store(false)

	select {
	case <-done:
	case <-time.After(stopTimeoutSeconds * time.Second):
	}

	// Release devices whether or not the loop has observed the stop;
	// closing also unblocks a capture read still in flight.
	e.capture.Close()
	e.playback.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	return e.runErr
}

// Wait blocks until the processing loop exits, either because Stop was
// requested or because the capture stream ended. It returns immediately if
// the engine was never started.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Err returns the error that terminated the last run, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runErr
}

// run is the processing loop. Each iteration handles one chunk and is
// independent; no state crosses iterations other than the component state
// inside the bank, canceller and analyzer.
func (e *Engine) run() {
	defer close(e.done)

	chunk := make([]int16, e.config.ChunkSize)
	floats := make([]float64, e.config.ChunkSize)
	waveformCount := 0
	spectrumCount := 0

	for e.running.Load() {
		n, err := e.capture.Read(chunk)
		if err != nil || n <= 0 {
			// A read error after Stop was requested is just the device
			// being closed out from under the loop, not a failure.
			if e.running.Load() {
				e.setRunErr(err)
			}
			return
		}
		frame := chunk[:n]

		// Stop may have been requested while the read was blocked; do not
		// process the buffered chunk in that case.
		if !e.running.Load() {
			return
		}

		waveformCount++
		if waveformCount >= e.config.WaveformInterval {
			waveformCount = 0
			e.feedWaveform(frame)
		}

		if e.canceller.Enabled() {
			e.canceller.Process(frame)
		}

		e.processFrame(frame, floats[:n])

		if _, err := e.playback.Write(frame); err != nil {
			e.setRunErr(err)
			return
		}

		spectrumCount++
		if spectrumCount >= e.config.SpectrumInterval {
			spectrumCount = 0
			e.feedSpectrum()
		}
	}
}

// processFrame runs the gate, equalizer cascade, compressor and gain over
// one chunk. The stages are applied chunk-wise; each is a per-sample map
// with only its own state, so the result is identical to interleaving them
// per sample while the filter bank takes its read lock just once.
func (e *Engine) processFrame(frame []int16, floats []float64) {
	for i, s := range frame {
		floats[i] = float64(s) * invSampleScale
	}

	e.dyn.GateBuffer(floats)
	e.bank.ProcessBuffer(floats)
	e.dyn.CompressBuffer(floats)

	for i, v := range floats {
		frame[i] = int16(v * sampleMax)
	}
}

func (e *Engine) feedWaveform(frame []int16) {
	e.analyzer.AddSamples(frame)

	if e.config.WaveformFunc != nil {
		raw := make([]int16, len(frame))
		copy(raw, frame)
		e.config.WaveformFunc(raw)
	}
}

func (e *Engine) feedSpectrum() {
	if e.config.SpectrumFunc == nil || !e.analyzer.IsReady() {
		return
	}

	mags, err := e.analyzer.Compute()
	if err != nil {
		return
	}
	e.config.SpectrumFunc(mags)
}

func (e *Engine) setRunErr(err error) {
	if err == nil || errors.Is(err, io.EOF) {
		// A drained capture source is a clean end of stream, not a failure.
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runErr = err
}

// Control surface. All methods below may be called concurrently with the
// processing loop.

// AddBand appends an equalizer band and returns its index. Parameters are
// clamped to their valid ranges.
func (e *Engine) AddBand(frequency, gain, q float64, ft equalizer.FilterType) int {
	return e.bank.AddBand(frequency, gain, q, ft)
}

// RemoveBand removes the band at index. It returns false if the index is
// out of range.
func (e *Engine) RemoveBand(index int) bool {
	return e.bank.RemoveBand(index)
}

// SetBand updates the band at index in place without resetting its filter
// history. Out-of-range indices are a no-op.
func (e *Engine) SetBand(index int, frequency, gain, q float64, ft equalizer.FilterType) {
	e.bank.SetBand(index, frequency, gain, q, ft)
}

// SetBandEnabled toggles the band at index.
func (e *Engine) SetBandEnabled(index int, enabled bool) {
	e.bank.SetBandEnabled(index, enabled)
}

// Bands returns a read-only snapshot of the current band list.
func (e *Engine) Bands() []equalizer.Band {
	return e.bank.Bands()
}

// SetNoiseCancelling enables or disables the noise canceller. Enabling it
// restarts noise-profile learning.
func (e *Engine) SetNoiseCancelling(enabled bool) {
	e.canceller.SetEnabled(enabled)
}

// NoiseCancellingEnabled reports whether noise cancelling is active.
func (e *Engine) NoiseCancellingEnabled() bool {
	return e.canceller.Enabled()
}

// NoiseCancellingLearned reports whether the noise profile has finished
// learning.
func (e *Engine) NoiseCancellingLearned() bool {
	return e.canceller.Learned()
}

// SetNoiseCancelStrength sets the Wiener gain exponent in [0, 1].
func (e *Engine) SetNoiseCancelStrength(strength float64) {
	e.canceller.SetStrength(strength)
}

// ResetNoiseProfile discards the learned noise profile and restarts
// learning.
func (e *Engine) ResetNoiseProfile() {
	e.canceller.Reset()
}

// SetNoiseGate sets the gate threshold (linear, clamped to 0.001-0.2).
func (e *Engine) SetNoiseGate(threshold float64) {
	e.dyn.SetNoiseGate(threshold)
}

// SetCompression sets the compression ratio and threshold (both clamped).
func (e *Engine) SetCompression(ratio, threshold float64) {
	e.dyn.SetCompression(ratio, threshold)
}

// SetAmplification sets the output gain (linear, clamped to 0.5-4.0).
func (e *Engine) SetAmplification(gain float64) {
	e.dyn.SetAmplification(gain)
}

// NoiseGate returns the effective gate threshold.
func (e *Engine) NoiseGate() float64 { return e.dyn.NoiseGate() }

// CompressionRatio returns the effective compression ratio.
func (e *Engine) CompressionRatio() float64 { return e.dyn.CompressionRatio() }

// CompressionThreshold returns the effective compression threshold.
func (e *Engine) CompressionThreshold() float64 { return e.dyn.CompressionThreshold() }

// Amplification returns the effective output gain.
func (e *Engine) Amplification() float64 { return e.dyn.Amplification() }

// FrequencyForBin maps a spectrum bin index to its center frequency in Hz.
func (e *Engine) FrequencyForBin(bin int) float64 {
	return e.analyzer.FrequencyForBin(bin, e.config.SampleRate)
}

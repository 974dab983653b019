// Package hearclear implements a real-time assistive-listening audio
// pipeline in pure Go.
//
// The pipeline takes a live microphone stream and, per fixed-size chunk,
// applies stationary-noise cancelling (spectral subtraction with Wiener
// gain smoothing), a noise gate, a cascade of parametric EQ biquad filters,
// soft compression and controlled amplification, then writes the result to
// the playback device immediately. A throttled FFT magnitude feed and a
// raw waveform feed are exposed for visualization.
//
// # Quick start
//
//	capture, playback, err := device.OpenMalgo(ctx, 44100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := hearclear.NewEngine(&hearclear.Config{SampleRate: 44100}, capture, playback)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine.AddBand(3000, 6.0, 1.0, equalizer.Peaking)
//	engine.SetNoiseCancelling(true)
//
//	if err := engine.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Stop()
//
// # Concurrency
//
// One dedicated goroutine runs the processing loop, blocking on the
// capture read. All control methods (band changes, noise cancelling
// toggles, dynamics parameters, presets) may be called from any other
// goroutine; structural equalizer changes serialize against the audio
// thread at chunk granularity and scalar parameters are read atomically
// per chunk.
//
// # Scope
//
// The pipeline processes one mono channel at a negotiated sample rate; it
// does not resample, decode or render. Preset persistence and UI belong to
// the host application, which talks to the engine through Preset snapshots
// and the visualization callbacks.
package hearclear

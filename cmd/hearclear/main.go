// Command hearclear runs the live assistive-listening pipeline from the
// default microphone to the default speaker.
//
// Usage:
//
//	hearclear
//	hearclear -rate 48000 -gain 2.0 -denoise
//	hearclear -band 3000:6:1:peaking -band 250:-3:1.5:peaking
//
// Press Ctrl-C to stop. The pipeline keeps running until interrupted or a
// device error ends the stream.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gen2brain/malgo"

	"github.com/hearclear/hearclear"
	"github.com/hearclear/hearclear/internal/device"
	"github.com/hearclear/hearclear/internal/spectrum"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rate := flag.Uint("rate", hearclear.DefaultSampleRate, "Sample rate in Hz")
	gain := flag.Float64("gain", 1.0, "Amplification gain (0.5-4.0 linear)")
	gate := flag.Float64("gate", 0.0, "Noise gate threshold (0.001-0.2 linear)")
	ratio := flag.Float64("ratio", 1.0, "Compression ratio (0.1-1.0)")
	denoise := flag.Bool("denoise", false, "Enable spectral-subtraction noise cancelling")
	strength := flag.Float64("strength", 0.7, "Noise cancelling strength (0-1)")
	showSpectrum := flag.Bool("spectrum", false, "Print the dominant frequency as it updates")
	var bandFlags bandList
	flag.Var(&bandFlags, "band", "EQ band as freq:gainDB:q:type (repeatable)")
	flag.Parse()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", hearclear.ErrDeviceInit, err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	capture, playback, err := device.OpenMalgo(ctx.Context, uint32(*rate))
	if err != nil {
		return fmt.Errorf("%w: %v", hearclear.ErrDeviceInit, err)
	}

	config := &hearclear.Config{SampleRate: float64(*rate)}

	var engine *hearclear.Engine
	if *showSpectrum {
		config.SpectrumFunc = func(mags []float64) {
			bin := spectrum.DominantBin(mags)
			if bin > 0 {
				fmt.Printf("\rdominant: %6.0f Hz", engine.FrequencyForBin(bin))
			}
		}
	}

	engine, err = hearclear.NewEngine(config, capture, playback)
	if err != nil {
		// NewEngine does not take ownership on failure
		capture.Close()
		playback.Close()
		return err
	}

	for _, b := range bandFlags {
		engine.AddBand(b.frequency, b.gain, b.q, b.filterType)
	}
	engine.SetAmplification(*gain)
	if *gate > 0 {
		engine.SetNoiseGate(*gate)
	}
	engine.SetCompression(*ratio, 0.6)
	if *denoise {
		engine.SetNoiseCancelling(true)
		engine.SetNoiseCancelStrength(*strength)
	}

	if err := engine.Start(); err != nil {
		capture.Close()
		playback.Close()
		return err
	}

	log.Printf("processing %d Hz mono, %d bands, denoise=%v - Ctrl-C to stop",
		*rate, len(engine.Bands()), *denoise)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	fmt.Println()

	return engine.Stop()
}

// Command hearclear-wav runs the hearclear pipeline over a WAV file.
//
// Usage:
//
//	hearclear-wav -gain 2.0 input.wav output.wav
//	hearclear-wav -denoise -band 3000:6:1:peaking input.wav output.wav
//	hearclear-wav -preset flat input.wav output.wav
//
// The file is processed through the same engine as the live pipeline,
// chunk by chunk, using buffer-backed devices in place of the microphone
// and speaker.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/hearclear/hearclear"
	"github.com/hearclear/hearclear/internal/device"
)

const (
	minRequiredArgs = 2
	pcmFormat       = 1 // WAV audio format tag for PCM
	monoChannels    = 1
	bitDepth16      = 16
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	gain := flag.Float64("gain", 1.0, "Amplification gain (0.5-4.0 linear)")
	gate := flag.Float64("gate", 0.0, "Noise gate threshold (0.001-0.2 linear)")
	ratio := flag.Float64("ratio", 1.0, "Compression ratio (0.1-1.0)")
	compThreshold := flag.Float64("comp-threshold", 0.6, "Compression threshold (0.1-1.0)")
	denoise := flag.Bool("denoise", false, "Enable spectral-subtraction noise cancelling")
	strength := flag.Float64("strength", 0.7, "Noise cancelling strength (0-1)")
	preset := flag.String("preset", "", "Apply a named preset (flat)")
	verbose := flag.Bool("v", false, "Verbose output")
	var bandFlags bandList
	flag.Var(&bandFlags, "band", "EQ band as freq:gainDB:q:type (repeatable); type is one of peaking, lowpass, highpass, bandpass, notch, lowshelf, highshelf")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	inputPath := args[0]
	outputPath := args[1]

	samples, sampleRate, err := readWAV(inputPath)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Input: %s (%d Hz, %d samples)", inputPath, sampleRate, len(samples))
	}

	capture := device.NewBufferCapture(samples)
	playback := device.NewBufferPlayback()

	engine, err := hearclear.NewEngine(&hearclear.Config{
		SampleRate: float64(sampleRate),
	}, capture, playback)
	if err != nil {
		return err
	}

	switch *preset {
	case "":
	case "flat":
		engine.ApplyPreset(hearclear.FlatPreset())
	default:
		return fmt.Errorf("unknown preset %q", *preset)
	}

	for _, b := range bandFlags {
		engine.AddBand(b.frequency, b.gain, b.q, b.filterType)
	}
	engine.SetAmplification(*gain)
	if *gate > 0 {
		engine.SetNoiseGate(*gate)
	}
	engine.SetCompression(*ratio, *compThreshold)
	if *denoise {
		engine.SetNoiseCancelling(true)
		engine.SetNoiseCancelStrength(*strength)
	}

	start := time.Now()
	if err := engine.Start(); err != nil {
		return err
	}
	engine.Wait()
	if err := engine.Stop(); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	elapsed := time.Since(start)

	processed := playback.Samples()
	if err := writeWAV(outputPath, processed, sampleRate); err != nil {
		return err
	}

	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d samples at %d Hz, %.2fs (%.1fx realtime)\n",
		len(processed), sampleRate, elapsed.Seconds(),
		float64(len(samples))/float64(sampleRate)/elapsed.Seconds())
	return nil
}

// readWAV decodes a mono 16-bit WAV file into int16 samples.
func readWAV(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf.Format.NumChannels != monoChannels {
		return nil, 0, fmt.Errorf("expected mono input, got %d channels", buf.Format.NumChannels)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return samples, buf.Format.SampleRate, nil
}

// writeWAV encodes int16 samples as a mono 16-bit WAV file.
func writeWAV(path string, samples []int16, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth16, monoChannels, pcmFormat)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: monoChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth16,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	return encoder.Close()
}

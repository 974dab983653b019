package device

import (
	"encoding/binary"
	"fmt"

	"github.com/gen2brain/malgo"
)

// ringSeconds sizes the capture/playback rings. A tenth of a second of
// headroom absorbs scheduling jitter without adding audible latency: the
// processing loop drains the capture ring chunk by chunk as soon as data
// arrives.
const ringSeconds = 0.1

// MalgoCapture is a malgo (miniaudio) capture device exposing the blocking
// Capture contract. The device callback feeds a ring buffer; Read blocks
// on the ring.
type MalgoCapture struct {
	dev  *malgo.Device
	ring *Ring
}

// Read blocks until captured samples are available.
func (c *MalgoCapture) Read(p []int16) (int, error) {
	return c.ring.Read(p)
}

// Close stops and releases the device and unblocks any pending Read.
func (c *MalgoCapture) Close() error {
	c.ring.Close()
	c.dev.Uninit()
	return nil
}

// MalgoPlayback is a malgo playback device exposing the blocking Playback
// contract. Write feeds a ring buffer drained by the device callback.
type MalgoPlayback struct {
	dev  *malgo.Device
	ring *Ring
}

// Write queues samples for playback. It never blocks for longer than the
// device buffer; if the host falls behind, the oldest queued samples are
// dropped by the ring.
func (p *MalgoPlayback) Write(samples []int16) (int, error) {
	p.ring.Write(samples)
	return len(samples), nil
}

// Close stops and releases the device.
func (p *MalgoPlayback) Close() error {
	p.ring.Close()
	p.dev.Uninit()
	return nil
}

// OpenMalgo opens a mono int16 capture and playback device pair at the
// negotiated sample rate. On any failure it releases whatever it already
// acquired and returns the error; it never leaves a partially opened pair
// behind.
func OpenMalgo(ctx malgo.Context, sampleRate uint32) (*MalgoCapture, *MalgoPlayback, error) {
	ringSize := int(float64(sampleRate) * ringSeconds)

	captureRing := NewRing(ringSize)
	captureConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	captureConfig.Capture.Format = malgo.FormatS16
	captureConfig.Capture.Channels = 1
	captureConfig.SampleRate = sampleRate

	captureDev, err := malgo.InitDevice(ctx, captureConfig, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			captureRing.Write(bytesToSamples(input, int(frameCount)))
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init capture device: %w", err)
	}

	playbackRing := NewRing(ringSize)
	playbackConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	playbackConfig.Playback.Format = malgo.FormatS16
	playbackConfig.Playback.Channels = 1
	playbackConfig.SampleRate = sampleRate

	playbackDev, err := malgo.InitDevice(ctx, playbackConfig, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, frameCount uint32) {
			fillOutput(output, playbackRing, int(frameCount))
		},
	})
	if err != nil {
		captureDev.Uninit()
		return nil, nil, fmt.Errorf("init playback device: %w", err)
	}

	if err := captureDev.Start(); err != nil {
		captureDev.Uninit()
		playbackDev.Uninit()
		return nil, nil, fmt.Errorf("start capture device: %w", err)
	}
	if err := playbackDev.Start(); err != nil {
		captureDev.Uninit()
		playbackDev.Uninit()
		return nil, nil, fmt.Errorf("start playback device: %w", err)
	}

	capture := &MalgoCapture{dev: captureDev, ring: captureRing}
	playback := &MalgoPlayback{dev: playbackDev, ring: playbackRing}
	return capture, playback, nil
}

func bytesToSamples(input []byte, frames int) []int16 {
	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(input[2*i:]))
	}
	return samples
}

// fillOutput drains up to frames samples from the ring into the device
// output buffer, zero-filling any shortfall so underruns play silence
// instead of garbage.
func fillOutput(output []byte, ring *Ring, frames int) {
	samples := make([]int16, frames)
	n := 0
	if ring.Available() > 0 {
		n, _ = ring.Read(samples)
	}
	for i := 0; i < frames; i++ {
		var s int16
		if i < n {
			s = samples[i]
		}
		binary.LittleEndian.PutUint16(output[2*i:], uint16(s))
	}
}

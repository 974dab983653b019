package device

import (
	"io"
	"sync"
)

// BufferCapture serves samples from an in-memory slice, returning io.EOF
// once drained. It backs offline file processing and engine tests.
type BufferCapture struct {
	mu      sync.Mutex
	samples []int16
	pos     int
	closed  bool
}

// NewBufferCapture creates a capture device that replays samples.
func NewBufferCapture(samples []int16) *BufferCapture {
	return &BufferCapture{samples: samples}
}

// Read copies the next samples into p. It returns io.EOF when the source
// is exhausted and ErrClosed after Close.
func (c *BufferCapture) Read(p []int16) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}
	if c.pos >= len(c.samples) {
		return 0, io.EOF
	}

	n := copy(p, c.samples[c.pos:])
	c.pos += n
	return n, nil
}

// Close marks the device closed.
func (c *BufferCapture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// BufferPlayback collects written samples in memory.
type BufferPlayback struct {
	mu      sync.Mutex
	samples []int16
	closed  bool
}

// NewBufferPlayback creates an empty collecting playback device.
func NewBufferPlayback() *BufferPlayback {
	return &BufferPlayback{}
}

// Write appends the samples.
func (p *BufferPlayback) Write(samples []int16) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	p.samples = append(p.samples, samples...)
	return len(samples), nil
}

// Close marks the device closed.
func (p *BufferPlayback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Samples returns a copy of everything written so far.
func (p *BufferPlayback) Samples() []int16 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]int16, len(p.samples))
	copy(out, p.samples)
	return out
}

// Package device defines the capture and playback collaborator contracts
// of the processing pipeline and provides implementations backed by malgo
// (miniaudio) devices and by in-memory buffers for offline use and tests.
package device

import "errors"

// Capture is the microphone side of the pipeline. Read blocks until at
// least one sample is available and returns the number of samples copied
// into p. A return of 0 with a non-nil error ends the processing run.
type Capture interface {
	Read(p []int16) (int, error)
	Close() error
}

// Playback is the speaker side of the pipeline. Write may block briefly on
// device buffering.
type Playback interface {
	Write(p []int16) (int, error)
	Close() error
}

// ErrClosed is returned by reads and writes on a closed device.
var ErrClosed = errors.New("device: closed")

// Package denoise implements stationary background-noise reduction by
// spectral subtraction with Wiener gain smoothing.
//
// The canceller first learns a noise magnitude profile from a fixed number
// of frames, then attenuates noise-dominated bins of every following frame.
// The "spectrum" here is a coarse estimate that pairs adjacent time-domain
// samples as real/imaginary components. It is not a windowed Fourier
// transform; the approximation is part of the observable behavior and is
// kept deliberately.
package denoise

import (
	"math"
	"sync"

	"github.com/tphakala/simd/f64"
)

// Profile and algorithm constants.
const (
	// ProfileSize is the fixed number of spectral bins in the noise
	// profile. Frames with more bins pass the excess through untouched.
	ProfileSize = 256

	// LearnFrames is the number of frames accumulated before the profile
	// freezes into its average.
	LearnFrames = 50

	// gainFloor keeps every bin audible; full subtraction produces
	// musical-noise artifacts and dead air.
	gainFloor = 0.01

	// gainSmoothing is the exponential smoothing factor applied against
	// the previous frame's gain.
	gainSmoothing = 0.9

	// DefaultStrength is the default Wiener gain exponent.
	DefaultStrength = 0.7
)

// int16 normalization scale.
const (
	sampleScale    = 32768.0
	invSampleScale = 1.0 / sampleScale
	maxSample      = 32767
	minSample      = -32768
)

// Canceller learns a stationary noise profile and applies a smoothed
// Wiener gain per spectral bin. All methods are safe for concurrent use;
// Process serializes against the control methods with one mutex.
type Canceller struct {
	mu       sync.Mutex
	enabled  bool
	learned  bool
	frames   int
	strength float64

	profile []float64 // accumulated, then averaged, noise magnitude
	gain    []float64 // previous frame's smoothed gain per bin

	// Scratch reused across frames
	floats []float64
}

// NewCanceller returns a disabled canceller with an empty profile.
func NewCanceller() *Canceller {
	return &Canceller{
		strength: DefaultStrength,
		profile:  make([]float64, ProfileSize),
		gain:     make([]float64, ProfileSize),
	}
}

// SetEnabled turns the canceller on or off. Enabling it while previously
// disabled discards any old profile and starts learning again, so a stale
// profile from a different environment is never applied.
func (c *Canceller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enabled && !c.enabled {
		c.resetLocked()
	}
	c.enabled = enabled
}

// Enabled reports whether noise cancelling is active.
func (c *Canceller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Learned reports whether the noise profile has finished learning.
func (c *Canceller) Learned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.learned
}

// SetStrength sets the Wiener gain exponent, clamped to [0, 1]. Zero
// disables attenuation entirely, one applies the full Wiener gain.
func (c *Canceller) SetStrength(strength float64) {
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	c.mu.Lock()
	c.strength = strength
	c.mu.Unlock()
}

// Strength returns the current Wiener gain exponent.
func (c *Canceller) Strength() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strength
}

// Reset clears the profile, gain memory and frame counter, returning the
// canceller to the learning state. Callable at any time.
func (c *Canceller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Canceller) resetLocked() {
	for i := range c.profile {
		c.profile[i] = 0
		c.gain[i] = 0
	}
	c.frames = 0
	c.learned = false
}

// Process runs one frame of noise cancelling over buf in place. It is a
// no-op while disabled or for frames shorter than one sample pair.
//
// While learning, the frame's magnitudes are accumulated into the profile
// and the samples pass through unmodified. Once LearnFrames frames have
// been accumulated the profile is averaged and the canceller flips to the
// learned state; from then on each bin is scaled by a smoothed Wiener gain
// and the samples are rebuilt from the scaled magnitude and the original
// phase.
func (c *Canceller) Process(buf []int16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || len(buf) < 2 {
		return
	}

	n := len(buf)
	if cap(c.floats) < n {
		c.floats = make([]float64, n)
	}
	floats := c.floats[:n]
	for i, s := range buf {
		floats[i] = float64(s)
	}
	f64.Scale(floats, floats, invSampleScale)

	bins := n / 2
	if bins > ProfileSize {
		bins = ProfileSize
	}

	if !c.learned {
		c.accumulate(floats, bins)
		return
	}

	c.subtract(buf, floats, bins)
}

// accumulate adds the frame's bin magnitudes to the profile and finalizes
// it after LearnFrames frames.
func (c *Canceller) accumulate(floats []float64, bins int) {
	for i := 0; i < bins; i++ {
		re := floats[2*i]
		im := floats[2*i+1]
		c.profile[i] += math.Hypot(re, im)
	}

	c.frames++
	if c.frames >= LearnFrames {
		f64.Scale(c.profile, c.profile, 1.0/float64(LearnFrames))
		c.learned = true
	}
}

// subtract applies the smoothed Wiener gain to each bin of the frame and
// writes the reconstructed samples back into buf with clamping. Bins past
// the profile size are left as they are.
func (c *Canceller) subtract(buf []int16, floats []float64, bins int) {
	for i := 0; i < bins; i++ {
		re := floats[2*i]
		im := floats[2*i+1]
		mag := math.Hypot(re, im)
		phase := math.Atan2(im, re)

		signal := mag * mag
		noise := c.profile[i] * c.profile[i]

		target := gainFloor
		if signal+noise > 0 {
			target = math.Pow(signal/(signal+noise), c.strength)
			if target < gainFloor {
				target = gainFloor
			}
		}

		// Smooth against the previous frame's gain to avoid musical noise
		smoothed := gainSmoothing*c.gain[i] + (1.0-gainSmoothing)*target
		c.gain[i] = smoothed

		scaled := mag * smoothed
		buf[2*i] = clampSample(scaled * math.Cos(phase) * sampleScale)
		buf[2*i+1] = clampSample(scaled * math.Sin(phase) * sampleScale)
	}
}

func clampSample(v float64) int16 {
	if v > maxSample {
		return maxSample
	}
	if v < minSample {
		return minSample
	}
	return int16(v)
}

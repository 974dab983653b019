package denoise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearclear/hearclear/internal/testutil"
)

const frameSize = 512 // 256 sample pairs, matches the profile size

func learn(c *Canceller, seed int64, amplitude float64, frames int) {
	for i := 0; i < frames; i++ {
		c.Process(testutil.NoiseInt16(seed+int64(i), amplitude, frameSize))
	}
}

func TestDisabledIsNoOp(t *testing.T) {
	c := NewCanceller()
	assert.False(t, c.Enabled())

	buf := testutil.NoiseInt16(1, 0.5, frameSize)
	orig := make([]int16, len(buf))
	copy(orig, buf)

	c.Process(buf)
	assert.Equal(t, orig, buf)
	assert.False(t, c.Learned())
}

func TestShortFrameIsNoOp(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)

	c.Process(nil)
	c.Process([]int16{42})
	assert.False(t, c.Learned())

	// A one-sample frame never counts toward learning.
	for i := 0; i < LearnFrames*2; i++ {
		c.Process([]int16{42})
	}
	assert.False(t, c.Learned())
}

func TestLearningBoundary(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)

	learn(c, 100, 0.1, LearnFrames-1)
	assert.False(t, c.Learned(), "profile frozen one frame early")

	c.Process(testutil.NoiseInt16(999, 0.1, frameSize))
	assert.True(t, c.Learned(), "profile not frozen after %d frames", LearnFrames)
}

func TestLearningPassesThrough(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)

	for i := 0; i < LearnFrames; i++ {
		buf := testutil.NoiseInt16(int64(i), 0.2, frameSize)
		orig := make([]int16, len(buf))
		copy(orig, buf)
		c.Process(buf)
		require.Equal(t, orig, buf, "frame %d altered during learning", i)
	}
	assert.True(t, c.Learned())
}

func TestLearnedOutputReducesNoise(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)
	learn(c, 0, 0.2, LearnFrames)
	require.True(t, c.Learned())

	// Feed a few frames so the smoothed gain converges, then measure.
	var before, after float64
	for i := 0; i < 20; i++ {
		buf := testutil.NoiseInt16(int64(1000+i), 0.2, frameSize)
		before = testutil.RMS(buf)
		c.Process(buf)
		after = testutil.RMS(buf)
	}

	assert.Less(t, after, before*0.8,
		"stationary noise not attenuated: %f -> %f", before, after)
	assert.Greater(t, after, 0.0, "output fully muted despite the gain floor")
}

func TestStrongSignalSurvives(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)
	learn(c, 0, 0.02, LearnFrames)
	require.True(t, c.Learned())

	// A tone well above the learned noise floor should keep most of its
	// energy once the gain has converged.
	var before, after float64
	for i := 0; i < 20; i++ {
		buf := testutil.SineInt16(1000, 44100, 0.5, frameSize)
		before = testutil.RMS(buf)
		c.Process(buf)
		after = testutil.RMS(buf)
	}

	assert.Greater(t, after, before*0.8,
		"signal over-attenuated: %f -> %f", before, after)
}

func TestEnableFromDisabledResets(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)
	learn(c, 0, 0.2, LearnFrames)
	require.True(t, c.Learned())

	// Toggling off and on discards the profile.
	c.SetEnabled(false)
	c.SetEnabled(true)
	assert.False(t, c.Learned())

	// Enabling while already enabled keeps it.
	learn(c, 0, 0.2, LearnFrames)
	require.True(t, c.Learned())
	c.SetEnabled(true)
	assert.True(t, c.Learned())
}

func TestReset(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)
	learn(c, 0, 0.2, LearnFrames)
	require.True(t, c.Learned())

	c.Reset()
	assert.False(t, c.Learned())
	assert.True(t, c.Enabled(), "Reset must not change the enabled flag")

	// Learning starts over from zero frames.
	learn(c, 50, 0.2, LearnFrames-1)
	assert.False(t, c.Learned())
	c.Process(testutil.NoiseInt16(999, 0.2, frameSize))
	assert.True(t, c.Learned())
}

func TestSetStrengthClamps(t *testing.T) {
	c := NewCanceller()
	assert.Equal(t, DefaultStrength, c.Strength())

	c.SetStrength(-0.5)
	assert.Equal(t, 0.0, c.Strength())
	c.SetStrength(1.5)
	assert.Equal(t, 1.0, c.Strength())
	c.SetStrength(0.3)
	assert.Equal(t, 0.3, c.Strength())
}

func TestBinsBeyondProfilePassThrough(t *testing.T) {
	c := NewCanceller()
	c.SetEnabled(true)

	const bigFrame = 4 * ProfileSize // twice as many pairs as profile bins
	for i := 0; i < LearnFrames; i++ {
		c.Process(testutil.NoiseInt16(int64(i), 0.2, bigFrame))
	}
	require.True(t, c.Learned())

	buf := testutil.NoiseInt16(7777, 0.2, bigFrame)
	tail := make([]int16, bigFrame-2*ProfileSize)
	copy(tail, buf[2*ProfileSize:])

	c.Process(buf)
	assert.Equal(t, tail, buf[2*ProfileSize:],
		"samples past the profiled bins must pass through untouched")
}

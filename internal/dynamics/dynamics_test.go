package dynamics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearclear/hearclear/internal/testutil"
)

func TestDefaults(t *testing.T) {
	p := NewProcessor()
	assert.Equal(t, DefaultGateThreshold, p.NoiseGate())
	assert.Equal(t, DefaultCompressionRatio, p.CompressionRatio())
	assert.Equal(t, DefaultCompressionThreshold, p.CompressionThreshold())
	assert.Equal(t, DefaultAmplification, p.Amplification())
}

func TestSettersClamp(t *testing.T) {
	p := NewProcessor()

	p.SetNoiseGate(-1)
	assert.Equal(t, MinGateThreshold, p.NoiseGate())
	p.SetNoiseGate(1)
	assert.Equal(t, MaxGateThreshold, p.NoiseGate())

	p.SetCompression(2, 2)
	assert.Equal(t, MaxCompressionRatio, p.CompressionRatio())
	assert.Equal(t, MaxCompressionThreshold, p.CompressionThreshold())
	p.SetCompression(0, 0)
	assert.Equal(t, MinCompressionRatio, p.CompressionRatio())
	assert.Equal(t, MinCompressionThreshold, p.CompressionThreshold())

	p.SetAmplification(10)
	assert.Equal(t, MaxAmplification, p.Amplification())
	p.SetAmplification(0)
	assert.Equal(t, MinAmplification, p.Amplification())

	p.SetNoiseGate(0.05)
	p.SetCompression(0.5, 0.6)
	p.SetAmplification(2)
	assert.Equal(t, 0.05, p.NoiseGate())
	assert.Equal(t, 0.5, p.CompressionRatio())
	assert.Equal(t, 0.6, p.CompressionThreshold())
	assert.Equal(t, 2.0, p.Amplification())
}

func TestGateTransfer(t *testing.T) {
	p := NewProcessor()
	p.SetNoiseGate(0.05)

	// Below threshold: soft attenuation, sign kept. At or above: identity.
	assert.InDelta(t, 0.002, p.Gate(0.02), 1e-15)
	assert.InDelta(t, -0.002, p.Gate(-0.02), 1e-15)
	assert.Equal(t, 0.05, p.Gate(0.05))
	assert.Equal(t, 0.5, p.Gate(0.5))
	assert.Equal(t, -0.5, p.Gate(-0.5))
	assert.Equal(t, 0.0, p.Gate(0))
}

func TestCompressTransfer(t *testing.T) {
	p := NewProcessor()
	p.SetCompression(0.5, 0.6)

	// At or below the threshold the sample passes unchanged.
	assert.Equal(t, 0.3, p.Compress(0.3))
	assert.Equal(t, 0.6, p.Compress(0.6))
	assert.Equal(t, -0.6, p.Compress(-0.6))

	// Above the threshold the excess is scaled by the ratio.
	assert.InDelta(t, 0.7, p.Compress(0.8), 1e-15)
	assert.InDelta(t, -0.7, p.Compress(-0.8), 1e-15)
	assert.InDelta(t, 0.8, p.Compress(1.0), 1e-15)
}

func TestAmplifyClips(t *testing.T) {
	p := NewProcessor()
	p.SetAmplification(4)

	assert.InDelta(t, 0.4, p.Amplify(0.1), 1e-15)
	assert.Equal(t, 0.95, p.Amplify(0.5))
	assert.Equal(t, -0.95, p.Amplify(-0.5))
}

func TestGateBufferMatchesPerSample(t *testing.T) {
	p := NewProcessor()
	p.SetNoiseGate(0.05)

	input := testutil.Sine(440, 44100, 0.08, 512)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = p.Gate(x)
	}

	got := make([]float64, len(input))
	copy(got, input)
	p.GateBuffer(got)

	testutil.AssertFloatsClose(t, want, got, 0)
}

func TestCompressBufferMatchesPerSample(t *testing.T) {
	p := NewProcessor()
	p.SetCompression(0.4, 0.5)
	p.SetAmplification(2)

	input := testutil.Sine(440, 44100, 0.9, 512)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = p.Amplify(p.Compress(x))
	}

	got := make([]float64, len(input))
	copy(got, input)
	p.CompressBuffer(got)

	testutil.AssertFloatsClose(t, want, got, 0)
	testutil.AssertAllInRange(t, got, -0.95, 0.95)
}

package hearclear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearclear/hearclear/internal/device"
	"github.com/hearclear/hearclear/internal/dynamics"
	"github.com/hearclear/hearclear/internal/equalizer"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(&Config{}, device.NewBufferCapture(nil), device.NewBufferPlayback())
	require.NoError(t, err)
	return e
}

func TestFlatPreset(t *testing.T) {
	p := FlatPreset()
	assert.Equal(t, "Flat", p.Name)
	require.Len(t, p.Bands, 5)

	freqs := make([]float64, len(p.Bands))
	for i, b := range p.Bands {
		freqs[i] = b.Frequency
		assert.Equal(t, 0.0, b.Gain)
		assert.Equal(t, 1.0, b.Q)
		assert.Equal(t, equalizer.Peaking, b.Type)
		assert.True(t, b.Enabled)
	}
	assert.Equal(t, []float64{60, 250, 1000, 4000, 12000}, freqs)
	assert.Equal(t, 1.0, p.MasterVolume)
}

func TestApplyPreset(t *testing.T) {
	e := newTestEngine(t)

	// Pre-existing bands are replaced, not merged.
	e.AddBand(500, 5, 1.0, equalizer.Peaking)
	e.ApplyPreset(FlatPreset())

	bands := e.Bands()
	require.Len(t, bands, 5)
	assert.Equal(t, 60.0, bands[0].Frequency)

	// The flat preset's zero scalars land on the clamped floor of each
	// range, and the compression threshold is pinned.
	assert.Equal(t, dynamics.MinGateThreshold, e.NoiseGate())
	assert.Equal(t, dynamics.MinCompressionRatio, e.CompressionRatio())
	assert.Equal(t, presetCompressionThreshold, e.CompressionThreshold())
	assert.Equal(t, 1.0, e.Amplification())
}

func TestApplyPresetKeepsDisabledBands(t *testing.T) {
	e := newTestEngine(t)

	p := FlatPreset()
	p.Bands[2].Enabled = false
	e.ApplyPreset(p)

	bands := e.Bands()
	require.Len(t, bands, 5)
	assert.True(t, bands[1].Enabled)
	assert.False(t, bands[2].Enabled)
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.AddBand(300, 4, 1.5, equalizer.Peaking)
	e.AddBand(3000, -6, 2.0, equalizer.HighShelf)
	e.SetBandEnabled(1, false)
	e.SetNoiseGate(0.05)
	e.SetCompression(0.4, 0.8)
	e.SetAmplification(2.5)

	snap := e.Snapshot("speech")
	assert.Equal(t, "speech", snap.Name)
	assert.False(t, snap.CreatedAt.IsZero())
	require.Len(t, snap.Bands, 2)
	assert.Equal(t, 2.5, snap.MasterVolume)
	assert.Equal(t, 0.05, snap.NoiseGateThreshold)
	assert.Equal(t, 0.4, snap.CompressionRatio)

	// Wreck the live state, then restore from the snapshot.
	other := newTestEngine(t)
	other.AddBand(8000, 12, 0.5, equalizer.LowPass)
	other.ApplyPreset(snap)

	bands := other.Bands()
	require.Len(t, bands, 2)
	assert.Equal(t, 300.0, bands[0].Frequency)
	assert.Equal(t, 4.0, bands[0].Gain)
	assert.True(t, bands[0].Enabled)
	assert.Equal(t, 3000.0, bands[1].Frequency)
	assert.Equal(t, equalizer.HighShelf, bands[1].Type)
	assert.False(t, bands[1].Enabled)

	assert.Equal(t, 2.5, other.Amplification())
	assert.Equal(t, 0.05, other.NoiseGate())
	assert.Equal(t, 0.4, other.CompressionRatio())
	// The threshold is not part of the preset; applying pins it.
	assert.Equal(t, presetCompressionThreshold, other.CompressionThreshold())
}

func TestSnapshotDoesNotAliasEngineState(t *testing.T) {
	e := newTestEngine(t)
	e.AddBand(1000, 3, 1.0, equalizer.Peaking)

	snap := e.Snapshot("s")
	snap.Bands[0].Frequency = 9999

	assert.Equal(t, 1000.0, e.Bands()[0].Frequency)
}

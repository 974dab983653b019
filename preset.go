package hearclear

import (
	"time"

	"github.com/hearclear/hearclear/internal/equalizer"
)

// PresetBand describes one equalizer band inside a preset.
type PresetBand struct {
	Frequency float64
	Gain      float64
	Q         float64
	Type      equalizer.FilterType
	Enabled   bool
}

// Preset is the exchange format between the engine and the host's
// persistence layer: an ordered band list plus the dynamics scalars.
// The engine only translates to and from its own state; storage and naming
// policy belong to the host.
type Preset struct {
	Name      string
	CreatedAt time.Time

	Bands              []PresetBand
	MasterVolume       float64
	NoiseGateThreshold float64
	CompressionRatio   float64
}

// FlatPreset returns an identity preset: 0 dB bands across the usual
// octave centers, unity volume, gate and compression effectively off.
func FlatPreset() Preset {
	frequencies := []float64{60, 250, 1000, 4000, 12000}
	bands := make([]PresetBand, len(frequencies))
	for i, f := range frequencies {
		bands[i] = PresetBand{
			Frequency: f,
			Gain:      0,
			Q:         1.0,
			Type:      equalizer.Peaking,
			Enabled:   true,
		}
	}

	return Preset{
		Name:               "Flat",
		CreatedAt:          time.Now(),
		Bands:              bands,
		MasterVolume:       1.0,
		NoiseGateThreshold: 0,
		CompressionRatio:   0,
	}
}

// ApplyPreset replaces the engine's equalizer and dynamics state with the
// preset: all current bands are cleared, the preset bands are added in
// order, then the three scalars are installed. The compression threshold
// is pinned to a fixed value independent of the preset. Scalars outside
// their valid ranges are clamped by the dynamics setters.
func (e *Engine) ApplyPreset(p Preset) {
	e.bank.Clear()
	for _, b := range p.Bands {
		idx := e.bank.AddBand(b.Frequency, b.Gain, b.Q, b.Type)
		if !b.Enabled {
			e.bank.SetBandEnabled(idx, false)
		}
	}

	e.dyn.SetAmplification(p.MasterVolume)
	e.dyn.SetNoiseGate(p.NoiseGateThreshold)
	e.dyn.SetCompression(p.CompressionRatio, presetCompressionThreshold)
}

// Snapshot materializes the current equalizer and dynamics state into a
// Preset for the persistence collaborator to serialize.
func (e *Engine) Snapshot(name string) Preset {
	bands := e.bank.Bands()
	presetBands := make([]PresetBand, len(bands))
	for i, b := range bands {
		presetBands[i] = PresetBand{
			Frequency: b.Frequency,
			Gain:      b.Gain,
			Q:         b.Q,
			Type:      b.Type,
			Enabled:   b.Enabled,
		}
	}

	return Preset{
		Name:               name,
		CreatedAt:          time.Now(),
		Bands:              presetBands,
		MasterVolume:       e.dyn.Amplification(),
		NoiseGateThreshold: e.dyn.NoiseGate(),
		CompressionRatio:   e.dyn.CompressionRatio(),
	}
}

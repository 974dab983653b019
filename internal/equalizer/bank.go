package equalizer

import "sync"

// Bank is an ordered set of equalizer bands with their biquad sections.
// The band slice and stage slice are always the same length and
// index-aligned: band i is filtered by stage i. Every structural change
// (add, remove, clear) updates both slices under the write lock, so the
// processing thread can never observe a half-applied change.
type Bank struct {
	mu         sync.RWMutex
	sampleRate float64
	bands      []Band
	stages     []*Biquad
}

// NewBank creates an empty filter bank for the given sample rate.
func NewBank(sampleRate float64) *Bank {
	return &Bank{sampleRate: sampleRate}
}

// AddBand appends a band with clamped parameters and a fresh zeroed biquad
// section, and returns the new band's index.
func (bk *Bank) AddBand(frequency, gain, q float64, ft FilterType) int {
	band := Band{
		Frequency: frequency,
		Gain:      gain,
		Q:         q,
		Type:      ft,
		Enabled:   true,
	}.Clamp()

	bk.mu.Lock()
	defer bk.mu.Unlock()

	stage := &Biquad{}
	stage.Configure(band, bk.sampleRate)

	bk.bands = append(bk.bands, band)
	bk.stages = append(bk.stages, stage)
	return len(bk.bands) - 1
}

// RemoveBand removes the band and its section at index, shifting later
// indices down by one. Returns false if index is out of range.
func (bk *Bank) RemoveBand(index int) bool {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if index < 0 || index >= len(bk.bands) {
		return false
	}

	bk.bands = append(bk.bands[:index], bk.bands[index+1:]...)
	bk.stages = append(bk.stages[:index], bk.stages[index+1:]...)
	return true
}

// SetBand updates the band at index in place, clamping parameters and
// recomputing the section's coefficients. The section history is kept so
// the change does not click. Out-of-range indices are a no-op.
func (bk *Bank) SetBand(index int, frequency, gain, q float64, ft FilterType) {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if index < 0 || index >= len(bk.bands) {
		return
	}

	enabled := bk.bands[index].Enabled
	band := Band{
		Frequency: frequency,
		Gain:      gain,
		Q:         q,
		Type:      ft,
		Enabled:   enabled,
	}.Clamp()

	bk.bands[index] = band
	bk.stages[index].Configure(band, bk.sampleRate)
}

// SetBandEnabled toggles the band at index. Disabled bands are bypassed by
// ProcessSample, not zeroed. Out-of-range indices are a no-op.
func (bk *Bank) SetBandEnabled(index int, enabled bool) {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if index < 0 || index >= len(bk.bands) {
		return
	}
	bk.bands[index].Enabled = enabled
}

// Clear removes all bands and sections.
func (bk *Bank) Clear() {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	bk.bands = bk.bands[:0]
	bk.stages = bk.stages[:0]
}

// Len returns the number of bands.
func (bk *Bank) Len() int {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return len(bk.bands)
}

// Bands returns a snapshot copy of the band list. The copy does not alias
// internal state.
func (bk *Bank) Bands() []Band {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	out := make([]Band, len(bk.bands))
	copy(out, bk.bands)
	return out
}

// SampleRate returns the bank's sample rate in Hz.
func (bk *Bank) SampleRate() float64 {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return bk.sampleRate
}

// SetSampleRate changes the sample rate and rederives every section's
// coefficients from its band parameters.
func (bk *Bank) SetSampleRate(sampleRate float64) {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	bk.sampleRate = sampleRate
	for i, band := range bk.bands {
		bk.stages[i].Configure(band, sampleRate)
	}
}

// ProcessSample folds x through every enabled band's section in index
// order. Disabled bands are skipped entirely.
func (bk *Bank) ProcessSample(x float64) float64 {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return bk.processLocked(x)
}

// ProcessBuffer filters buf in place, taking the read lock once for the
// whole chunk. This is the processing thread's entry point: structural
// mutations serialize against it at chunk granularity.
func (bk *Bank) ProcessBuffer(buf []float64) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	for i, x := range buf {
		buf[i] = bk.processLocked(x)
	}
}

func (bk *Bank) processLocked(x float64) float64 {
	for i, band := range bk.bands {
		if !band.Enabled {
			continue
		}
		x = bk.stages[i].ProcessSample(x)
	}
	return x
}

// StageCoefficients returns the normalized coefficients of the section at
// index, for inspection and tests. ok is false if index is out of range.
func (bk *Bank) StageCoefficients(index int) (b0, b1, b2, a1, a2 float64, ok bool) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if index < 0 || index >= len(bk.stages) {
		return 0, 0, 0, 0, 0, false
	}
	b0, b1, b2, a1, a2 = bk.stages[index].Coefficients()
	return b0, b1, b2, a1, a2, true
}

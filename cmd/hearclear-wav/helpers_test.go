package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearclear/hearclear/internal/equalizer"
)

func TestBandListSet(t *testing.T) {
	var bl bandList

	require.NoError(t, bl.Set("1000:6:1.5:peaking"))
	require.NoError(t, bl.Set("8000:-3:0.7:HighShelf"))

	require.Len(t, bl, 2)
	assert.Equal(t, bandSpec{frequency: 1000, gain: 6, q: 1.5, filterType: equalizer.Peaking}, bl[0])
	assert.Equal(t, bandSpec{frequency: 8000, gain: -3, q: 0.7, filterType: equalizer.HighShelf}, bl[1])

	assert.Equal(t, "1000:6:1.5:peaking,8000:-3:0.7:highshelf", bl.String())
}

func TestBandListSetErrors(t *testing.T) {
	var bl bandList

	for _, v := range []string{
		"",
		"1000:6:1.5",
		"1000:6:1.5:peaking:extra",
		"abc:6:1.5:peaking",
		"1000:db:1.5:peaking",
		"1000:6:q:peaking",
		"1000:6:1.5:allpass",
	} {
		assert.Error(t, bl.Set(v), "value %q should not parse", v)
	}
	assert.Empty(t, bl)
}

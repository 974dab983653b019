package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hearclear/hearclear/internal/equalizer"
)

// bandSpec is one -band flag value.
type bandSpec struct {
	frequency  float64
	gain       float64
	q          float64
	filterType equalizer.FilterType
}

// bandList collects repeated -band flags.
type bandList []bandSpec

func (bl *bandList) String() string {
	parts := make([]string, len(*bl))
	for i, b := range *bl {
		parts[i] = fmt.Sprintf("%g:%g:%g:%s", b.frequency, b.gain, b.q, b.filterType)
	}
	return strings.Join(parts, ",")
}

// Set parses freq:gainDB:q:type.
func (bl *bandList) Set(value string) error {
	fields := strings.Split(value, ":")
	if len(fields) != 4 {
		return fmt.Errorf("band %q: want freq:gainDB:q:type", value)
	}

	frequency, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("band %q: bad frequency: %w", value, err)
	}
	gain, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("band %q: bad gain: %w", value, err)
	}
	q, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("band %q: bad q: %w", value, err)
	}
	ft, err := equalizer.ParseFilterType(strings.ToLower(fields[3]))
	if err != nil {
		return fmt.Errorf("band %q: %w", value, err)
	}

	*bl = append(*bl, bandSpec{frequency: frequency, gain: gain, q: q, filterType: ft})
	return nil
}

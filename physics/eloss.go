package physics

import (
	"errors"
	"math"
)

// ErrEmptyElossTable is returned when constructing an energy-loss table
// from an empty slice.
var ErrEmptyElossTable = errors.New("physics: energy-loss table is empty")

// InterpMode selects how an ElossTable looks up stopping power between
// table bins.
type InterpMode int

const (
	// InterpNearest picks the closest 1 keV bin.
	InterpNearest InterpMode = iota
	// InterpLinear interpolates linearly between adjacent bins.
	InterpLinear
)

// ElossTable is a dense stopping-power curve. Entry i holds the stopping
// power in MeV/m at a kinetic energy of i keV per nucleon. Immutable after
// construction and safe for concurrent use.
type ElossTable struct {
	values []float64
	mode   InterpMode
}

// NewElossTable wraps a dense stopping-power vector. The slice is copied.
func NewElossTable(values []float64, mode InterpMode) (*ElossTable, error) {
	if len(values) == 0 {
		return nil, ErrEmptyElossTable
	}
	t := &ElossTable{values: make([]float64, len(values)), mode: mode}
	copy(t.values, values)
	return t, nil
}

// Len returns the number of 1 keV bins in the table.
func (t *ElossTable) Len() int { return len(t.values) }

// StoppingPower returns the stopping power in MeV/m at the given kinetic
// energy per nucleon (MeV/u). Energies beyond the table clamp to the last
// bin; negative energies clamp to the first.
func (t *ElossTable) StoppingPower(enu float64) float64 {
	kev := enu * 1000
	switch t.mode {
	case InterpLinear:
		if kev <= 0 {
			return t.values[0]
		}
		lo := int(math.Floor(kev))
		if lo >= len(t.values)-1 {
			return t.values[len(t.values)-1]
		}
		frac := kev - float64(lo)
		return t.values[lo]*(1-frac) + t.values[lo+1]*frac
	default:
		idx := int(math.Round(kev))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(t.values) {
			idx = len(t.values) - 1
		}
		return t.values[idx]
	}
}

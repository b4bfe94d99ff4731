// Package padplane maps continuous pad-plane coordinates to discrete
// readout pad numbers through a precomputed rectangular lookup grid.
package padplane

import (
	"errors"
	"fmt"
	"math"
)

// NoPad is the grid sentinel marking a cell with no physical pad under it.
// It never escapes the package: lookups on such cells return ErrNoPad.
const NoPad int32 = -1

var (
	// ErrOutOfBounds is returned when a position maps outside the grid.
	ErrOutOfBounds = errors.New("padplane: position outside lookup grid")
	// ErrNoPad is returned when a position maps to a grid cell that has
	// no pad.
	ErrNoPad = errors.New("padplane: no pad at position")
)

// PadPlane discretizes the detector readout plane. Immutable after
// construction and safe for concurrent use.
type PadPlane struct {
	lookup   [][]int32
	rows     int
	cols     int
	xLB, yLB float64 // lower bounds of the grid
	xDelta   float64 // grid step along x
	yDelta   float64 // grid step along y
	rotSin   float64
	rotCos   float64
}

// New builds a PadPlane from a rectangular lookup grid of pad numbers
// (NoPad marks empty cells), the grid lower bounds, the per-axis steps and
// a rotation angle (radians) applied to query points before indexing.
func New(lookup [][]int32, xLB, xDelta, yLB, yDelta, rotAngle float64) (*PadPlane, error) {
	if len(lookup) == 0 || len(lookup[0]) == 0 {
		return nil, errors.New("padplane: lookup grid must be non-empty")
	}
	cols := len(lookup[0])
	for i, row := range lookup {
		if len(row) != cols {
			return nil, fmt.Errorf("padplane: lookup grid must be rectangular: row %d has %d cells, want %d", i, len(row), cols)
		}
	}
	if xDelta <= 0 || yDelta <= 0 {
		return nil, fmt.Errorf("padplane: grid steps must be positive, got dx=%g dy=%g", xDelta, yDelta)
	}
	grid := make([][]int32, len(lookup))
	for i, row := range lookup {
		grid[i] = make([]int32, cols)
		copy(grid[i], row)
	}
	return &PadPlane{
		lookup: grid,
		rows:   len(grid),
		cols:   cols,
		xLB:    xLB,
		yLB:    yLB,
		xDelta: xDelta,
		yDelta: yDelta,
		rotSin: math.Sin(rotAngle),
		rotCos: math.Cos(rotAngle),
	}, nil
}

// LookupPad returns the pad number under position (x, y), in the plane's
// native units. Positions outside the grid return ErrOutOfBounds;
// positions over a cell with no pad return ErrNoPad.
func (p *PadPlane) LookupPad(x, y float64) (uint32, error) {
	rx := p.rotCos*x - p.rotSin*y
	ry := p.rotSin*x + p.rotCos*y

	col := int(math.Round((rx - p.xLB) / p.xDelta))
	row := int(math.Round((ry - p.yLB) / p.yDelta))
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		return 0, ErrOutOfBounds
	}
	pad := p.lookup[row][col]
	if pad == NoPad {
		return 0, ErrNoPad
	}
	if pad < 0 {
		return 0, fmt.Errorf("padplane: invalid pad number %d at cell (%d,%d)", pad, row, col)
	}
	return uint32(pad), nil
}

// Rows and Cols report the lookup grid dimensions.
func (p *PadPlane) Rows() int { return p.rows }

// Cols reports the number of grid columns.
func (p *PadPlane) Cols() int { return p.cols }

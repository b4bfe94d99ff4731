package padplane

import (
	"errors"
	"math"
	"testing"
)

// testGrid builds a 4×4 grid of sequential pad numbers with one no-pad
// hole, spanning [0, 0.3] on each axis with a 0.1 step.
func testGrid(t *testing.T, rotAngle float64) *PadPlane {
	t.Helper()
	lookup := [][]int32{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, NoPad, 10, 11},
		{12, 13, 14, 15},
	}
	p, err := New(lookup, 0, 0.1, 0, 0.1, rotAngle)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, 0, 0.1, 0, 0.1, 0); err == nil {
		t.Error("expected error for empty grid")
	}
	ragged := [][]int32{{1, 2}, {3}}
	if _, err := New(ragged, 0, 0.1, 0, 0.1, 0); err == nil {
		t.Error("expected error for ragged grid")
	}
	square := [][]int32{{1, 2}, {3, 4}}
	if _, err := New(square, 0, 0, 0, 0.1, 0); err == nil {
		t.Error("expected error for zero grid step")
	}
}

func TestLookupPad(t *testing.T) {
	p := testGrid(t, 0)

	cases := []struct {
		x, y float64
		want uint32
	}{
		{0, 0, 0},
		{0.1, 0, 1},
		{0.3, 0.3, 15},
		{0.22, 0.21, 10}, // off-center positions round to the nearest cell
	}
	for _, c := range cases {
		got, err := p.LookupPad(c.x, c.y)
		if err != nil {
			t.Fatalf("LookupPad(%v, %v): %v", c.x, c.y, err)
		}
		if got != c.want {
			t.Errorf("LookupPad(%v, %v) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestLookupPadIdempotent(t *testing.T) {
	p := testGrid(t, 0)

	first, err := p.LookupPad(0.15, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := p.LookupPad(0.15, 0.05)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("lookup not idempotent: %d then %d", first, got)
		}
	}
}

func TestLookupPadOutOfBounds(t *testing.T) {
	p := testGrid(t, 0)

	for _, c := range [][2]float64{{-1, 0}, {0, -1}, {1, 0}, {0, 1}, {-0.06, 0}} {
		if _, err := p.LookupPad(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("LookupPad(%v, %v): expected ErrOutOfBounds, got %v", c[0], c[1], err)
		}
	}
}

func TestLookupPadNoPad(t *testing.T) {
	p := testGrid(t, 0)

	// Grid cell (row 2, col 1) holds the no-pad sentinel.
	if _, err := p.LookupPad(0.1, 0.2); !errors.Is(err, ErrNoPad) {
		t.Errorf("expected ErrNoPad, got %v", err)
	}
}

func TestLookupPadRotation(t *testing.T) {
	// A 90° rotation maps the point (0.2, 0) onto grid position (0, 0.2).
	p := testGrid(t, math.Pi/2)

	got, err := p.LookupPad(0.2, 0)
	if err != nil {
		t.Fatal(err)
	}
	want, err := testGrid(t, 0).LookupPad(0, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("rotated lookup = %d, want %d", got, want)
	}
}

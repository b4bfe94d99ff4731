package physics

import (
	"math"
	"testing"
)

func TestNewElossTableEmpty(t *testing.T) {
	if _, err := NewElossTable(nil, InterpNearest); err != ErrEmptyElossTable {
		t.Errorf("expected ErrEmptyElossTable, got %v", err)
	}
}

func TestElossTableNearest(t *testing.T) {
	tbl, err := NewElossTable([]float64{10, 20, 30, 40}, InterpNearest)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		enu  float64 // MeV/u
		want float64
	}{
		{0, 10},
		{0.001, 20},   // exactly 1 keV
		{0.0014, 20},  // rounds down to bin 1
		{0.0016, 30},  // rounds up to bin 2
		{0.005, 40},   // beyond the table clamps to the last bin
		{-0.0005, 10}, // negative clamps to the first bin
	}
	for _, c := range cases {
		if got := tbl.StoppingPower(c.enu); got != c.want {
			t.Errorf("StoppingPower(%v) = %v, want %v", c.enu, got, c.want)
		}
	}
}

func TestElossTableLinear(t *testing.T) {
	tbl, err := NewElossTable([]float64{0, 100, 200}, InterpLinear)
	if err != nil {
		t.Fatal(err)
	}

	// Exact agreement at bin centers.
	for i, want := range []float64{0, 100, 200} {
		if got := tbl.StoppingPower(float64(i) / 1000); got != want {
			t.Errorf("bin %d: got %v, want %v", i, got, want)
		}
	}

	// Halfway between bins interpolates linearly.
	if got := tbl.StoppingPower(0.0005); math.Abs(got-50) > 1e-12 {
		t.Errorf("midpoint interpolation: got %v, want 50", got)
	}

	// Beyond the table clamps.
	if got := tbl.StoppingPower(1.0); got != 200 {
		t.Errorf("clamp: got %v, want 200", got)
	}
}

func TestElossTableCopiesInput(t *testing.T) {
	values := []float64{1, 2, 3}
	tbl, err := NewElossTable(values, InterpNearest)
	if err != nil {
		t.Fatal(err)
	}
	values[0] = 99
	if got := tbl.StoppingPower(0); got != 1 {
		t.Errorf("table must copy its input, got %v after mutation", got)
	}
}

package minimizer

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFindPositionDeviationsIdentity(t *testing.T) {
	a := mat.NewDense(4, 3, []float64{
		0, 0, 0,
		0.1, 0.2, 0.3,
		0.2, 0.4, 0.6,
		0.3, 0.6, 0.9,
	})

	devs, err := FindPositionDeviations(a, a)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := devs.Dims()
	if rows != 4 || cols != 3 {
		t.Fatalf("deviations are %d×%d, want 4×3", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if devs.At(i, j) != 0 {
				t.Fatalf("identical matrices produced nonzero residual at (%d, %d)", i, j)
			}
		}
	}
	if chi := positionChi(devs); chi != 0 {
		t.Errorf("expected zero chi for identical matrices, got %v", chi)
	}
}

func TestFindPositionDeviationsPairsByIndex(t *testing.T) {
	sim := mat.NewDense(5, 3, nil)
	exp := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		exp.Set(i, 0, 1.0)
	}

	devs, err := FindPositionDeviations(sim, exp)
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := devs.Dims()
	if rows != 3 {
		t.Fatalf("expected pairing up to the shorter matrix, got %d rows", rows)
	}
	for i := 0; i < rows; i++ {
		if devs.At(i, 0) != -1.0 {
			t.Errorf("row %d: residual = %v, want -1", i, devs.At(i, 0))
		}
	}
}

func TestFindPositionDeviationsColumnCheck(t *testing.T) {
	bad := mat.NewDense(3, 4, nil)
	good := mat.NewDense(3, 3, nil)
	if _, err := FindPositionDeviations(bad, good); err == nil {
		t.Error("expected error for 4-column simulated matrix")
	}
	if _, err := FindPositionDeviations(good, bad); err == nil {
		t.Error("expected error for 4-column experimental matrix")
	}
}

func TestEnergyChi(t *testing.T) {
	if chi := energyChi(nil); chi != 0 {
		t.Errorf("empty residuals must score zero, got %v", chi)
	}
	if chi := energyChi([]float64{2, -2}); chi != 4 {
		t.Errorf("energyChi([2, -2]) = %v, want 4", chi)
	}
}

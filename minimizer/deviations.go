package minimizer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FindPositionDeviations computes per-row residuals (sim − exp) between a
// simulated and an experimental position matrix. Both must have 3 columns;
// rows are paired by index up to the shorter of the two, so the result has
// min(rows(sim), rows(exp)) rows.
func FindPositionDeviations(sim, exp mat.Matrix) (*mat.Dense, error) {
	simRows, simCols := sim.Dims()
	expRows, expCols := exp.Dims()
	if simCols != 3 || expCols != 3 {
		return nil, fmt.Errorf("minimizer: position matrices must have 3 columns, got %d and %d", simCols, expCols)
	}
	n := simRows
	if expRows < n {
		n = expRows
	}
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, sim.At(i, j)-exp.At(i, j))
		}
	}
	return out, nil
}

// FindEnergyDeviation regenerates the mesh signal for a candidate
// trajectory and returns the per-bucket residuals (sim − exp) against the
// experimental mesh. The experimental mesh must have the electronics
// bucket count.
func (m *Minimizer) FindEnergyDeviation(simPos mat.Matrix, simEn []float64, expMesh []float64) ([]float64, error) {
	simMesh, err := m.evtgen.MakeMeshSignal(simPos, simEn)
	if err != nil {
		return nil, err
	}
	if len(expMesh) != len(simMesh) {
		return nil, fmt.Errorf("minimizer: experimental mesh has %d samples, want %d", len(expMesh), len(simMesh))
	}
	out := make([]float64, len(simMesh))
	for i := range simMesh {
		out[i] = simMesh[i] - expMesh[i]
	}
	return out, nil
}

// positionChi aggregates a residual matrix into a scalar: the mean of the
// squared residuals over all elements.
func positionChi(devs *mat.Dense) float64 {
	rows, cols := devs.Dims()
	if rows == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := devs.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(rows*cols)
}

// energyChi aggregates a mesh residual vector into the mean of squares.
func energyChi(devs []float64) float64 {
	if len(devs) == 0 {
		return 0
	}
	var sum float64
	for _, d := range devs {
		sum += d * d
	}
	return sum / float64(len(devs))
}

package tracker

import "gonum.org/v1/gonum/mat"

// NumColumns is the width of a trajectory row: x, y, z, time, energy per
// nucleon, azimuth, polar.
const NumColumns = 7

// Trajectory is an ordered sequence of particle state samples with
// strictly increasing time. It is immutable once returned by the Tracker.
type Trajectory struct {
	x, y, z []float64 // meters
	time    []float64 // seconds
	energy  []float64 // MeV/u
	azimuth []float64 // radians
	polar   []float64 // radians
}

func newTrajectory() *Trajectory {
	return &Trajectory{}
}

func (tr *Trajectory) append(pos [3]float64, time, enu, azi, pol float64) {
	tr.x = append(tr.x, pos[0])
	tr.y = append(tr.y, pos[1])
	tr.z = append(tr.z, pos[2])
	tr.time = append(tr.time, time)
	tr.energy = append(tr.energy, enu)
	tr.azimuth = append(tr.azimuth, azi)
	tr.polar = append(tr.polar, pol)
}

func (tr *Trajectory) lastEnergy() float64 {
	return tr.energy[len(tr.energy)-1]
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int { return len(tr.time) }

// Row returns the sample at index i as (x, y, z, time, energy, azimuth, polar).
func (tr *Trajectory) Row(i int) (x, y, z, time, energy, azimuth, polar float64) {
	return tr.x[i], tr.y[i], tr.z[i], tr.time[i], tr.energy[i], tr.azimuth[i], tr.polar[i]
}

// Times returns a copy of the time column in seconds.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.time))
	copy(out, tr.time)
	return out
}

// Energies returns a copy of the energy-per-nucleon column in MeV/u.
func (tr *Trajectory) Energies() []float64 {
	out := make([]float64, len(tr.energy))
	copy(out, tr.energy)
	return out
}

// Positions returns the position samples as an N×3 matrix in meters.
func (tr *Trajectory) Positions() *mat.Dense {
	n := tr.Len()
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, tr.x[i])
		out.Set(i, 1, tr.y[i])
		out.Set(i, 2, tr.z[i])
	}
	return out
}

// Matrix returns the full trajectory as an N×7 matrix with columns
// (x, y, z, time, energy, azimuth, polar).
func (tr *Trajectory) Matrix() *mat.Dense {
	n := tr.Len()
	out := mat.NewDense(n, NumColumns, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, tr.x[i])
		out.Set(i, 1, tr.y[i])
		out.Set(i, 2, tr.z[i])
		out.Set(i, 3, tr.time[i])
		out.Set(i, 4, tr.energy[i])
		out.Set(i, 5, tr.azimuth[i])
		out.Set(i, 6, tr.polar[i])
	}
	return out
}

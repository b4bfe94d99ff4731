// Package minimizer fits trajectory parameters to experimental data with
// an iterative Monte Carlo search: each round samples candidate parameter
// vectors around the current best guess, scores them against the
// experimental observables, keeps the winner and narrows the sampling
// width.
package minimizer

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/attpc-tools/mcfit/eventgen"
	"github.com/attpc-tools/mcfit/internal/config"
	"github.com/attpc-tools/mcfit/internal/monitoring"
	"github.com/attpc-tools/mcfit/tracker"
)

// NumParams is the length of a candidate parameter vector:
// x0, y0, z0 (m), energy per nucleon (MeV/u), azimuth, polar (rad) and
// the magnetic field magnitude (Tesla).
const NumParams = 7

// ErrNoValidCandidates is returned when every candidate in a round failed
// tracking or projection, leaving nothing to select.
var ErrNoValidCandidates = errors.New("minimizer: no valid candidates in round")

// Options configures a Minimize call.
type Options struct {
	NumIters  int     // number of rounds
	NumPts    int     // candidates per round
	RedFactor float64 // per-round half-width reduction, in (0, 1]
	Workers   int     // concurrent candidate evaluations; 0 means NumCPU
}

// OptionsFromTuning builds Options from a tuning config; fields the file
// does not set fall back to the engine defaults. nil means all defaults.
func OptionsFromTuning(t *config.TuningConfig) Options {
	if t == nil {
		t = config.EmptyTuningConfig()
	}
	return Options{
		NumIters:  t.GetNumIters(),
		NumPts:    t.GetNumPts(),
		RedFactor: t.GetRedFactor(),
		Workers:   t.GetWorkers(),
	}
}

// DefaultOptions returns the standard fit budget.
func DefaultOptions() Options {
	return OptionsFromTuning(nil)
}

func (o Options) validate() error {
	if o.NumIters <= 0 {
		return fmt.Errorf("minimizer: NumIters must be positive, got %d", o.NumIters)
	}
	if o.NumPts <= 0 {
		return fmt.Errorf("minimizer: NumPts must be positive, got %d", o.NumPts)
	}
	if o.RedFactor <= 0 || o.RedFactor > 1 {
		return fmt.Errorf("minimizer: RedFactor must be in (0, 1], got %g", o.RedFactor)
	}
	return nil
}

// Result holds the outcome of a Minimize call.
type Result struct {
	// Ctr is the best-fit parameter vector after the final round.
	Ctr [NumParams]float64
	// AllParams holds every sampled candidate across all rounds, in
	// sampling order: (NumIters·NumPts) × NumParams.
	AllParams *mat.Dense
	// MinPosChis and MinEnChis are the per-round position and energy chi
	// values of each round's winner.
	MinPosChis []float64
	MinEnChis  []float64
	// BestIdxs holds, per round, the winner's index into AllParams.
	BestIdxs []int
}

// LastChi returns the winning total chi of the final round.
func (r *Result) LastChi() float64 {
	n := len(r.MinPosChis)
	if n == 0 {
		return math.Inf(1)
	}
	return r.MinPosChis[n-1] + r.MinEnChis[n-1]
}

// Minimizer drives the simulate-compare-narrow loop. The random source is
// injected so fits are reproducible under a fixed seed.
type Minimizer struct {
	trk    *tracker.Tracker
	evtgen *eventgen.EventGenerator
	src    rand.Source
}

// New builds a Minimizer. src may be nil, in which case an unseeded
// source is created; pass rand.NewSource(seed) for reproducible fits.
func New(trk *tracker.Tracker, gen *eventgen.EventGenerator, src rand.Source) (*Minimizer, error) {
	if trk == nil {
		return nil, errors.New("minimizer: tracker is required")
	}
	if gen == nil {
		return nil, errors.New("minimizer: event generator is required")
	}
	if src == nil {
		src = rand.NewSource(rand.Uint64())
	}
	return &Minimizer{trk: trk, evtgen: gen, src: src}, nil
}

// runTrack integrates the trajectory described by a candidate parameter
// vector. The seventh parameter scales the tracker's configured magnetic
// field direction; a zero configured field stays zero.
func (m *Minimizer) runTrack(p [NumParams]float64) (*tracker.Trajectory, error) {
	b := m.trk.Bfield
	norm := math.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2])
	if norm > 0 {
		scale := p[6] / norm
		for i := range b {
			b[i] *= scale
		}
	}
	return m.trk.TrackParticleWithB(p[0], p[1], p[2], p[3], p[4], p[5], b)
}

// candidateScore is the evaluation outcome for one sampled candidate.
type candidateScore struct {
	posChi float64
	enChi  float64
	ok     bool
}

// evaluate scores one candidate against the experimental data. Any
// tracking or projection failure marks the candidate invalid.
func (m *Minimizer) evaluate(p [NumParams]float64, expPos mat.Matrix, expMesh []float64) candidateScore {
	traj, err := m.runTrack(p)
	if err != nil || traj.Len() < 2 {
		return candidateScore{}
	}
	simPos := traj.Positions()
	devs, err := FindPositionDeviations(simPos, expPos)
	if err != nil {
		return candidateScore{}
	}
	enDevs, err := m.FindEnergyDeviation(simPos, traj.Energies(), expMesh)
	if err != nil {
		return candidateScore{}
	}
	return candidateScore{posChi: positionChi(devs), enChi: energyChi(enDevs), ok: true}
}

// Minimize searches for the trajectory parameters that best reproduce the
// experimental positions (N×3) and mesh signal. ctr0 is the initial
// center, sig0 the initial per-parameter half-width. Candidates are drawn
// uniformly on [ctr−σ, ctr+σ] per parameter; each round the center moves
// to the round winner and σ shrinks by RedFactor.
func (m *Minimizer) Minimize(ctr0, sig0 [NumParams]float64, expPos mat.Matrix, expMesh []float64, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, cols := expPos.Dims(); cols != 3 {
		return nil, fmt.Errorf("minimizer: experimental positions must have 3 columns, got %d", cols)
	}
	if len(expMesh) != eventgen.NumTimeBuckets {
		return nil, fmt.Errorf("minimizer: experimental mesh has %d samples, want %d", len(expMesh), eventgen.NumTimeBuckets)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctr := ctr0
	sig := sig0
	res := &Result{
		AllParams:  mat.NewDense(opts.NumIters*opts.NumPts, NumParams, nil),
		MinPosChis: make([]float64, 0, opts.NumIters),
		MinEnChis:  make([]float64, 0, opts.NumIters),
		BestIdxs:   make([]int, 0, opts.NumIters),
	}

	for iter := 0; iter < opts.NumIters; iter++ {
		// Draw the whole round up front so the sequence depends only on
		// the seed, not on evaluation scheduling.
		params := m.sampleRound(ctr, sig, opts.NumPts)
		for i, p := range params {
			res.AllParams.SetRow(iter*opts.NumPts+i, p[:])
		}

		scores := make([]candidateScore, opts.NumPts)
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range params {
			i := i
			g.Go(func() error {
				scores[i] = m.evaluate(params[i], expPos, expMesh)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		best := -1
		bestChi := math.Inf(1)
		for i, s := range scores {
			if !s.ok {
				continue
			}
			if chi := s.posChi + s.enChi; chi < bestChi {
				bestChi = chi
				best = i
			}
		}
		if best < 0 {
			monitoring.Logf("minimizer: round %d produced no valid candidates", iter)
			return nil, fmt.Errorf("round %d: %w", iter, ErrNoValidCandidates)
		}

		ctr = params[best]
		for i := range sig {
			sig[i] *= opts.RedFactor
		}
		res.MinPosChis = append(res.MinPosChis, scores[best].posChi)
		res.MinEnChis = append(res.MinEnChis, scores[best].enChi)
		res.BestIdxs = append(res.BestIdxs, iter*opts.NumPts+best)
	}

	res.Ctr = ctr
	return res, nil
}

// sampleRound draws numPts candidate vectors uniformly on [ctr−σ, ctr+σ]
// per parameter from the injected source.
func (m *Minimizer) sampleRound(ctr, sig [NumParams]float64, numPts int) [][NumParams]float64 {
	dists := make([]distuv.Uniform, NumParams)
	for j := range dists {
		dists[j] = distuv.Uniform{Min: ctr[j] - sig[j], Max: ctr[j] + sig[j], Src: m.src}
	}
	out := make([][NumParams]float64, numPts)
	for i := range out {
		for j := range dists {
			if sig[j] == 0 {
				out[i][j] = ctr[j]
				continue
			}
			out[i][j] = dists[j].Rand()
		}
	}
	return out
}

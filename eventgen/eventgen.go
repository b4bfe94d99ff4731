// Package eventgen projects simulated trajectories onto the discretized
// detector readout, producing the per-pad time-domain signals, peak tables
// and mesh signals a real detector would record.
package eventgen

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/attpc-tools/mcfit/internal/config"
	"github.com/attpc-tools/mcfit/internal/units"
	"github.com/attpc-tools/mcfit/padplane"
)

// NumTimeBuckets is the fixed length of every electronics signal vector.
const NumTimeBuckets = 512

// Config is an immutable snapshot of the detector electronics and geometry
// parameters used for one projection call. Build a new Config to change
// parameters between calls; a single Config is safe to share across
// concurrent projections.
type Config struct {
	ClockMHz   float64    // write-clock frequency in MHz
	ShapeTime  float64    // electronics shaping time in seconds
	MassNum    uint       // particle mass number
	IonizPot   float64    // gas ionization potential in eV
	Gain       float64    // electronics gain, dimensionless
	TiltAngle  float64    // detector tilt in radians
	DriftVel   [3]float64 // electron drift velocity in cm/µs
	BeamCenter [3]float64 // beam-center offset in meters
}

// ConfigFromTuning returns a Config with the electronics defaults (clock
// frequency, shaping time) from the tuning file and a unit gain; nil means
// built-in defaults. Particle, gas and geometry fields must still be set
// before the config validates.
func ConfigFromTuning(t *config.TuningConfig) Config {
	if t == nil {
		t = config.EmptyTuningConfig()
	}
	return Config{
		ClockMHz:  t.GetClockMHz(),
		ShapeTime: t.GetShapeTime(),
		Gain:      1.0,
	}
}

// Validate checks the snapshot before projection work begins.
func (c Config) Validate() error {
	if c.ClockMHz <= 0 {
		return fmt.Errorf("eventgen: clock frequency must be positive, got %g MHz", c.ClockMHz)
	}
	if c.ShapeTime <= 0 {
		return fmt.Errorf("eventgen: shaping time must be positive, got %g s", c.ShapeTime)
	}
	if c.MassNum == 0 {
		return errors.New("eventgen: mass number must be positive")
	}
	if c.IonizPot <= 0 {
		return fmt.Errorf("eventgen: ionization potential must be positive, got %g eV", c.IonizPot)
	}
	if c.DriftVel[2] == 0 {
		return errors.New("eventgen: longitudinal drift velocity must be nonzero")
	}
	return nil
}

// Event maps pad numbers to their fixed-length time-domain signals. Every
// signal has NumTimeBuckets samples.
type Event map[uint32][]float64

// EventGenerator converts trajectories into electronics-domain
// observables. Read-only after construction.
type EventGenerator struct {
	cfg  Config
	pads *padplane.PadPlane
}

// New builds an EventGenerator from a config snapshot and a pad plane.
func New(cfg Config, pads *padplane.PadPlane) (*EventGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pads == nil {
		return nil, errors.New("eventgen: pad plane is required")
	}
	return &EventGenerator{cfg: cfg, pads: pads}, nil
}

// Config returns the configuration snapshot in use.
func (g *EventGenerator) Config() Config { return g.cfg }

// sample is one trajectory point after projection into the pad-plane frame.
type sample struct {
	x, y   float64
	bucket int
	amp    float64
	pad    uint32
}

// project transforms each trajectory position into pad-plane coordinates,
// a time bucket and a charge amplitude. Samples that drift outside the pad
// plane, land on a no-pad cell, fall outside the time window or deposit no
// charge are dropped. The first sample carries no energy difference and is
// always skipped.
func (g *EventGenerator) project(pos mat.Matrix, en []float64) ([]sample, error) {
	rows, cols := pos.Dims()
	if cols != 3 {
		return nil, fmt.Errorf("eventgen: positions must have 3 columns, got %d", cols)
	}
	if rows != len(en) {
		return nil, fmt.Errorf("eventgen: positions (%d rows) and energies (%d) must have matching lengths", rows, len(en))
	}

	sinT, cosT := math.Sin(-g.cfg.TiltAngle), math.Cos(-g.cfg.TiltAngle)
	vdx := units.CmPerMicrosecondToMetersPerSecond(g.cfg.DriftVel[0])
	vdy := units.CmPerMicrosecondToMetersPerSecond(g.cfg.DriftVel[1])
	vdz := units.CmPerMicrosecondToMetersPerSecond(g.cfg.DriftVel[2])
	clockHz := units.MegahertzToHertz(g.cfg.ClockMHz)

	out := make([]sample, 0, rows)
	for i := 1; i < rows; i++ {
		x := pos.At(i, 0)
		y := pos.At(i, 1)
		z := pos.At(i, 2)

		// Undo the detector tilt (rotation about the x axis), then shift
		// the beam axis onto the pad-plane center.
		ty := cosT*y - sinT*z
		tz := sinT*y + cosT*z
		px := x + g.cfg.BeamCenter[0]
		py := ty + g.cfg.BeamCenter[1]
		pz := tz + g.cfg.BeamCenter[2]

		// Drift the charge to the pad plane: the z coordinate becomes a
		// drift time, and transverse drift components displace (x, y).
		driftTime := pz / vdz // seconds
		bucket := int(math.Round(driftTime * clockHz))
		if bucket < 0 || bucket >= NumTimeBuckets {
			continue
		}
		px -= vdx * driftTime
		py -= vdy * driftTime

		pad, err := g.pads.LookupPad(px, py)
		if err != nil {
			// Off the plane or over a gap: this deposit is not read out.
			continue
		}

		de := (en[i-1] - en[i]) * float64(g.cfg.MassNum) // MeV
		if de <= 0 {
			continue
		}
		electrons := units.MeVToElectronVolts(de) / g.cfg.IonizPot
		out = append(out, sample{x: px, y: py, bucket: bucket, amp: electrons * g.cfg.Gain, pad: pad})
	}
	return out, nil
}

// MakeEvent projects a trajectory into per-pad shaped signals. Positions
// are an N×3 matrix in meters; energies are the per-sample energy per
// nucleon in MeV/u. The returned Event holds one NumTimeBuckets-long
// signal per pad that collected charge.
func (g *EventGenerator) MakeEvent(pos mat.Matrix, en []float64) (Event, error) {
	samples, err := g.project(pos, en)
	if err != nil {
		return nil, err
	}
	evt := make(Event)
	for _, s := range samples {
		sig, ok := evt[s.pad]
		if !ok {
			sig = make([]float64, NumTimeBuckets)
			evt[s.pad] = sig
		}
		g.addPulse(sig, s.bucket, s.amp)
	}
	return evt, nil
}

// MakePeaksTable projects a trajectory into discrete peaks, one row per
// sample that lands on a valid pad. Columns: x, y, time bucket, amplitude,
// pad number. When the drop policy leaves no samples (for example a
// constant-energy trajectory, which deposits no charge) the table is nil
// with a nil error.
func (g *EventGenerator) MakePeaksTable(pos mat.Matrix, en []float64) (*mat.Dense, error) {
	samples, err := g.project(pos, en)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	out := mat.NewDense(len(samples), 5, nil)
	for i, s := range samples {
		out.Set(i, 0, s.x)
		out.Set(i, 1, s.y)
		out.Set(i, 2, float64(s.bucket))
		out.Set(i, 3, s.amp)
		out.Set(i, 4, float64(s.pad))
	}
	return out, nil
}

// MakeMeshSignal projects a trajectory and collapses the event across
// pads, returning the per-bucket sum of every pad signal. The result is
// exactly the elementwise sum of the MakeEvent signals.
func (g *EventGenerator) MakeMeshSignal(pos mat.Matrix, en []float64) ([]float64, error) {
	evt, err := g.MakeEvent(pos, en)
	if err != nil {
		return nil, err
	}
	mesh := make([]float64, NumTimeBuckets)
	pads := make([]uint32, 0, len(evt))
	for pad := range evt {
		pads = append(pads, pad)
	}
	sort.Slice(pads, func(i, j int) bool { return pads[i] < pads[j] })
	for _, pad := range pads {
		sig := evt[pad]
		for tb := range mesh {
			mesh[tb] += sig[tb]
		}
	}
	return mesh, nil
}

// addPulse accumulates the electronics response to a point charge deposit
// of the given amplitude starting at the given time bucket. The pulse is
// the GET shaper response A·(t/τ)³·exp(−3t/τ)·sin(t/τ).
func (g *EventGenerator) addPulse(sig []float64, bucket int, amp float64) {
	clockHz := units.MegahertzToHertz(g.cfg.ClockMHz)
	tau := g.cfg.ShapeTime
	for tb := bucket; tb < len(sig); tb++ {
		t := float64(tb-bucket) / clockHz
		u := t / tau
		sig[tb] += amp * u * u * u * math.Exp(-3*u) * math.Sin(u)
	}
}

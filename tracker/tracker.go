// Package tracker integrates the motion of a single charged particle
// through uniform electric and magnetic fields with energy loss, producing
// a time-ordered trajectory suitable for detector-response projection.
package tracker

import (
	"errors"
	"fmt"
	"math"

	"github.com/attpc-tools/mcfit/physics"
)

// Chamber bounds of the active volume. A trajectory terminates when the
// particle leaves this region.
const (
	// MaxZ is the downstream end of the chamber in meters.
	MaxZ = 1.0
	// MaxRadius is the radial extent of the chamber in meters.
	MaxRadius = 0.275
)

// DefaultMaxSteps caps the number of integration steps for configurations
// that never exhaust the particle's energy (for example a zero stopping
// power in a pure magnetic field).
const DefaultMaxSteps = 100000

// minEnergyStep is the smallest energy decrement applied per position step
// when the stopping power is positive, in MeV. Prevents asymptotic stalls
// at the very end of the range.
const minEnergyStep = 1e-3

// TrackingError reports an integration that could not proceed.
type TrackingError struct {
	Step   int
	Reason string
}

func (e *TrackingError) Error() string {
	return fmt.Sprintf("tracker: integration failed at step %d: %s", e.Step, e.Reason)
}

// Tracker integrates particle trajectories for a fixed particle species,
// energy-loss curve and field configuration. Safe for concurrent use: all
// state is read-only after construction.
type Tracker struct {
	MassNum   uint
	ChargeNum uint
	Eloss     *physics.ElossTable
	Efield    [3]float64 // V/m
	Bfield    [3]float64 // Tesla

	// MaxSteps bounds a single integration. Zero means DefaultMaxSteps.
	MaxSteps int
}

// New validates the field configuration and returns a Tracker.
func New(massNum, chargeNum uint, eloss *physics.ElossTable, efield, bfield [3]float64) (*Tracker, error) {
	if massNum == 0 || chargeNum == 0 {
		return nil, fmt.Errorf("tracker: mass and charge numbers must be positive, got A=%d Z=%d", massNum, chargeNum)
	}
	if eloss == nil || eloss.Len() == 0 {
		return nil, errors.New("tracker: energy-loss table must be non-empty")
	}
	for i := 0; i < 3; i++ {
		if !isFinite(efield[i]) || !isFinite(bfield[i]) {
			return nil, errors.New("tracker: field vectors must be finite")
		}
	}
	return &Tracker{
		MassNum:   massNum,
		ChargeNum: chargeNum,
		Eloss:     eloss,
		Efield:    efield,
		Bfield:    bfield,
	}, nil
}

// TrackParticle integrates a trajectory from the given initial position
// (meters), energy per nucleon (MeV/u) and direction angles (radians)
// using the configured magnetic field.
func (t *Tracker) TrackParticle(x0, y0, z0, enu0, azi0, pol0 float64) (*Trajectory, error) {
	return t.TrackParticleWithB(x0, y0, z0, enu0, azi0, pol0, t.Bfield)
}

// TrackParticleWithB integrates with an explicit magnetic field vector,
// overriding the configured one for this trajectory only. The minimizer
// uses this to treat the field magnitude as a fit parameter.
func (t *Tracker) TrackParticleWithB(x0, y0, z0, enu0, azi0, pol0 float64, bfield [3]float64) (*Trajectory, error) {
	par, err := physics.NewParticle(t.MassNum, t.ChargeNum, enu0, azi0, pol0)
	if err != nil {
		return nil, err
	}

	pos := [3]float64{x0, y0, z0}
	traj := newTrajectory()
	traj.append(pos, 0, par.EnergyPerNucleon(), azi0, pol0)

	// A particle that starts with no energy yields a single terminal point.
	if par.Energy() <= 0 {
		return traj, nil
	}

	maxSteps := t.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	time := 0.0
	charge := par.Charge()
	for step := 1; step <= maxSteps; step++ {
		beta := par.Beta()
		if beta <= 0 {
			break
		}
		tstep := physics.PosStep / (beta * physics.SpeedOfLight)

		vel := par.Velocity()
		enBefore := par.Energy()
		force := physics.Lorentz(vel, t.Efield, bfield, charge)
		momSI := par.MomentumSI()
		for i := range momSI {
			momSI[i] += force[i] * tstep
		}
		// The field kick sets the new direction of motion; the energy
		// ledger below sets the magnitude. The magnetic field does no
		// work, so only the electric field and the stopping power can
		// change the kinetic energy.
		par.SetMomentumSI(momSI)

		work := charge * (t.Efield[0]*vel[0] + t.Efield[1]*vel[1] + t.Efield[2]*vel[2]) * tstep
		en := enBefore + work/physics.ElementaryCharge*1e-6

		stopping := t.Eloss.StoppingPower(traj.lastEnergy())
		if stopping > 0 {
			de := stopping * physics.PosStep
			if de < minEnergyStep {
				de = minEnergyStep
			}
			en -= de
		} else if stopping < 0 {
			return nil, &TrackingError{Step: step, Reason: "negative stopping power"}
		}
		par.SetEnergy(en)

		vel = par.Velocity()
		for i := range pos {
			pos[i] += vel[i] * tstep
		}
		time += tstep

		if !isFinite(pos[0]) || !isFinite(pos[1]) || !isFinite(pos[2]) || !isFinite(par.Energy()) {
			return nil, &TrackingError{Step: step, Reason: "non-finite state"}
		}

		traj.append(pos, time, par.EnergyPerNucleon(), par.Azimuth(), par.Polar())

		if par.Energy() <= 0 {
			break
		}
		if pos[2] > MaxZ || math.Hypot(pos[0], pos[1]) > MaxRadius {
			break
		}
	}

	return traj, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

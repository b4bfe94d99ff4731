package physics

import (
	"fmt"
	"math"
)

// Particle holds the kinematic state of a charged nucleus during tracking.
// The internal representation is the momentum 3-vector in MeV/c; energy,
// velocity and direction angles are derived from it with the exact
// relativistic relations.
type Particle struct {
	MassNum   uint // A, total number of nucleons
	ChargeNum uint // Z, number of protons

	momentum [3]float64 // MeV/c
	energy   float64    // total kinetic energy in MeV
}

// NewParticle creates a particle with the given mass and charge numbers,
// kinetic energy per nucleon (MeV/u) and direction angles (radians).
func NewParticle(massNum, chargeNum uint, enu, azimuth, polar float64) (*Particle, error) {
	if massNum == 0 || chargeNum == 0 {
		return nil, fmt.Errorf("particle mass and charge numbers must be positive, got A=%d Z=%d", massNum, chargeNum)
	}
	p := &Particle{MassNum: massNum, ChargeNum: chargeNum}
	p.SetKinematics(enu, azimuth, polar)
	return p, nil
}

// Mass returns the particle rest mass in MeV/c².
func (p *Particle) Mass() float64 { return float64(p.MassNum) * ProtonMass }

// MassKg returns the particle rest mass in kilograms.
func (p *Particle) MassKg() float64 { return p.Mass() * MeVToKg }

// Charge returns the particle charge in Coulombs.
func (p *Particle) Charge() float64 { return float64(p.ChargeNum) * ElementaryCharge }

// Energy returns the total kinetic energy in MeV.
func (p *Particle) Energy() float64 { return p.energy }

// EnergyPerNucleon returns the kinetic energy per nucleon in MeV/u.
func (p *Particle) EnergyPerNucleon() float64 { return p.energy / float64(p.MassNum) }

// Momentum returns the momentum 3-vector in MeV/c.
func (p *Particle) Momentum() [3]float64 { return p.momentum }

// MomentumMag returns the momentum magnitude in MeV/c.
func (p *Particle) MomentumMag() float64 {
	return math.Sqrt(p.momentum[0]*p.momentum[0] + p.momentum[1]*p.momentum[1] + p.momentum[2]*p.momentum[2])
}

// SetKinematics sets the particle state from an energy per nucleon (MeV/u)
// and direction angles (radians).
func (p *Particle) SetKinematics(enu, azimuth, polar float64) {
	p.energy = enu * float64(p.MassNum)
	if p.energy < 0 {
		p.energy = 0
	}
	m := p.Mass()
	momMag := math.Sqrt((p.energy+m)*(p.energy+m) - m*m)
	p.momentum = [3]float64{
		momMag * math.Cos(azimuth) * math.Sin(polar),
		momMag * math.Sin(azimuth) * math.Sin(polar),
		momMag * math.Cos(polar),
	}
}

// SetMomentumSI sets the momentum from a vector in kg·m/s and re-derives
// the kinetic energy.
func (p *Particle) SetMomentumSI(mom [3]float64) {
	for i := range mom {
		p.momentum[i] = mom[i] / ElementaryCharge * SpeedOfLight * 1e-6
	}
	m := p.Mass()
	momMag := p.MomentumMag()
	p.energy = math.Sqrt(momMag*momMag+m*m) - m
}

// SetEnergy rescales the momentum magnitude to match the given total
// kinetic energy (MeV), preserving the direction of motion.
func (p *Particle) SetEnergy(energy float64) {
	if energy < 0 {
		energy = 0
	}
	azi, pol := p.Azimuth(), p.Polar()
	m := p.Mass()
	momMag := math.Sqrt((energy+m)*(energy+m) - m*m)
	p.momentum = [3]float64{
		momMag * math.Cos(azi) * math.Sin(pol),
		momMag * math.Sin(azi) * math.Sin(pol),
		momMag * math.Cos(pol),
	}
	p.energy = energy
}

// MomentumSI returns the momentum 3-vector in kg·m/s.
func (p *Particle) MomentumSI() [3]float64 {
	var out [3]float64
	for i, m := range p.momentum {
		out[i] = m * 1e6 * ElementaryCharge / SpeedOfLight
	}
	return out
}

// Beta returns v/c, computed as pc/E_total so it is exact for any energy.
func (p *Particle) Beta() float64 {
	etot := p.energy + p.Mass()
	if etot == 0 {
		return 0
	}
	return p.MomentumMag() / etot
}

// Gamma returns the Lorentz factor.
func (p *Particle) Gamma() float64 {
	b := p.Beta()
	if b >= 1 {
		return math.Inf(1)
	}
	return 1 / math.Sqrt(1-b*b)
}

// Velocity returns the velocity 3-vector in m/s.
func (p *Particle) Velocity() [3]float64 {
	gm := p.Gamma() * p.MassKg()
	if gm == 0 {
		return [3]float64{}
	}
	momSI := p.MomentumSI()
	var out [3]float64
	for i := range momSI {
		out[i] = momSI[i] / gm
	}
	return out
}

// Azimuth returns the azimuthal angle of the trajectory in radians.
func (p *Particle) Azimuth() float64 {
	return math.Atan2(p.momentum[1], p.momentum[0])
}

// Polar returns the polar angle of the trajectory in radians.
func (p *Particle) Polar() float64 {
	return math.Atan2(math.Hypot(p.momentum[0], p.momentum[1]), p.momentum[2])
}

// Lorentz computes the electromagnetic force q(E + v×B) in Newtons.
// Velocity in m/s, efield in V/m, bfield in Tesla, charge in Coulombs.
func Lorentz(vel, efield, bfield [3]float64, charge float64) [3]float64 {
	return [3]float64{
		charge * (efield[0] + vel[1]*bfield[2] - vel[2]*bfield[1]),
		charge * (efield[1] + vel[2]*bfield[0] - vel[0]*bfield[2]),
		charge * (efield[2] + vel[0]*bfield[1] - vel[1]*bfield[0]),
	}
}

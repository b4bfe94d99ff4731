package physics

import (
	"fmt"
	"math"
)

// Gas describes the detector fill gas for stopping-power calculations.
type Gas struct {
	MolarMass    float64 // g/mol
	NumElectrons int     // electrons per molecule (total Z)
	MeanExcPot   float64 // mean excitation potential in eV
	Pressure     float64 // Torr
}

// Density returns the gas density in g/cm³ at 20°C.
func (g *Gas) Density() float64 {
	return g.Pressure / 760.0 * g.MolarMass / 24040.0
}

// ElectronDensity returns electrons per cm³.
func (g *Gas) ElectronDensity() float64 {
	return AvogadroNumber * float64(g.NumElectrons) * g.Density() / g.MolarMass
}

// ElectronDensityPerM3 returns electrons per m³.
func (g *Gas) ElectronDensityPerM3() float64 {
	return g.ElectronDensity() * 1e6
}

// Bethe evaluates the Bethe stopping-power formula for the particle in
// this gas, returning dE/dx in MeV/m. A stopped particle (beta = 0) has
// infinite stopping power; an ultrarelativistic one (beta = 1) returns 0.
func (g *Gas) Bethe(p *Particle) float64 {
	ne := g.ElectronDensityPerM3()
	z := float64(p.ChargeNum)
	exc := g.MeanExcPot * 1e-6 // MeV

	betaSq := p.Beta() * p.Beta()
	switch {
	case betaSq == 0:
		return math.Inf(1)
	case betaSq >= 1:
		return 0
	}

	frnt := ne * z * z * math.Pow(ElementaryCharge, 4) /
		(ElectronMass * MeVToKg * SpeedOfLight * SpeedOfLight * betaSq * 4 * math.Pi * VacuumPermittivity * VacuumPermittivity)
	lnt := math.Log(2 * ElectronMass * betaSq / (exc * (1 - betaSq)))
	dedx := frnt * (lnt - betaSq) // J/m

	return dedx / ElementaryCharge * 1e-6 // MeV/m
}

// BuildElossTable tabulates the Bethe stopping power for a particle with
// the given mass and charge numbers in 1 keV/u steps, producing a table
// the Tracker can consume. numBins is the number of 1 keV entries; the
// zero-energy bin is set to the 1 keV value since Bethe diverges there.
func (g *Gas) BuildElossTable(massNum, chargeNum uint, numBins int, mode InterpMode) (*ElossTable, error) {
	if numBins <= 1 {
		return nil, fmt.Errorf("physics: eloss table needs at least 2 bins, got %d", numBins)
	}
	p, err := NewParticle(massNum, chargeNum, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	values := make([]float64, numBins)
	for i := 1; i < numBins; i++ {
		p.SetKinematics(float64(i)/1000, 0, 0)
		v := g.Bethe(p)
		// The Bethe formula goes negative below its validity range; treat
		// those bins as zero stopping.
		if v < 0 {
			v = 0
		}
		values[i] = v
	}
	values[0] = values[1]
	return NewElossTable(values, mode)
}

package physics

// Physical constants in the unit system used throughout the engine:
// energies in MeV, momenta in MeV/c, masses in MeV/c², distances in meters,
// times in seconds. Values follow CODATA 2010.
const (
	// ProtonMass is the proton rest mass in MeV/c².
	ProtonMass = 938.272046
	// ElectronMass is the electron rest mass in MeV/c².
	ElectronMass = 0.510998928
	// ElementaryCharge is the elementary charge in Coulombs.
	ElementaryCharge = 1.602176565e-19
	// SpeedOfLight is the speed of light in m/s.
	SpeedOfLight = 2.99792458e8
	// VacuumPermittivity is ε₀ in F/m.
	VacuumPermittivity = 8.854187817e-12
	// AvogadroNumber is particles per mole.
	AvogadroNumber = 6.02214129e23
	// MeVToKg converts a mass in MeV/c² to kilograms.
	MeVToKg = 1.782661845e-30

	// PosStep is the fixed position step of the trajectory integrator, in
	// meters. The time step of each integration step is derived from it.
	PosStep = 1e-3
)

// Package units provides shared conversions between the mixed unit
// conventions of the simulation: positions in meters, drift velocities in
// cm/µs, clock frequencies in MHz and energies in MeV.
package units

// CmPerMicrosecondToMetersPerSecond converts a drift velocity component
// from the conventional cm/µs to SI m/s.
func CmPerMicrosecondToMetersPerSecond(v float64) float64 {
	return v * 1e4
}

// MegahertzToHertz converts a clock frequency from MHz to Hz.
func MegahertzToHertz(f float64) float64 {
	return f * 1e6
}

// MeVToElectronVolts converts an energy from MeV to eV.
func MeVToElectronVolts(e float64) float64 {
	return e * 1e6
}

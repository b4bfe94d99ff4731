package physics

import (
	"math"
	"testing"
)

func TestNewParticleValidation(t *testing.T) {
	if _, err := NewParticle(0, 1, 1.0, 0, 0); err == nil {
		t.Error("expected error for zero mass number")
	}
	if _, err := NewParticle(1, 0, 1.0, 0, 0); err == nil {
		t.Error("expected error for zero charge number")
	}
}

func TestParticleKinematics(t *testing.T) {
	// 1 MeV/u proton moving in the x-y plane.
	p, err := NewParticle(1, 1, 1.0, 0, math.Pi/2)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Energy(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected 1 MeV kinetic energy, got %v", got)
	}
	if got := p.EnergyPerNucleon(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected 1 MeV/u, got %v", got)
	}

	// p² = (T+m)² − m² must hold exactly.
	m := p.Mass()
	want := math.Sqrt((1.0+m)*(1.0+m) - m*m)
	if got := p.MomentumMag(); math.Abs(got-want) > 1e-9 {
		t.Errorf("momentum magnitude: got %v, want %v", got, want)
	}

	if beta := p.Beta(); beta <= 0 || beta >= 1 {
		t.Errorf("beta out of (0,1): %v", beta)
	}
	if gamma := p.Gamma(); gamma <= 1 {
		t.Errorf("gamma must exceed 1 for a moving particle, got %v", gamma)
	}

	// Direction angles must round-trip.
	if got := p.Polar(); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("polar angle: got %v, want %v", got, math.Pi/2)
	}
	if got := p.Azimuth(); math.Abs(got) > 1e-12 {
		t.Errorf("azimuth: got %v, want 0", got)
	}
}

func TestParticleMomentumSIRoundTrip(t *testing.T) {
	p, err := NewParticle(4, 2, 2.5, 0.3, 1.1)
	if err != nil {
		t.Fatal(err)
	}

	enBefore := p.Energy()
	p.SetMomentumSI(p.MomentumSI())
	if got := p.Energy(); math.Abs(got-enBefore) > 1e-9 {
		t.Errorf("energy changed through SI momentum round-trip: %v -> %v", enBefore, got)
	}
}

func TestParticleSetEnergyPreservesDirection(t *testing.T) {
	p, err := NewParticle(1, 1, 3.0, 0.7, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	azi, pol := p.Azimuth(), p.Polar()

	p.SetEnergy(1.5)
	if got := p.Energy(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("energy: got %v, want 1.5", got)
	}
	if got := p.Azimuth(); math.Abs(got-azi) > 1e-9 {
		t.Errorf("azimuth changed: %v -> %v", azi, got)
	}
	if got := p.Polar(); math.Abs(got-pol) > 1e-9 {
		t.Errorf("polar changed: %v -> %v", pol, got)
	}

	// Negative energies clamp to a stopped particle.
	p.SetEnergy(-1)
	if got := p.Energy(); got != 0 {
		t.Errorf("expected clamped zero energy, got %v", got)
	}
	if got := p.Beta(); got != 0 {
		t.Errorf("stopped particle must have beta 0, got %v", got)
	}
}

func TestLorentzForce(t *testing.T) {
	// Pure electric field: F = qE.
	f := Lorentz([3]float64{0, 0, 0}, [3]float64{1e5, 0, 0}, [3]float64{}, ElementaryCharge)
	if math.Abs(f[0]-ElementaryCharge*1e5) > 1e-30 || f[1] != 0 || f[2] != 0 {
		t.Errorf("electric-only force wrong: %v", f)
	}

	// v along x, B along z: F = qv×B points along −y.
	f = Lorentz([3]float64{1e6, 0, 0}, [3]float64{}, [3]float64{0, 0, 1}, ElementaryCharge)
	if f[1] >= 0 {
		t.Errorf("expected negative y force component, got %v", f[1])
	}
	if f[0] != 0 || f[2] != 0 {
		t.Errorf("unexpected force components: %v", f)
	}
}

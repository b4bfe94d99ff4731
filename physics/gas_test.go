package physics

import (
	"math"
	"testing"
)

// heliumAt200Torr is a typical active-target fill gas.
func heliumAt200Torr() *Gas {
	return &Gas{MolarMass: 4.002, NumElectrons: 2, MeanExcPot: 41.8, Pressure: 200}
}

func TestGasDensity(t *testing.T) {
	gas := heliumAt200Torr()

	density := gas.Density()
	if density <= 0 {
		t.Fatalf("density must be positive, got %v", density)
	}

	// Density scales linearly with pressure.
	gas.Pressure = 400
	if got := gas.Density(); math.Abs(got-2*density) > 1e-15 {
		t.Errorf("density at doubled pressure: got %v, want %v", got, 2*density)
	}

	if got := gas.ElectronDensityPerM3(); math.Abs(got-gas.ElectronDensity()*1e6) > got*1e-12 {
		t.Errorf("per-m3 electron density inconsistent with per-cm3 value")
	}
}

func TestBetheStoppingPower(t *testing.T) {
	gas := heliumAt200Torr()

	p, err := NewParticle(1, 1, 2.0, 0, math.Pi/2)
	if err != nil {
		t.Fatal(err)
	}
	dedx := gas.Bethe(p)
	if dedx <= 0 {
		t.Fatalf("stopping power for a 2 MeV proton must be positive, got %v", dedx)
	}

	// A faster particle of the same species loses energy more slowly in
	// this regime (1/β² dominance).
	p.SetKinematics(10.0, 0, math.Pi/2)
	faster := gas.Bethe(p)
	if faster >= dedx {
		t.Errorf("stopping power should fall with energy: %v at 2 MeV/u vs %v at 10 MeV/u", dedx, faster)
	}

	// A stopped particle has divergent stopping power.
	p.SetEnergy(0)
	if got := gas.Bethe(p); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf stopping power at rest, got %v", got)
	}
}

func TestBuildElossTable(t *testing.T) {
	gas := heliumAt200Torr()

	tbl, err := gas.BuildElossTable(1, 1, 1000, InterpNearest)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1000 {
		t.Fatalf("expected 1000 bins, got %d", tbl.Len())
	}

	// Table values must agree with direct Bethe evaluation at bin centers.
	p, _ := NewParticle(1, 1, 0.5, 0, math.Pi/2)
	want := gas.Bethe(p)
	if got := tbl.StoppingPower(0.5); math.Abs(got-want) > math.Abs(want)*1e-12 {
		t.Errorf("bin 500: got %v, want %v", got, want)
	}

	if _, err := gas.BuildElossTable(1, 1, 1, InterpNearest); err == nil {
		t.Error("expected error for a single-bin table")
	}
}

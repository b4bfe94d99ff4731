package units

import "testing"

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"drift velocity", CmPerMicrosecondToMetersPerSecond(5.2), 5.2e4},
		{"clock frequency", MegahertzToHertz(12.5), 12.5e6},
		{"energy", MeVToElectronVolts(0.5), 5e5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

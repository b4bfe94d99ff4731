package eventgen

import (
	"fmt"

	"github.com/attpc-tools/mcfit/internal/monitoring"
)

// TriggerConfig holds the multiplicity-trigger electronics parameters.
type TriggerConfig struct {
	PadThreshold          float64 // discriminator threshold on a pad signal
	TriggerWidthBuckets   int     // width of the per-pad trigger pulse, in time buckets
	MultiplicityWindow    int     // sliding-window length for multiplicity integration, in time buckets
	MultiplicityThreshold float64 // multiplicity level that fires the trigger
}

// Validate checks the trigger parameters.
func (c TriggerConfig) Validate() error {
	if c.TriggerWidthBuckets <= 0 {
		return fmt.Errorf("eventgen: trigger width must be positive, got %d buckets", c.TriggerWidthBuckets)
	}
	if c.MultiplicityWindow <= 0 {
		return fmt.Errorf("eventgen: multiplicity window must be positive, got %d buckets", c.MultiplicityWindow)
	}
	return nil
}

// TriggerSimulator emulates the detector's multiplicity trigger: each pad
// above threshold contributes a fixed-width pulse to its CoBo electronics
// group, per-CoBo pulses are integrated over a sliding window, and the
// trigger fires when any CoBo's multiplicity crosses the threshold.
type TriggerSimulator struct {
	cfg       TriggerConfig
	padToCobo map[uint32]int
	excluded  map[uint32]bool
}

// NewTriggerSimulator builds a simulator from a pad→CoBo mapping and an
// optional set of excluded pads (nil means no exclusions).
func NewTriggerSimulator(cfg TriggerConfig, padToCobo map[uint32]int, excluded map[uint32]bool) (*TriggerSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(padToCobo) == 0 {
		return nil, fmt.Errorf("eventgen: pad to CoBo map is empty")
	}
	if len(excluded) > 0 {
		monitoring.Logf("trigger: excluding %d pads", len(excluded))
	}
	return &TriggerSimulator{cfg: cfg, padToCobo: padToCobo, excluded: excluded}, nil
}

// FindTriggerSignals produces the per-CoBo trigger pulse trains for an
// event. Each pad whose signal crosses the threshold adds a rectangular
// pulse at every crossing, quantized to the trigger width.
func (ts *TriggerSimulator) FindTriggerSignals(evt Event) map[int][]float64 {
	out := make(map[int][]float64)
	for pad, sig := range evt {
		if ts.excluded[pad] {
			continue
		}
		cobo, ok := ts.padToCobo[pad]
		if !ok {
			continue
		}
		train, ok := out[cobo]
		if !ok {
			train = make([]float64, NumTimeBuckets)
			out[cobo] = train
		}
		tb := 0
		for tb < len(sig) {
			if sig[tb] <= ts.cfg.PadThreshold {
				tb++
				continue
			}
			end := tb + ts.cfg.TriggerWidthBuckets
			if end > len(train) {
				end = len(train)
			}
			for i := tb; i < end; i++ {
				train[i]++
			}
			// One pulse per crossing: skip ahead past this pulse.
			tb = end
		}
	}
	return out
}

// FindMultiplicitySignals integrates each CoBo's trigger pulse train over
// the sliding multiplicity window. The window sum is normalized by the
// trigger pulse width so the signal approximates the number of pads firing
// concurrently, which is the unit MultiplicityThreshold is expressed in.
func (ts *TriggerSimulator) FindMultiplicitySignals(trig map[int][]float64) map[int][]float64 {
	out := make(map[int][]float64, len(trig))
	w := ts.cfg.MultiplicityWindow
	width := float64(ts.cfg.TriggerWidthBuckets)
	for cobo, train := range trig {
		mult := make([]float64, len(train))
		var window float64
		for tb := range train {
			window += train[tb]
			if tb >= w {
				window -= train[tb-w]
			}
			mult[tb] = window / width
		}
		out[cobo] = mult
	}
	return out
}

// DidTrigger reports whether any CoBo's multiplicity signal crosses the
// multiplicity threshold.
func (ts *TriggerSimulator) DidTrigger(mult map[int][]float64) bool {
	for _, sig := range mult {
		for _, v := range sig {
			if v > ts.cfg.MultiplicityThreshold {
				return true
			}
		}
	}
	return false
}

// ProcessEvent runs the full trigger chain on an event, returning whether
// the trigger fired and how many pads the event touched.
func (ts *TriggerSimulator) ProcessEvent(evt Event) (bool, int) {
	trig := ts.FindTriggerSignals(evt)
	mult := ts.FindMultiplicitySignals(trig)
	return ts.DidTrigger(mult), len(evt)
}

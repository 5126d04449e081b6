package solve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the engine's solve-time knobs. Zero values are replaced with
// the defaults the solver has always shipped with, so a tuning file only
// needs to name the knobs it changes.
type Tuning struct {
	// WheelsTurns is the duration counter set when wheels activate. The
	// counter decays at the top of each turn, before the move, so the
	// effective boosted-move count is one less.
	WheelsTurns int `yaml:"wheels_turns"`
	// DrillTurns is the duration counter set when a drill activates.
	DrillTurns int `yaml:"drill_turns"`
	// BeaconSpacing is the minimum Manhattan distance between beacons.
	BeaconSpacing int `yaml:"beacon_spacing"`
	// DepthStep is the exploration depth cap increment. The search starts
	// at this cap and extends by the same amount while nothing scores.
	DepthStep int `yaml:"depth_step"`
	// RunwayLen is the clear straight run required before wheels activate.
	RunwayLen int `yaml:"runway_len"`
	// BonusRate is the dominant score for a bonus cell in the wrapping
	// value function.
	BonusRate float64 `yaml:"bonus_rate"`
	// ZoneSeed seeds the zone partitioner's rng.
	ZoneSeed int64 `yaml:"zone_seed"`
}

// DefaultTuning returns the stock knob values.
func DefaultTuning() *Tuning {
	t := &Tuning{}
	t.applyDefaults()
	return t
}

func (t *Tuning) applyDefaults() {
	if t.WheelsTurns <= 0 {
		t.WheelsTurns = 51
	}
	if t.DrillTurns <= 0 {
		t.DrillTurns = 31
	}
	if t.BeaconSpacing <= 0 {
		t.BeaconSpacing = 50
	}
	if t.DepthStep <= 0 {
		t.DepthStep = 5
	}
	if t.RunwayLen <= 0 {
		t.RunwayLen = 4
	}
	if t.BonusRate <= 0 {
		t.BonusRate = 100
	}
	if t.ZoneSeed == 0 {
		t.ZoneSeed = 1
	}
}

// LoadTuning reads a YAML tuning file and fills unset knobs with defaults.
func LoadTuning(path string) (*Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := &Tuning{}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}
	t.applyDefaults()
	return t, nil
}

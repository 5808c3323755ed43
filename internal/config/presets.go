package config

import "fmt"

// Preset is a named adjustment applied on top of a loaded configuration.
type Preset string

const (
	PresetClassic Preset = "classic" // The reference constants, unchanged
	PresetExplore Preset = "explore" // Explore more, decay slower
	PresetGreedy  Preset = "greedy"  // No exploration at all
	PresetSprint  Preset = "sprint"  // Small board and short budget for quick checks
)

// Presets lists the known presets in display order.
func Presets() []Preset {
	return []Preset{PresetClassic, PresetExplore, PresetGreedy, PresetSprint}
}

// ApplyPreset modifies the config based on a preset name.
// The empty preset leaves the config untouched.
func ApplyPreset(cfg *Config, preset Preset) error {
	switch preset {
	case "", PresetClassic:
		return nil
	case PresetExplore:
		cfg.Learning.Epsilon = 0.9
		cfg.Learning.EpsilonMin = 0.05
		cfg.Learning.EpsilonDecay = 0.999
	case PresetGreedy:
		cfg.Learning.Epsilon = 0
		cfg.Learning.EpsilonMin = 0
	case PresetSprint:
		cfg.Grid.Size = 10
		cfg.Grid.StartX = 2
		cfg.Grid.StartY = 2
		cfg.Training.Epochs = 100
		cfg.Training.MaxStepsPerEpoch = 1000
	default:
		return fmt.Errorf("config: unknown preset %q", preset)
	}
	return nil
}

package config

import (
	_ "embed"
)

//go:embed defaults/qsnake.yaml
var defaultYAML []byte

// Default returns the built-in configuration: a 20x20 board, 500 epochs and
// the classic learning constants.
func Default() Config {
	return Config{
		Seed: 0,
		Grid: GridConfig{
			Size:         20,
			StartX:       5,
			StartY:       5,
			StartHeading: "right",
		},
		Learning: LearningConfig{
			Alpha:        0.1,
			Gamma:        0.9,
			Epsilon:      0.3,
			EpsilonMin:   0.01,
			EpsilonDecay: 0.995,
		},
		Rewards: RewardsConfig{
			Food:      10,
			Collision: -10,
			Step:      -0.1,
		},
		Training: TrainingConfig{
			Epochs:           500,
			MaxStepsPerEpoch: 5000,
			TickRate:         50,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

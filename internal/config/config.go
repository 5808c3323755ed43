// Package config provides YAML-based training configuration loading,
// named presets and validation.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/qsnake/internal/snake"
)

// Config contains everything needed to build one training run.
type Config struct {
	Seed     int64          `yaml:"seed"`
	Grid     GridConfig     `yaml:"grid"`
	Learning LearningConfig `yaml:"learning"`
	Rewards  RewardsConfig  `yaml:"rewards"`
	Training TrainingConfig `yaml:"training"`
}

// GridConfig defines the board and where each epoch starts.
type GridConfig struct {
	Size         int    `yaml:"size"`
	StartX       int    `yaml:"start_x"`
	StartY       int    `yaml:"start_y"`
	StartHeading string `yaml:"start_heading"` // up|right|down|left
}

// LearningConfig holds the Q-learning constants and exploration schedule.
type LearningConfig struct {
	Alpha        float64 `yaml:"alpha"`
	Gamma        float64 `yaml:"gamma"`
	Epsilon      float64 `yaml:"epsilon"`
	EpsilonMin   float64 `yaml:"epsilon_min"`
	EpsilonDecay float64 `yaml:"epsilon_decay"`
}

// RewardsConfig holds the reward signal for each step outcome.
type RewardsConfig struct {
	Food      float64 `yaml:"food"`
	Collision float64 `yaml:"collision"`
	Step      float64 `yaml:"step"`
}

// TrainingConfig controls the epoch budget and pacing.
type TrainingConfig struct {
	Epochs           int `yaml:"epochs"`
	MaxStepsPerEpoch int `yaml:"max_steps_per_epoch"` // 0 = unlimited
	TickRate         int `yaml:"tick_rate"`           // Steps per second in watch mode
}

// Heading returns the parsed start heading.
func (g GridConfig) Heading() snake.Direction {
	d, _ := snake.ParseDirection(g.StartHeading)
	return d
}

// Start returns the start cell.
func (g GridConfig) Start() snake.Position {
	return snake.Position{X: g.StartX, Y: g.StartY}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks that the configuration describes a runnable training session.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Grid.Size < 1 {
		add("grid.size must be at least 1, got %d", c.Grid.Size)
	}
	if c.Grid.StartX < 0 || c.Grid.StartX >= c.Grid.Size || c.Grid.StartY < 0 || c.Grid.StartY >= c.Grid.Size {
		add("grid start (%d,%d) is outside a %dx%d board", c.Grid.StartX, c.Grid.StartY, c.Grid.Size, c.Grid.Size)
	}
	if _, ok := snake.ParseDirection(c.Grid.StartHeading); !ok {
		add("grid.start_heading %q is not one of up, right, down, left", c.Grid.StartHeading)
	}

	l := c.Learning
	if l.Alpha <= 0 || l.Alpha > 1 {
		add("learning.alpha must be in (0,1], got %g", l.Alpha)
	}
	if l.Gamma < 0 || l.Gamma > 1 {
		add("learning.gamma must be in [0,1], got %g", l.Gamma)
	}
	if l.Epsilon < 0 || l.Epsilon > 1 {
		add("learning.epsilon must be in [0,1], got %g", l.Epsilon)
	}
	if l.EpsilonMin < 0 || l.EpsilonMin > 1 {
		add("learning.epsilon_min must be in [0,1], got %g", l.EpsilonMin)
	}
	if l.EpsilonDecay <= 0 || l.EpsilonDecay > 1 {
		add("learning.epsilon_decay must be in (0,1], got %g", l.EpsilonDecay)
	}

	if c.Training.Epochs < 1 {
		add("training.epochs must be at least 1, got %d", c.Training.Epochs)
	}
	if c.Training.MaxStepsPerEpoch < 0 {
		add("training.max_steps_per_epoch must not be negative, got %d", c.Training.MaxStepsPerEpoch)
	}
	if c.Training.TickRate < 0 {
		add("training.tick_rate must not be negative, got %d", c.Training.TickRate)
	}

	return errors.Join(errs...)
}

// qsnake trains a tabular Q-learning agent to play snake.
//
// Usage:
//
//	qsnake train             - Train headless and store the results
//	qsnake watch             - Train while drawing every step in the terminal
//	qsnake serve             - Start SSH server; each session watches its own run
//	qsnake runs              - List stored training runs
//	qsnake history <run>     - Show the learning curve of a stored run
//	qsnake config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Training config YAML (default: search path, then embedded)
//	--preset <name>  - Preset applied over the config: classic, explore, greedy, sprint
//	--seed <value>   - Set RNG seed for reproducible training
//	--epochs <n>     - Override the epoch budget
//	--db <path>      - Set database path (default: ~/.qsnake/runs.db)
//	--verbose        - Log every step
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/qsnake/internal/config"
)

var (
	// Global flags
	flagConfig  string
	flagPreset  string
	flagSeed    int64
	flagEpochs  int
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qsnake",
	Short: "Q-Snake - Watch a Q-learning agent learn to play snake",
	Long: `Q-Snake trains a tabular Q-learning agent on a square snake board.
The agent sees a 7-bit state (danger straight/left/right and the food
direction) and picks one of three relative actions.

Available commands:
  train    - Train headless and store the results
  watch    - Train while drawing the board in the terminal
  serve    - Start SSH server for remote watching
  runs     - List stored training runs
  history  - Show the learning curve of a stored run
  config   - Print the effective configuration

Examples:
  qsnake train --epochs 2000
  qsnake watch --preset explore
  qsnake runs --top
  qsnake history 3`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to training config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Preset: classic, explore, greedy, sprint")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config, then time)")
	rootCmd.PersistentFlags().IntVar(&flagEpochs, "epochs", 0, "Override number of training epochs")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.qsnake/runs.db", "Path to results database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every training step")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the effective configuration from file, preset and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
		return config.Config{}, err
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagEpochs > 0 {
		cfg.Training.Epochs = flagEpochs
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger on stderr.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "qsnake",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

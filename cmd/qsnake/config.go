package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/qsnake/internal/config"
)

var flagListPresets bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration training would use, as YAML.

The result reflects --config (or the search path), --preset, --seed and
--epochs. Redirect it to a file to start a custom configuration.

Search path:
  ~/.qsnake/configs/qsnake.yaml
  ./configs/qsnake.yaml
  built-in defaults

Examples:
  qsnake config > my.yaml
  qsnake config --preset explore
  qsnake config --presets`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagListPresets, "presets", false, "List available presets")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagListPresets {
		for _, p := range config.Presets() {
			fmt.Println(p)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

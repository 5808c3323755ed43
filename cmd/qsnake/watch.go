package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qsnake/internal/core"
	"github.com/vovakirdan/qsnake/internal/platform/tui"
	"github.com/vovakirdan/qsnake/internal/storage"
	"github.com/vovakirdan/qsnake/internal/train"
)

var (
	flagFPS         int
	flagWatchNoSave bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Train while drawing the board",
	Long: `Train in the terminal, drawing the board after every step.

Controls:
  P/Space    - Pause
  +/-        - Double/halve steps per tick
  S          - Stop after the current epoch
  ?          - Toggle full help
  Q/Ctrl+C   - Quit

When training completes the learning curve is shown and the run is stored.

Examples:
  qsnake watch
  qsnake watch --fps 10
  qsnake watch --preset sprint --seed 7`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagFPS, "fps", 0, "Ticks per second (0 = training.tick_rate from config)")
	watchCmd.Flags().BoolVar(&flagWatchNoSave, "no-save", false, "Do not store the run in the database")
}

func runWatch(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns the terminal; --verbose logs to a file instead.
	logger := log.New(io.Discard)
	if flagVerbose {
		f, err := os.OpenFile("qsnake-watch.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "qsnake", Level: log.DebugLevel})
	}

	ctrl, err := train.New(cfg, train.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if bw, bh := tui.BoardSize(cfg.Grid.Size); bw > width || bh+2 > height {
		fmt.Fprintf(os.Stderr, "Warning: a %dx%d board needs a %dx%d terminal\n", cfg.Grid.Size, cfg.Grid.Size, bw, bh+2)
	}

	tickRate := cfg.Training.TickRate
	if flagFPS > 0 {
		tickRate = flagFPS
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tickRate,
		Seed:     ctrl.Seed(),
	}

	var store *storage.Store
	if !flagWatchNoSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	meta := storage.RunMeta{Seed: ctrl.Seed(), Preset: flagPreset, GridSize: cfg.Grid.Size}
	final, err := tui.Run(ctrl, store, meta, rc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if final.SaveErr() != nil {
		fmt.Fprintf(os.Stderr, "Error saving run: %v\n", final.SaveErr())
		os.Exit(1)
	}
	if ctrl.Done() {
		printSummary(ctrl.Summary(), final.RunID())
	}
}

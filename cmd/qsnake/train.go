package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qsnake/internal/export"
	"github.com/vovakirdan/qsnake/internal/platform/tui"
	"github.com/vovakirdan/qsnake/internal/storage"
	"github.com/vovakirdan/qsnake/internal/train"
)

var (
	flagExport string
	flagNoSave bool
	flagQuiet  bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train headless",
	Long: `Run the full epoch budget without drawing the board.

Each finished epoch is logged to stderr. Ctrl+C stops after the epoch in
progress; the partial run is still stored.

Examples:
  qsnake train
  qsnake train --epochs 5000 --seed 42
  qsnake train --preset sprint --export ./curve.parquet
  qsnake train --no-save`,
	Run: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagExport, "export", "", "Write per-epoch history to this Parquet file")
	trainCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the run in the database")
	trainCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
}

func runTrain(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()
	if flagQuiet {
		logger.SetLevel(log.WarnLevel)
	}

	ctrl, err := train.New(cfg, train.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("training started",
		"seed", ctrl.Seed(),
		"grid", cfg.Grid.Size,
		"epochs", cfg.Training.Epochs,
		"preset", flagPreset,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history := ctrl.Run(ctx)
	summary := ctrl.Summary()

	var runID int64
	if !flagNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
			os.Exit(1)
		}
		meta := storage.RunMeta{Seed: ctrl.Seed(), Preset: flagPreset, GridSize: cfg.Grid.Size}
		runID, err = store.SaveRun(context.Background(), meta, summary, history)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
			os.Exit(1)
		}
	}

	if flagExport != "" {
		if err := export.WriteHistory(flagExport, runID, ctrl.Seed(), history); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting history: %v\n", err)
			os.Exit(1)
		}
		logger.Info("history exported", "path", flagExport)
	}

	printSummary(summary, runID)
	fmt.Println()

	width := 80
	if w, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
	}
	fmt.Println(tui.RenderCurve(train.Scores(history), width, 12))
}

// printSummary writes the run statistics to stdout.
func printSummary(s train.Summary, runID int64) {
	if runID != 0 {
		fmt.Printf("Run #%d\n", runID)
	}
	fmt.Printf("  %-16s %d\n", "Epochs", s.Epochs)
	fmt.Printf("  %-16s %d (epoch %d)\n", "Best score", s.BestScore, s.BestEpoch+1)
	fmt.Printf("  %-16s %.2f\n", "Mean score", s.MeanScore)
	fmt.Printf("  %-16s %.2f\n", fmt.Sprintf("Mean last %d", train.RecentWindow), s.RecentMean)
	fmt.Printf("  %-16s %d\n", "Total steps", s.TotalSteps)
	fmt.Printf("  %-16s %.4f\n", "Final epsilon", s.FinalEpsilon)
	fmt.Printf("  %-16s %d\n", "States visited", s.Visited)
	fmt.Printf("  %-16s %d\n", "Collisions", s.Collisions)
}

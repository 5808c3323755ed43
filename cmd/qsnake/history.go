package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qsnake/internal/export"
	"github.com/vovakirdan/qsnake/internal/platform/tui"
	"github.com/vovakirdan/qsnake/internal/storage"
	"github.com/vovakirdan/qsnake/internal/train"
)

var (
	flagCurveHeight   int
	flagHistoryExport string
)

var historyCmd = &cobra.Command{
	Use:   "history <run>",
	Short: "Show the learning curve of a stored run",
	Long: `Print the summary and per-epoch score curve of a stored run.

Examples:
  qsnake history 3
  qsnake history 3 --height 20
  qsnake history 3 --export ./run3.parquet`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagCurveHeight, "height", 12, "Curve height in rows")
	historyCmd.Flags().StringVar(&flagHistoryExport, "export", "", "Write the history to this Parquet file")
}

func runHistory(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run ID %q\n", args[0])
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.Run(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no run #%d\n", id)
		fmt.Fprintln(os.Stderr, "Run 'qsnake runs' to see stored runs.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	history, err := store.RunHistory(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if flagHistoryExport != "" {
		if err := export.WriteHistory(flagHistoryExport, run.ID, run.Seed, history); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting history: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d epochs to %s\n", len(history), flagHistoryExport)
		return
	}

	fmt.Printf("Run #%d - seed %d, %dx%d board, %s\n",
		run.ID, run.Seed, run.GridSize, run.GridSize, run.CreatedAt.Format("2006-01-02 15:04"))
	printSummary(train.Summary{
		Epochs:       run.Epochs,
		BestScore:    run.BestScore,
		BestEpoch:    run.BestEpoch,
		MeanScore:    run.MeanScore,
		RecentMean:   run.RecentMean,
		TotalSteps:   run.TotalSteps,
		FinalEpsilon: run.FinalEpsilon,
		Visited:      run.Visited,
		Collisions:   train.Summarize(history).Collisions,
	}, 0)
	fmt.Println()

	width := 80
	if w, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
	}
	fmt.Println(tui.RenderCurve(train.Scores(history), width, flagCurveHeight))
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qsnake/internal/platform/tui"
	"github.com/vovakirdan/qsnake/internal/storage"
)

var (
	flagRunsLimit   int
	flagRunsTop     bool
	flagInteractive bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored training runs",
	Long: `Display stored training runs, newest first.

Examples:
  qsnake runs
  qsnake runs --top --limit 5
  qsnake runs -i             # Browse runs and their curves interactively`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&flagRunsLimit, "limit", "n", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTop, "top", false, "Order by best score instead of date")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table")
}

func runRuns(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunRuns(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var runs []storage.RunEntry
	if flagRunsTop {
		runs, err = store.TopRuns(flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'qsnake train' to record the first one!")
		return
	}

	fmt.Printf("  %-5s  %-7s  %-5s  %-7s  %-9s  %-8s  %s\n", "Run", "Epochs", "Best", "Mean", "Steps", "Preset", "Date")
	fmt.Printf("  %-5s  %-7s  %-5s  %-7s  %-9s  %-8s  %s\n", "---", "------", "----", "----", "-----", "------", "----")
	for _, r := range runs {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Printf("  %-5d  %-7d  %-5d  %-7.2f  %-9d  %-8s  %s\n",
			r.ID, r.Epochs, r.BestScore, r.MeanScore, r.TotalSteps, preset,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if high, err := store.HighScore(); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
}

package train

// EndReason records why an epoch finished.
type EndReason string

const (
	EndCollision EndReason = "collision"  // Head left the board or hit the body
	EndBoardFull EndReason = "board_full" // Snake covers every cell, no food can spawn
	EndStepCap   EndReason = "step_cap"   // max_steps_per_epoch reached
)

// EpochRecord is the outcome of one finished epoch. Records are appended in
// order and never modified afterwards.
type EpochRecord struct {
	Epoch int       // 0-based epoch index
	Score int       // Food eaten during the epoch
	Steps int       // Steps taken during the epoch
	End   EndReason // Why the epoch finished
}

// Summary aggregates a score history.
type Summary struct {
	Epochs       int
	BestScore    int
	BestEpoch    int
	MeanScore    float64
	RecentMean   float64 // Mean over the last RecentWindow epochs
	TotalSteps   int
	FinalEpsilon float64
	Visited      int // States with a non-zero value-table row
	Collisions   int
}

// RecentWindow is the number of trailing epochs averaged into Summary.RecentMean.
const RecentWindow = 50

// Summarize computes score statistics over a history.
// The learner-dependent fields (FinalEpsilon, Visited) are left zero.
func Summarize(history []EpochRecord) Summary {
	s := Summary{Epochs: len(history)}
	if len(history) == 0 {
		return s
	}

	total := 0
	for i, rec := range history {
		total += rec.Score
		s.TotalSteps += rec.Steps
		if rec.Score > s.BestScore || i == 0 {
			s.BestScore = rec.Score
			s.BestEpoch = rec.Epoch
		}
		if rec.End == EndCollision {
			s.Collisions++
		}
	}
	s.MeanScore = float64(total) / float64(len(history))

	recent := history[max(0, len(history)-RecentWindow):]
	recentTotal := 0
	for _, rec := range recent {
		recentTotal += rec.Score
	}
	s.RecentMean = float64(recentTotal) / float64(len(recent))

	return s
}

// Scores extracts the per-epoch scores in epoch order.
func Scores(history []EpochRecord) []int {
	out := make([]int, len(history))
	for i, rec := range history {
		out[i] = rec.Score
	}
	return out
}

// MovingAverage smooths scores with a trailing window. Early points average
// over however many epochs exist so far.
func MovingAverage(scores []int, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(scores))
	sum := 0
	for i, v := range scores {
		sum += v
		if i >= window {
			sum -= scores[i-window]
		}
		out[i] = float64(sum) / float64(min(i+1, window))
	}
	return out
}

package train

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	hist := []EpochRecord{
		{Epoch: 0, Score: 1, Steps: 10, End: EndCollision},
		{Epoch: 1, Score: 4, Steps: 30, End: EndCollision},
		{Epoch: 2, Score: 4, Steps: 25, End: EndStepCap},
		{Epoch: 3, Score: 3, Steps: 20, End: EndCollision},
	}

	s := Summarize(hist)
	if s.Epochs != 4 || s.TotalSteps != 85 {
		t.Errorf("counts = %+v", s)
	}
	if s.BestScore != 4 || s.BestEpoch != 1 {
		t.Errorf("best = %d at %d, expected first 4 at epoch 1", s.BestScore, s.BestEpoch)
	}
	if math.Abs(s.MeanScore-3.0) > 1e-12 {
		t.Errorf("mean = %v, expected 3", s.MeanScore)
	}
	if s.Collisions != 3 {
		t.Errorf("collisions = %d, expected 3", s.Collisions)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s.Epochs != 0 || s.MeanScore != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestRecentMeanWindow(t *testing.T) {
	hist := make([]EpochRecord, RecentWindow+10)
	for i := range hist {
		hist[i] = EpochRecord{Epoch: i}
		if i >= 10 {
			hist[i].Score = 2
		}
	}
	if s := Summarize(hist); s.RecentMean != 2 {
		t.Errorf("recent mean = %v, expected 2", s.RecentMean)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]int{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("MovingAverage = %v, expected %v", got, want)
		}
	}

	if got := MovingAverage([]int{5}, 0); got[0] != 5 {
		t.Errorf("window < 1 should behave as 1, got %v", got)
	}
}

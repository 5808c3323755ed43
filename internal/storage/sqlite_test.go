package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/qsnake/internal/train"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleHistory(scores ...int) []train.EpochRecord {
	hist := make([]train.EpochRecord, len(scores))
	for i, s := range scores {
		hist[i] = train.EpochRecord{Epoch: i, Score: s, Steps: 10 + s, End: train.EndCollision}
	}
	return hist
}

func saveSample(t *testing.T, store *Store, seed int64, scores ...int) int64 {
	t.Helper()
	hist := sampleHistory(scores...)
	sum := train.Summarize(hist)
	sum.FinalEpsilon = 0.05
	id, err := store.SaveRun(context.Background(), RunMeta{Seed: seed, Preset: "classic", GridSize: 20}, sum, hist)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveRunAndHistory(t *testing.T) {
	store := openTestStore(t)

	id := saveSample(t, store, 42, 0, 3, 1, 5, 2)

	run, err := store.Run(id)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if run.Seed != 42 || run.Preset != "classic" || run.GridSize != 20 {
		t.Errorf("run meta = %+v", run)
	}
	if run.Epochs != 5 || run.BestScore != 5 || run.BestEpoch != 3 {
		t.Errorf("run summary = %+v", run)
	}
	if run.FinalEpsilon != 0.05 {
		t.Errorf("final epsilon = %v, expected 0.05", run.FinalEpsilon)
	}

	hist, err := store.RunHistory(id)
	if err != nil {
		t.Fatalf("RunHistory() failed: %v", err)
	}
	want := sampleHistory(0, 3, 1, 5, 2)
	if len(hist) != len(want) {
		t.Fatalf("history length = %d, expected %d", len(hist), len(want))
	}
	for i := range want {
		if hist[i] != want[i] {
			t.Errorf("epoch %d = %+v, expected %+v", i, hist[i], want[i])
		}
	}
}

func TestRecentAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	first := saveSample(t, store, 1, 1, 2)
	second := saveSample(t, store, 2, 7)
	third := saveSample(t, store, 3, 4, 4)

	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 || recent[0].ID != third || recent[2].ID != first {
		t.Errorf("recent order = %+v", recent)
	}

	top, err := store.TopRuns(2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != second || top[1].ID != third {
		t.Errorf("top order = %+v", top)
	}

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 7 {
		t.Errorf("high score = %d, expected 7", high)
	}
}

func TestHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("high score = %d, expected 0", high)
	}
}

func TestRunNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Run(99); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run(99) error = %v, expected ErrRunNotFound", err)
	}
	if _, err := store.RunHistory(99); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("RunHistory(99) error = %v, expected ErrRunNotFound", err)
	}
	if err := store.DeleteRun(99); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("DeleteRun(99) error = %v, expected ErrRunNotFound", err)
	}
}

func TestDeleteRun(t *testing.T) {
	store := openTestStore(t)

	id := saveSample(t, store, 5, 1, 2, 3)
	keep := saveSample(t, store, 6, 4)

	if err := store.DeleteRun(id); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}
	if _, err := store.Run(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("deleted run still present: %v", err)
	}
	hist, err := store.RunHistory(keep)
	if err != nil || len(hist) != 1 {
		t.Errorf("other run history = %v, %v", hist, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id := saveSample(t, store, 9, 2, 3)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Run(id); err != nil {
		t.Errorf("Run() after reopen failed: %v", err)
	}
}

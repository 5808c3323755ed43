// Package export writes training history to Parquet for external analysis.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/qsnake/internal/train"
)

// SchemaVersion is stored in the file metadata under the "schema" key.
const SchemaVersion = "qsnake_epoch_v1"

// EpochRow is one finished epoch of a training run.
type EpochRow struct {
	RunID     int64   `parquet:"run_id"`
	Seed      int64   `parquet:"seed"`
	Epoch     int32   `parquet:"epoch"`
	Score     int32   `parquet:"score"`
	Steps     int32   `parquet:"steps"`
	End       string  `parquet:"end_reason,dict"`
	MovingAvg float32 `parquet:"moving_avg"`
}

// Rows converts a history into Parquet rows. MovingAvg uses the
// train.RecentWindow trailing window.
func Rows(runID, seed int64, history []train.EpochRecord) []EpochRow {
	avg := train.MovingAverage(train.Scores(history), train.RecentWindow)
	rows := make([]EpochRow, len(history))
	for i, rec := range history {
		rows[i] = EpochRow{
			RunID:     runID,
			Seed:      seed,
			Epoch:     int32(rec.Epoch),
			Score:     int32(rec.Score),
			Steps:     int32(rec.Steps),
			End:       string(rec.End),
			MovingAvg: float32(avg[i]),
		}
	}
	return rows
}

// WriteHistory writes a run's history to outPath with zstd compression.
func WriteHistory(outPath string, runID, seed int64, history []train.EpochRecord) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	// Write to a temp file and rename atomically.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, Rows(runID, seed, history),
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
		parquet.KeyValueMetadata("epochs", strconv.Itoa(len(history))),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: rename parquet: %w", err)
	}
	return nil
}

// ReadHistory loads a file written by WriteHistory.
func ReadHistory(path string) ([]EpochRow, error) {
	rows, err := parquet.ReadFile[EpochRow](path)
	if err != nil {
		return nil, fmt.Errorf("export: read parquet: %w", err)
	}
	return rows, nil
}

// Package storage provides SQLite-based persistence for training results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Only run summaries and per-epoch score history are stored; the value
// table is never persisted.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/qsnake/internal/train"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// RunEntry is one stored training run.
type RunEntry struct {
	ID           int64
	Seed         int64
	Preset       string
	GridSize     int
	Epochs       int
	BestScore    int
	BestEpoch    int
	MeanScore    float64
	RecentMean   float64
	TotalSteps   int
	FinalEpsilon float64
	Visited      int
	CreatedAt    time.Time
}

// RunMeta describes how a run was configured.
type RunMeta struct {
	Seed     int64
	Preset   string
	GridSize int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			grid_size INTEGER NOT NULL,
			epochs INTEGER NOT NULL,
			best_score INTEGER NOT NULL,
			best_epoch INTEGER NOT NULL,
			mean_score REAL NOT NULL,
			recent_mean REAL NOT NULL,
			total_steps INTEGER NOT NULL,
			final_epsilon REAL NOT NULL,
			visited INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(best_score DESC);

		CREATE TABLE IF NOT EXISTS epochs (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			epoch INTEGER NOT NULL,
			score INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			end_reason TEXT NOT NULL,
			PRIMARY KEY (run_id, epoch)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and its per-epoch history in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(ctx context.Context, meta RunMeta, sum train.Summary, history []train.EpochRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs
		 (seed, preset, grid_size, epochs, best_score, best_epoch, mean_score, recent_mean, total_steps, final_epsilon, visited)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Seed, meta.Preset, meta.GridSize,
		sum.Epochs, sum.BestScore, sum.BestEpoch, sum.MeanScore, sum.RecentMean,
		sum.TotalSteps, sum.FinalEpsilon, sum.Visited,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO epochs (run_id, epoch, score, steps, end_reason) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare epoch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range history {
		if _, err := stmt.ExecContext(ctx, id, rec.Epoch, rec.Score, rec.Steps, string(rec.End)); err != nil {
			return 0, fmt.Errorf("storage: cannot save epoch %d: %w", rec.Epoch, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, seed, preset, grid_size, epochs, best_score, best_epoch,
	mean_score, recent_mean, total_steps, final_epsilon, visited, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunEntry, error) {
	var e RunEntry
	var createdAt any
	err := row.Scan(
		&e.ID, &e.Seed, &e.Preset, &e.GridSize, &e.Epochs,
		&e.BestScore, &e.BestEpoch, &e.MeanScore, &e.RecentMean,
		&e.TotalSteps, &e.FinalEpsilon, &e.Visited, &createdAt,
	)
	if err != nil {
		return e, err
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
}

// TopRuns retrieves the runs with the best single-epoch score.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY best_score DESC, mean_score DESC LIMIT ?`, limit)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Run retrieves a single run by ID.
func (s *Store) Run(id int64) (RunEntry, error) {
	e, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunEntry{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return RunEntry{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return e, nil
}

// RunHistory retrieves the per-epoch records of a run in epoch order.
func (s *Store) RunHistory(id int64) ([]train.EpochRecord, error) {
	if _, err := s.Run(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT epoch, score, steps, end_reason
		 FROM epochs
		 WHERE run_id = ?
		 ORDER BY epoch`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query epochs: %w", err)
	}
	defer rows.Close()

	var history []train.EpochRecord
	for rows.Next() {
		var rec train.EpochRecord
		var end string
		if err := rows.Scan(&rec.Epoch, &rec.Score, &rec.Steps, &end); err != nil {
			return nil, fmt.Errorf("storage: cannot scan epoch row: %w", err)
		}
		rec.End = train.EndReason(end)
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return history, nil
}

// HighScore returns the best epoch score across all runs.
// Returns 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(best_score) FROM runs").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// DeleteRun removes a run and its epoch history.
func (s *Store) DeleteRun(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM epochs WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete epochs: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

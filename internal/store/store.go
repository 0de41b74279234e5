// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typetest/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has fixed width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for finished test results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			finished_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			time_limit INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			word_set TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			extra INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			duration_s INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_samples (
			result_id TEXT NOT NULL,
			time_mark INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			PRIMARY KEY (result_id, time_mark)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a finished test and its WPM samples.
func (s *Store) InsertResult(ctx context.Context, res model.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, finished_at, mode, time_limit, word_count, word_set, wpm, raw_wpm, accuracy, correct, incorrect, extra, missed, duration_s)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.FinishedAt.UTC().Format(timeLayout),
		string(res.Mode),
		res.TimeLimitSeconds,
		res.WordCount,
		res.WordSet,
		res.WPM,
		res.RawWPM,
		res.Accuracy,
		res.Correct,
		res.Incorrect,
		res.Extra,
		res.Missed,
		res.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	if len(res.Samples) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_samples (result_id, time_mark, wpm, raw_wpm) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = fmt.Errorf("failed to prepare samples: %w", perr)
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, sample := range res.Samples {
			if _, err = stmt.ExecContext(ctx, res.ID, sample.TimeMark, sample.WPM, sample.RawWPM); err != nil {
				return fmt.Errorf("failed to insert sample: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}
	return nil
}

// ListResults returns stored results filtered by stats config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(cfg.Mode))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, finished_at, mode, time_limit, word_count, word_set, wpm, raw_wpm, accuracy, correct, incorrect, extra, missed, duration_s
		FROM results
		WHERE %s
		ORDER BY finished_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultAggregate
	for rows.Next() {
		var agg model.ResultAggregate
		var finishedAt, mode string
		if err := rows.Scan(&agg.ID, &finishedAt, &mode, &agg.TimeLimitSeconds, &agg.WordCount, &agg.WordSet,
			&agg.WPM, &agg.RawWPM, &agg.Accuracy, &agg.Correct, &agg.Incorrect, &agg.Extra, &agg.Missed, &agg.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		parsed, err := time.Parse(timeLayout, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		agg.FinishedAt = parsed.Local()
		agg.Mode = model.Mode(mode)
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

// ListSamples returns the WPM samples of one result ordered by time mark.
func (s *Store) ListSamples(ctx context.Context, resultID string) ([]model.WPMSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT time_mark, wpm, raw_wpm FROM result_samples WHERE result_id = ? ORDER BY time_mark ASC`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.WPMSample
	for rows.Next() {
		var sample model.WPMSample
		if err := rows.Scan(&sample.TimeMark, &sample.WPM, &sample.RawWPM); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return samples, nil
}

// PersonalBests returns the best WPM per mode configuration. Time mode groups
// by time limit, words mode by word count.
func (s *Store) PersonalBests(ctx context.Context) ([]model.PersonalBest, error) {
	query := `SELECT mode,
			CASE WHEN mode = 'time' THEN time_limit ELSE 0 END AS lim,
			CASE WHEN mode = 'words' THEN word_count ELSE 0 END AS cnt,
			MAX(wpm) AS best,
			COUNT(*) AS sessions
		FROM results
		GROUP BY mode, lim, cnt
		ORDER BY mode ASC, lim ASC, cnt ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query personal bests: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var bests []model.PersonalBest
	for rows.Next() {
		var pb model.PersonalBest
		var mode string
		if err := rows.Scan(&mode, &pb.TimeLimitSeconds, &pb.WordCount, &pb.WPM, &pb.Sessions); err != nil {
			return nil, fmt.Errorf("failed to scan personal best: %w", err)
		}
		pb.Mode = model.Mode(mode)
		bests = append(bests, pb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read personal bests: %w", err)
	}
	for i := range bests {
		acc, err := s.bestAccuracy(ctx, bests[i])
		if err != nil {
			return nil, err
		}
		bests[i].Accuracy = acc
	}
	return bests, nil
}

// bestAccuracy is the accuracy of the most recent result that reached pb.WPM.
func (s *Store) bestAccuracy(ctx context.Context, pb model.PersonalBest) (int, error) {
	var acc int
	err := s.db.QueryRowContext(ctx,
		`SELECT accuracy FROM results
		 WHERE mode = ? AND wpm = ?
		   AND (mode <> 'time' OR time_limit = ?)
		   AND (mode <> 'words' OR word_count = ?)
		 ORDER BY finished_at DESC LIMIT 1`,
		string(pb.Mode), pb.WPM, pb.TimeLimitSeconds, pb.WordCount).Scan(&acc)
	if err != nil {
		return 0, fmt.Errorf("failed to query best accuracy: %w", err)
	}
	return acc, nil
}

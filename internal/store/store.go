package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmmona/adaptive-trainer/internal/monitor"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS resource_samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	ts         TEXT NOT NULL,
	cpu        REAL NOT NULL,
	memory     REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resource_samples_run
ON resource_samples(run_id, id);

CREATE TABLE IF NOT EXISTS adaptation_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	iteration  INTEGER NOT NULL,
	decision   TEXT NOT NULL,
	action     TEXT NOT NULL,
	aggregate  REAL NOT NULL,
	model      TEXT NOT NULL,
	reason     TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_adaptation_log_run
ON adaptation_log(run_id, iteration);
`

// #endregion schema

// #region store-struct

// Store persists resource history and adaptation decisions in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store-struct

// #region samples

// RecordSample appends one resource sample for a run.
func (s *Store) RecordSample(runID string, sample monitor.ResourceSample) error {
	_, err := s.db.Exec(
		`INSERT INTO resource_samples (run_id, ts, cpu, memory) VALUES (?, ?, ?, ?)`,
		runID,
		sample.Timestamp.Format(time.RFC3339Nano),
		sample.CPUPercent,
		sample.MemoryGB,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// ListSamples returns a run's samples in insertion order.
func (s *Store) ListSamples(runID string) ([]monitor.ResourceSample, error) {
	rows, err := s.db.Query(
		`SELECT ts, cpu, memory FROM resource_samples WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []monitor.ResourceSample
	for rows.Next() {
		var tsStr string
		var sample monitor.ResourceSample
		if err := rows.Scan(&tsStr, &sample.CPUPercent, &sample.MemoryGB); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.Timestamp, _ = time.Parse(time.RFC3339Nano, tsStr)
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// #endregion samples

// #region decisions

// RecordDecision appends one adaptation decision for a run.
func (s *Store) RecordDecision(rec DecisionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO adaptation_log (run_id, iteration, decision, action, aggregate, model, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Iteration,
		rec.Decision,
		rec.Action,
		rec.Aggregate,
		rec.Model,
		nullIfEmpty(rec.Reason),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// ListDecisions returns a run's adaptation decisions in iteration order.
func (s *Store) ListDecisions(runID string) ([]DecisionRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, iteration, decision, action, aggregate, model, reason, created_at
		 FROM adaptation_log WHERE run_id = ? ORDER BY iteration, id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var reason sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.RunID, &rec.Iteration, &rec.Decision, &rec.Action,
			&rec.Aggregate, &rec.Model, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if reason.Valid {
			rec.Reason = reason.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion decisions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

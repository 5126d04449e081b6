// Package resultdb keeps a local sqlite index of batch solve results, so
// repeated runs over the same task set can be compared and the best known
// score per task survives across invocations.
package resultdb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one solved task.
type Run struct {
	Task     string // input file path or task name
	Score    int    // uppercase-command count of the longest drone path
	Drones   int
	Turns    int
	Seed     int64
	Duration time.Duration
}

// DB is an open results index. Safe for concurrent use by batch workers;
// database/sql serializes access over the single connection.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) a results index at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("resultdb: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT NOT NULL,
			score INTEGER NOT NULL,
			drones INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_task ON runs(task, score);`,
	}
	for _, s := range schema {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &DB{db: db}, nil
}

// Record inserts one run.
func (d *DB) Record(r Run) error {
	_, err := d.db.Exec(
		`INSERT INTO runs (task, score, drones, turns, seed, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Task, r.Score, r.Drones, r.Turns, r.Seed, r.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Best returns the lowest recorded score for a task. ok is false when the
// task has never been recorded.
func (d *DB) Best(task string) (score int, ok bool, err error) {
	row := d.db.QueryRow(`SELECT MIN(score) FROM runs WHERE task = ?`, task)
	var best sql.NullInt64
	if err := row.Scan(&best); err != nil {
		return 0, false, err
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// Close closes the index.
func (d *DB) Close() error { return d.db.Close() }

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blogtools/internal/benchmark"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements benchmark.Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		files TEXT NOT NULL,
		variants TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS measurements (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		file TEXT NOT NULL,
		variant TEXT NOT NULL,
		memuse REAL NOT NULL,
		byte_per_cp REAL NOT NULL,
		cp_per_us REAL NOT NULL,
		gb_sec REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_source_created ON runs(source, created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores a run and its measurements in one transaction.
func (s *SQLiteStore) Save(run benchmark.Run) error {
	files, variants, err := encodeOrder(run)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (source, created_at, files, variants) VALUES (?, ?, ?, ?)`,
		run.Source, run.Timestamp.UnixNano(), files, variants)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, m := range run.Measurements {
		_, err := tx.Exec(`INSERT INTO measurements (run_id, position, file, variant, memuse, byte_per_cp, cp_per_us, gb_sec) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, string(m.File), string(m.Variant), m.MemUse, m.BytesPerCodepoint, m.CodepointsPerMicrosecond, m.GBPerSec)
		if err != nil {
			return fmt.Errorf("failed to insert measurement: %w", err)
		}
	}

	return tx.Commit()
}

// LoadLatest returns the newest run for source, or nil if there is none.
func (s *SQLiteStore) LoadLatest(source string) (*benchmark.Run, error) {
	row := s.db.QueryRow(`SELECT id, source, created_at, files, variants FROM runs WHERE source = ? ORDER BY created_at DESC, id DESC LIMIT 1`, source)
	r, err := s.scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadMeasurements(&r.run); err != nil {
		return nil, err
	}
	return &r.run, nil
}

// LoadAll returns every run, oldest first.
func (s *SQLiteStore) LoadAll() ([]benchmark.Run, error) {
	rows, err := s.db.Query(`SELECT id, source, created_at, files, variants FROM runs ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	var runs []benchmark.Run
	for rows.Next() {
		r, err := s.scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r.run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		if err := s.loadMeasurements(&runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *SQLiteStore) scanRun(row rowScanner) (runRow, error) {
	var r runRow
	var createdAt int64
	if err := row.Scan(&r.run.ID, &r.run.Source, &createdAt, &r.files, &r.variants); err != nil {
		return r, err
	}
	r.run.Timestamp = time.Unix(0, createdAt).UTC()
	return r, r.decodeOrder()
}

func (s *SQLiteStore) loadMeasurements(run *benchmark.Run) error {
	rows, err := s.db.Query(`SELECT file, variant, memuse, byte_per_cp, cp_per_us, gb_sec FROM measurements WHERE run_id = ? ORDER BY position ASC`, run.ID)
	if err != nil {
		return err
	}
	run.Measurements, err = scanMeasurements(rows)
	return err
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"blogtools/internal/benchmark"

	_ "github.com/lib/pq"
)

// PostgresStore implements benchmark.Store using PostgreSQL, for a run
// history shared between benchmark machines.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			files TEXT NOT NULL,
			variants TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS measurements (
			run_id BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			file TEXT NOT NULL,
			variant TEXT NOT NULL,
			memuse DOUBLE PRECISION NOT NULL,
			byte_per_cp DOUBLE PRECISION NOT NULL,
			cp_per_us DOUBLE PRECISION NOT NULL,
			gb_sec DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_source_created ON runs(source, created_at DESC)`); err != nil {
		slog.Debug("failed to create runs index", "error", err)
	}

	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save stores a run and its measurements in one transaction.
func (s *PostgresStore) Save(run benchmark.Run) error {
	files, variants, err := encodeOrder(run)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`INSERT INTO runs (source, created_at, files, variants) VALUES ($1, $2, $3, $4) RETURNING id`,
		run.Source, run.Timestamp, files, variants).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, m := range run.Measurements {
		_, err := tx.Exec(`INSERT INTO measurements (run_id, position, file, variant, memuse, byte_per_cp, cp_per_us, gb_sec) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, i, string(m.File), string(m.Variant), m.MemUse, m.BytesPerCodepoint, m.CodepointsPerMicrosecond, m.GBPerSec)
		if err != nil {
			return fmt.Errorf("failed to insert measurement: %w", err)
		}
	}

	return tx.Commit()
}

// LoadLatest returns the newest run for source, or nil if there is none.
func (s *PostgresStore) LoadLatest(source string) (*benchmark.Run, error) {
	row := s.db.QueryRow(`SELECT id, source, created_at, files, variants FROM runs WHERE source = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, source)
	r, err := scanPostgresRun(row)
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
func (s *PostgresStore) LoadAll() ([]benchmark.Run, error) {
	rows, err := s.db.Query(`SELECT id, source, created_at, files, variants FROM runs ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	var runs []benchmark.Run
	for rows.Next() {
		r, err := scanPostgresRun(rows)
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

func scanPostgresRun(row rowScanner) (runRow, error) {
	var r runRow
	if err := row.Scan(&r.run.ID, &r.run.Source, &r.run.Timestamp, &r.files, &r.variants); err != nil {
		return r, err
	}
	return r, r.decodeOrder()
}

func (s *PostgresStore) loadMeasurements(run *benchmark.Run) error {
	rows, err := s.db.Query(`SELECT file, variant, memuse, byte_per_cp, cp_per_us, gb_sec FROM measurements WHERE run_id = $1 ORDER BY position ASC`, run.ID)
	if err != nil {
		return err
	}
	run.Measurements, err = scanMeasurements(rows)
	return err
}

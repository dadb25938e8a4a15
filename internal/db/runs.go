package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"blogtools/internal/benchmark"
)

// runRow is the runs table minus measurements. File and variant order is
// kept as JSON arrays since the measurement rows alone cannot restore it.
type runRow struct {
	run      benchmark.Run
	files    string
	variants string
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func encodeOrder(run benchmark.Run) (files, variants string, err error) {
	f, err := json.Marshal(run.Files)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode files: %w", err)
	}
	v, err := json.Marshal(run.Variants)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode variants: %w", err)
	}
	return string(f), string(v), nil
}

func (r *runRow) decodeOrder() error {
	if err := json.Unmarshal([]byte(r.files), &r.run.Files); err != nil {
		return fmt.Errorf("run %d: failed to decode files: %w", r.run.ID, err)
	}
	if err := json.Unmarshal([]byte(r.variants), &r.run.Variants); err != nil {
		return fmt.Errorf("run %d: failed to decode variants: %w", r.run.ID, err)
	}
	return nil
}

func scanMeasurements(rows *sql.Rows) ([]benchmark.Measurement, error) {
	defer rows.Close()

	var out []benchmark.Measurement
	for rows.Next() {
		var m benchmark.Measurement
		if err := rows.Scan(&m.File, &m.Variant, &m.MemUse, &m.BytesPerCodepoint, &m.CodepointsPerMicrosecond, &m.GBPerSec); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

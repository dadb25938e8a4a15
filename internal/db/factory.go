package db

import (
	"fmt"
	"strings"

	"blogtools/internal/benchmark"
)

// DefaultPath is used when a file-backed store gets no connection string.
const DefaultPath = "local/benchhistory.db"

// StoreConfig holds configuration for the run-history backend
type StoreConfig struct {
	Type             string // "sqlite", "postgres" or "json"
	ConnectionString string // File path for SQLite and JSON, DSN for Postgres
}

// NewStore creates a new run-history store based on the provided configuration
func NewStore(config StoreConfig) (benchmark.Store, error) {
	switch strings.ToLower(config.Type) {
	case "postgres", "postgresql":
		if config.ConnectionString == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return wrap(NewPostgresStore(config.ConnectionString))
	case "sqlite", "sqlite3", "":
		if config.ConnectionString == "" {
			config.ConnectionString = DefaultPath
		}
		return wrap(NewSQLiteStore(config.ConnectionString))
	case "json":
		if config.ConnectionString == "" {
			config.ConnectionString = strings.TrimSuffix(DefaultPath, ".db") + ".json"
		}
		return wrap(benchmark.NewFileStore(config.ConnectionString))
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// wrap keeps a failed constructor's typed nil out of the interface.
func wrap[S benchmark.Store](store S, err error) (benchmark.Store, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}

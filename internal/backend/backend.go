// Package backend builds the configured ledger repository.
package backend

import (
	"fmt"
	"log/slog"

	"tracker/internal/config"
	"tracker/internal/ledger"
	"tracker/internal/storage"
	"tracker/internal/storage/jsonfile"
	"tracker/internal/storage/memory"
)

// Type selects a persistence backend.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	JSONFileBackend Type = "jsonfile"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether the backend type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, JSONFileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SQLiteBackend, JSONFileBackend, MemoryBackend}
}

// Result holds the constructed repository. Closing the repository is the
// caller's responsibility (the ledger store does it on shutdown).
type Result struct {
	Repository ledger.Repository
	Type       Type
}

// Factory creates repositories from application configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the repository named by cfg.DataBackend.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Repository: repo, Type: t}, nil

	case JSONFileBackend:
		repo, err := jsonfile.New(cfg.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("initialize jsonfile repository: %w", err)
		}
		f.logger.Info("Initialized jsonfile backend", "data_directory", cfg.DataDirectory)
		return &Result{Repository: repo, Type: t}, nil

	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Repository: memory.New(), Type: MemoryBackend}, nil
	}
}

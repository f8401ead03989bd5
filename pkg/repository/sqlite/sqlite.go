package sqlite

import (
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
)

// ErrNotFound is interfaces.ErrNotFound, re-exported for callers of this backend
var ErrNotFound = interfaces.ErrNotFound

type SQLite struct {
	db        *sql.DB
	operation *operationRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (or creates) the database file at path and ensures the schema exists
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL", goerr.V("path", path))
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ensure schema", goerr.V("path", path))
	}

	return &SQLite{
		db:        db,
		operation: &operationRepository{db: db},
	}, nil
}

func ensureSchema(db *sql.DB) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS operations (
  id TEXT PRIMARY KEY,
  rating_final TEXT NOT NULL DEFAULT 'N/A',
  document TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(createTable); err != nil {
		return goerr.Wrap(err, "failed to create operations table")
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_operations_rating_updated ON operations(rating_final, updated_at DESC);`); err != nil {
		return goerr.Wrap(err, "failed to create operations index")
	}
	return nil
}

func (s *SQLite) Operation() interfaces.OperationRepository {
	return s.operation
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

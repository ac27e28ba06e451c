// Package store provides read access to the code graph database written by
// the external parser. The graph lives in three tables — symbols, dependencies
// and api_calls — plus a repositories table with framework metadata. The
// default backend is a SQLite file; a Dolt repository is supported for teams
// that keep the graph under version control.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/dolthub/driver"
	_ "modernc.org/sqlite"
)

// DriverSQLite and DriverDolt are the supported database backends.
const (
	DriverSQLite = "sqlite"
	DriverDolt   = "dolt"
)

// Store wraps the graph database connection. All query methods are read-only;
// the parser owns writes. EnsureSchema exists for tests and for bootstrapping
// an empty database before a parser run.
type Store struct {
	db     *sql.DB
	driver string
	dsn    string
}

// Open opens the graph database using the given driver ("sqlite" or "dolt")
// and DSN. For sqlite the DSN is a file path (or ":memory:"); for dolt it is
// a file:// DSN pointing at the Dolt repo directory.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverDolt:
	default:
		return nil, fmt.Errorf("unsupported graph db driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open graph db: %w", err)
	}

	if driver == DriverSQLite {
		// WAL lets the parser append while discovery reads.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	return &Store{db: db, driver: driver, dsn: dsn}, nil
}

// OpenSQLite opens a SQLite graph database at the given path.
func OpenSQLite(path string) (*Store, error) {
	return Open(DriverSQLite, path)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// EnsureSchema creates the graph tables if they do not exist.
func (s *Store) EnsureSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Package store is the StoreAdapter and SchemaManager: a SQLite-backed
// persistence layer for the code graph, exposing exactly the
// operations spec.md §4.8 names to the Extractor.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for graph storage.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// Open opens or creates a SQLite database at path, applying the same
// WAL-mode/busy-timeout/foreign-keys pragma DSN the teacher's store
// uses.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: path}
	s.q = s.db
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database, for hermetic tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction. The
// callback receives a transaction-scoped Store; all store methods
// called on txStore use the transaction.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// BeginBulkWrite switches to MEMORY journal mode for faster bulk
// writes during a full extraction run.
func (s *Store) BeginBulkWrite() {
	_, _ = s.db.Exec("PRAGMA journal_mode=MEMORY")
}

// EndBulkWrite restores WAL journal mode and checkpoints.
func (s *Store) EndBulkWrite() {
	_, _ = s.db.Exec("PRAGMA journal_mode=WAL")
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB, for advanced/administrative use.
func (s *Store) DB() *sql.DB {
	return s.db
}

// DBPath returns the path this store was opened against (":memory:"
// for OpenMemory).
func (s *Store) DBPath() string {
	return s.dbPath
}

// Reset drops and recreates every table this store manages, for the
// CLI's reset subcommand.
func (s *Store) Reset() error {
	if err := s.DropSchema(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	if err := s.createSchema(); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// HealthCheck verifies the database connection and schema are usable.
func (s *Store) HealthCheck() error {
	var one int
	if err := s.q.QueryRow("SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return s.ValidateSchema()
}

// Stats reports entity/relationship counts for operational visibility.
type Stats struct {
	EntityCount       int
	RelationshipCount int
	FileCount         int
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.q.QueryRow("SELECT COUNT(*) FROM entities").Scan(&st.EntityCount); err != nil {
		return st, fmt.Errorf("stats entities: %w", err)
	}
	if err := s.q.QueryRow("SELECT COUNT(*) FROM relationships").Scan(&st.RelationshipCount); err != nil {
		return st, fmt.Errorf("stats relationships: %w", err)
	}
	if err := s.q.QueryRow("SELECT COUNT(*) FROM file_hashes").Scan(&st.FileCount); err != nil {
		return st, fmt.Errorf("stats files: %w", err)
	}
	return st, nil
}

func marshalAttrs(attrs map[string]any) string {
	if attrs == nil {
		return "{}"
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalAttrs(data string) map[string]any {
	if data == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Now returns the current time in ISO 8601 format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

package store

import "fmt"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS entities (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	file_path TEXT DEFAULT '',
	line_start INTEGER DEFAULT 0,
	line_end INTEGER DEFAULT 0,
	parent_id TEXT DEFAULT '',
	file_id TEXT DEFAULT '',
	attributes TEXT DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind);
CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);
CREATE INDEX IF NOT EXISTS idx_entities_file_path ON entities(file_path);
CREATE INDEX IF NOT EXISTS idx_entities_parent ON entities(parent_id);

CREATE TABLE IF NOT EXISTS relationships (
	from_id TEXT NOT NULL,
	to_id TEXT NOT NULL,
	type TEXT NOT NULL,
	attributes TEXT DEFAULT '{}',
	PRIMARY KEY (from_id, to_id, type)
);

CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_id, type);
CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_id, type);
CREATE INDEX IF NOT EXISTS idx_relationships_type ON relationships(type);

CREATE TABLE IF NOT EXISTS file_hashes (
	rel_path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL
);
`

// createSchema manages the fixed set of entity/relationship/file-hash
// tables, per spec.md §4.8's create_schema() operation.
func (s *Store) createSchema() error {
	_, err := s.db.Exec(schemaDDL)
	return err
}

// DropSchema drops every table this store manages.
func (s *Store) DropSchema() error {
	_, err := s.db.Exec(`
		DROP TABLE IF EXISTS relationships;
		DROP TABLE IF EXISTS entities;
		DROP TABLE IF EXISTS file_hashes;
	`)
	return err
}

// ValidateSchema confirms every expected table exists.
func (s *Store) ValidateSchema() error {
	for _, table := range []string{"entities", "relationships", "file_hashes"} {
		var name string
		err := s.q.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			return fmt.Errorf("validate schema: table %q missing: %w", table, err)
		}
	}
	return nil
}

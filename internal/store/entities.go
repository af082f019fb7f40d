package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/codegraph/codegraph/internal/graph"
)

// entityColumns is the fixed column count an entity row binds;
// nodesBatchSize is recomputed from it to stay under SQLite's 999
// bind-variable ceiling, the same batching discipline the teacher's
// store uses for its wider qualified_name schema.
const entityColumns = 9

var nodesBatchSize = 999 / entityColumns

// UpsertEntities inserts or updates a batch of entities, deduplicated
// by primary key id. A failing batch falls back to single-row
// insertion so one bad row does not abort the whole update, per
// spec.md §4.8.
func (s *Store) UpsertEntities(entities []*graph.Entity) error {
	for i := 0; i < len(entities); i += nodesBatchSize {
		end := i + nodesBatchSize
		if end > len(entities) {
			end = len(entities)
		}
		batch := entities[i:end]
		if err := s.upsertEntityBatch(batch); err != nil {
			for _, e := range batch {
				if singleErr := s.upsertEntityBatch([]*graph.Entity{e}); singleErr != nil {
					return fmt.Errorf("upsert entity %s: %w", e.ID, singleErr)
				}
			}
		}
	}
	return nil
}

func (s *Store) upsertEntityBatch(batch []*graph.Entity) error {
	if len(batch) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO entities (id, kind, name, file_path, line_start, line_end, parent_id, file_id, attributes) VALUES `)
	args := make([]any, 0, len(batch)*entityColumns)
	for i, e := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?,?)")
		args = append(args, e.ID, string(e.Kind), e.Name, e.FilePath, e.LineStart, e.LineEnd, e.ParentID, e.FileID, marshalAttrs(e.Attributes))
	}
	sb.WriteString(` ON CONFLICT(id) DO UPDATE SET
		kind=excluded.kind, name=excluded.name, file_path=excluded.file_path,
		line_start=excluded.line_start, line_end=excluded.line_end,
		parent_id=excluded.parent_id, file_id=excluded.file_id, attributes=excluded.attributes`)

	_, err := s.q.Exec(sb.String(), args...)
	return err
}

// FindEntityByID returns a single entity, or nil if not found.
func (s *Store) FindEntityByID(id string) (*graph.Entity, error) {
	row := s.q.QueryRow(`SELECT id, kind, name, file_path, line_start, line_end, parent_id, file_id, attributes
		FROM entities WHERE id=?`, id)
	return scanEntity(row)
}

// FindEntitiesByName looks up every entity sharing a bare name — used
// by the registry's lazy load-on-miss path for incremental runs.
func (s *Store) FindEntitiesByName(name string) ([]*graph.Entity, error) {
	rows, err := s.q.Query(`SELECT id, kind, name, file_path, line_start, line_end, parent_id, file_id, attributes
		FROM entities WHERE name=?`, name)
	if err != nil {
		return nil, fmt.Errorf("find entities by name: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// FindEntitiesByFile returns every entity belonging to a file path.
func (s *Store) FindEntitiesByFile(filePath string) ([]*graph.Entity, error) {
	rows, err := s.q.Query(`SELECT id, kind, name, file_path, line_start, line_end, parent_id, file_id, attributes
		FROM entities WHERE file_path=?`, filePath)
	if err != nil {
		return nil, fmt.Errorf("find entities by file: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// DeleteEntitiesForFile atomically removes every entity belonging to
// filePath and all relationships incident to them, per spec.md §4.8's
// delete_entities_for_file operation.
func (s *Store) DeleteEntitiesForFile(filePath string) error {
	return s.WithTransaction(func(tx *Store) error {
		rows, err := tx.q.Query(`SELECT id FROM entities WHERE file_path=?`, filePath)
		if err != nil {
			return fmt.Errorf("delete entities for file: select ids: %w", err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			if _, err := tx.q.Exec(`DELETE FROM relationships WHERE from_id=? OR to_id=?`, id, id); err != nil {
				return fmt.Errorf("delete incident relationships: %w", err)
			}
		}
		if _, err := tx.q.Exec(`DELETE FROM entities WHERE file_path=?`, filePath); err != nil {
			return fmt.Errorf("delete entities: %w", err)
		}
		if _, err := tx.q.Exec(`DELETE FROM file_hashes WHERE rel_path=?`, filePath); err != nil {
			return fmt.Errorf("delete file hash: %w", err)
		}
		return nil
	})
}

func scanEntity(row *sql.Row) (*graph.Entity, error) {
	var e graph.Entity
	var kind, attrs string
	if err := row.Scan(&e.ID, &kind, &e.Name, &e.FilePath, &e.LineStart, &e.LineEnd, &e.ParentID, &e.FileID, &attrs); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entity: %w", err)
	}
	e.Kind = graph.Kind(kind)
	e.Attributes = unmarshalAttrs(attrs)
	return &e, nil
}

func scanEntities(rows *sql.Rows) ([]*graph.Entity, error) {
	var out []*graph.Entity
	for rows.Next() {
		var e graph.Entity
		var kind, attrs string
		if err := rows.Scan(&e.ID, &kind, &e.Name, &e.FilePath, &e.LineStart, &e.LineEnd, &e.ParentID, &e.FileID, &attrs); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e.Kind = graph.Kind(kind)
		e.Attributes = unmarshalAttrs(attrs)
		out = append(out, &e)
	}
	return out, rows.Err()
}

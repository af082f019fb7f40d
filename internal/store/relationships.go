package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/codegraph/codegraph/internal/graph"
)

const relationshipColumns = 4

var edgesBatchSize = 999 / relationshipColumns

// relationshipAttributeSchema is the exhaustive, per-edge-type
// attribute table spec.md §3.2 requires: any attribute not in this
// list is dropped on write, and any listed attribute absent from the
// edge is filled with an empty string.
var relationshipAttributeSchema = map[graph.EdgeType][]string{
	graph.EdgeCalls:        {"call_type", "line_number"},
	graph.EdgeUses:         {"usage_type", "line_number"},
	graph.EdgeAccesses:     {"property_path", "access_location"},
	graph.EdgeImports:      {"import_type"},
	graph.EdgeExports:      {"export_type", "symbol"},
	graph.EdgeInherits:     {},
	graph.EdgeExtends:      {},
	graph.EdgeImplements:   {},
	graph.EdgeDecorates:    {"decorator_name"},
	graph.EdgeUsesTemplate: {"template_path", "resolved_path", "component_selector", "component_file_path"},
	graph.EdgeUsesStyles:   {"style_path", "resolved_path", "component_selector", "component_file_path"},
	graph.EdgeImportsStyle: {"style_path", "at_rule"},
}

// normalizeAttributes drops unknown keys and fills empty-string
// defaults for missing ones, per spec.md §4.8's attribute-normalization rule.
// A containment edge type (FILE_CONTAINS_..., etc. — not a fixed key
// in the schema map since its suffix varies by entity kind) carries no
// attributes at all.
func normalizeAttributes(edgeType graph.EdgeType, attrs map[string]any) map[string]any {
	schema, known := relationshipAttributeSchema[edgeType]
	if !known {
		if strings.Contains(string(edgeType), "_CONTAINS_") {
			return map[string]any{}
		}
		// Unrecognized edge type: pass through attributes unmodified
		// rather than silently discarding domain data the schema
		// table hasn't been told about yet.
		if attrs == nil {
			return map[string]any{}
		}
		return attrs
	}

	out := make(map[string]any, len(schema))
	for _, key := range schema {
		if v, ok := attrs[key]; ok {
			out[key] = v
		} else {
			out[key] = ""
		}
	}
	return out
}

// InsertRelationships inserts a batch of edges. Endpoint existence is
// the caller's responsibility, per spec.md §4.8; a failing batch falls
// back to single-row insertion.
func (s *Store) InsertRelationships(edges []*graph.Edge) error {
	for i := 0; i < len(edges); i += edgesBatchSize {
		end := i + edgesBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		batch := edges[i:end]
		if err := s.insertRelationshipBatch(batch); err != nil {
			for _, e := range batch {
				if singleErr := s.insertRelationshipBatch([]*graph.Edge{e}); singleErr != nil {
					return fmt.Errorf("insert relationship %s->%s (%s): %w", e.FromID, e.ToID, e.Type, singleErr)
				}
			}
		}
	}
	return nil
}

func (s *Store) insertRelationshipBatch(batch []*graph.Edge) error {
	if len(batch) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO relationships (from_id, to_id, type, attributes) VALUES `)
	args := make([]any, 0, len(batch)*relationshipColumns)
	for i, e := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?)")
		args = append(args, e.FromID, e.ToID, string(e.Type), marshalAttrs(normalizeAttributes(e.Type, e.Attributes)))
	}
	sb.WriteString(` ON CONFLICT(from_id, to_id, type) DO UPDATE SET attributes=excluded.attributes`)

	_, err := s.q.Exec(sb.String(), args...)
	return err
}

// FindRelationshipsFrom returns every edge out of fromID.
func (s *Store) FindRelationshipsFrom(fromID string) ([]*graph.Edge, error) {
	rows, err := s.q.Query(`SELECT from_id, to_id, type, attributes FROM relationships WHERE from_id=?`, fromID)
	if err != nil {
		return nil, fmt.Errorf("find relationships from: %w", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// FindRelationshipsTo returns every edge into toID.
func (s *Store) FindRelationshipsTo(toID string) ([]*graph.Edge, error) {
	rows, err := s.q.Query(`SELECT from_id, to_id, type, attributes FROM relationships WHERE to_id=?`, toID)
	if err != nil {
		return nil, fmt.Errorf("find relationships to: %w", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// CountRelationshipsByType returns the count of edges of a given type.
func (s *Store) CountRelationshipsByType(edgeType string) (int, error) {
	var count int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM relationships WHERE type=?`, edgeType).Scan(&count)
	return count, err
}

// CountRelationshipsIncidentToIDs counts distinct edges touching any of
// ids on either endpoint, used to report entities_removed/
// relationships_removed statistics before a DeleteEntitiesForFile call.
func (s *Store) CountRelationshipsIncidentToIDs(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids)*2)
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
		args[len(ids)+i] = id
	}
	in := strings.Join(placeholders, ",")
	query := fmt.Sprintf(`SELECT COUNT(*) FROM relationships WHERE from_id IN (%s) OR to_id IN (%s)`, in, in)

	var count int
	err := s.q.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count incident relationships: %w", err)
	}
	return count, nil
}

func scanRelationships(rows *sql.Rows) ([]*graph.Edge, error) {
	var out []*graph.Edge
	for rows.Next() {
		var e graph.Edge
		var edgeType, attrs string
		if err := rows.Scan(&e.FromID, &e.ToID, &edgeType, &attrs); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		e.Type = graph.EdgeType(edgeType)
		e.Attributes = unmarshalAttrs(attrs)
		out = append(out, &e)
	}
	return out, rows.Err()
}

package store

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
)

func TestNormalizeAttributesDropsUnknownKeysAndFillsDefaults(t *testing.T) {
	attrs := map[string]any{"call_type": "direct", "bogus": "drop-me"}
	out := normalizeAttributes(graph.EdgeCalls, attrs)
	if out["call_type"] != "direct" {
		t.Errorf("expected call_type preserved, got %v", out["call_type"])
	}
	if _, ok := out["bogus"]; ok {
		t.Errorf("expected unknown attribute dropped")
	}
	if _, ok := out["line_number"]; !ok {
		t.Errorf("expected missing line_number filled with default")
	}
}

func TestNormalizeAttributesContainmentEdgeHasNoAttributes(t *testing.T) {
	out := normalizeAttributes(graph.ContainmentEdgeType("file", graph.KindFunction), map[string]any{"whatever": 1})
	if len(out) != 0 {
		t.Errorf("expected containment edge to carry no attributes, got %v", out)
	}
}

func TestNormalizeAttributesNoSchemaEdgeNoAttributes(t *testing.T) {
	out := normalizeAttributes(graph.EdgeInherits, map[string]any{"whatever": 1})
	if len(out) != 0 {
		t.Errorf("expected INHERITS edge to carry no attributes, got %v", out)
	}
}

func TestInsertAndFindRelationships(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	entities := []*graph.Entity{
		{ID: "a", Kind: graph.KindFunction, Name: "a", FilePath: "x.py"},
		{ID: "b", Kind: graph.KindFunction, Name: "b", FilePath: "x.py"},
	}
	if err := s.UpsertEntities(entities); err != nil {
		t.Fatalf("upsert entities: %v", err)
	}

	edges := []*graph.Edge{
		{FromID: "a", ToID: "b", Type: graph.EdgeCalls, Attributes: map[string]any{"call_type": "direct", "line_number": float64(10)}},
	}
	if err := s.InsertRelationships(edges); err != nil {
		t.Fatalf("insert relationships: %v", err)
	}

	found, err := s.FindRelationshipsFrom("a")
	if err != nil {
		t.Fatalf("find relationships from: %v", err)
	}
	if len(found) != 1 || found[0].ToID != "b" {
		t.Fatalf("expected one edge a->b, got %+v", found)
	}
	if found[0].Attributes["call_type"] != "direct" {
		t.Errorf("expected call_type preserved through round trip, got %v", found[0].Attributes["call_type"])
	}

	count, err := s.CountRelationshipsByType("CALLS")
	if err != nil {
		t.Fatalf("count relationships: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestInsertRelationshipsUpsertOnConflict(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	entities := []*graph.Entity{
		{ID: "a", Kind: graph.KindFunction, Name: "a", FilePath: "x.py"},
		{ID: "b", Kind: graph.KindFunction, Name: "b", FilePath: "x.py"},
	}
	if err := s.UpsertEntities(entities); err != nil {
		t.Fatalf("upsert entities: %v", err)
	}

	edge := &graph.Edge{FromID: "a", ToID: "b", Type: graph.EdgeCalls, Attributes: map[string]any{"call_type": "direct"}}
	if err := s.InsertRelationships([]*graph.Edge{edge}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	edge.Attributes["call_type"] = "indirect"
	if err := s.InsertRelationships([]*graph.Edge{edge}); err != nil {
		t.Fatalf("reinsert: %v", err)
	}

	count, err := s.CountRelationshipsByType("CALLS")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected upsert to keep a single row, got %d", count)
	}

	found, err := s.FindRelationshipsFrom("a")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found[0].Attributes["call_type"] != "indirect" {
		t.Errorf("expected attributes updated to latest value, got %v", found[0].Attributes["call_type"])
	}
}

package store

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
)

func TestUpsertEntitiesInsertsAndUpdatesOnConflict(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	e := &graph.Entity{ID: "e1", Kind: graph.KindFunction, Name: "foo", FilePath: "a.py", LineStart: 1, LineEnd: 2}
	if err := s.UpsertEntities([]*graph.Entity{e}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.FindEntityByID("e1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got == nil || got.Name != "foo" {
		t.Fatalf("expected entity foo, got %+v", got)
	}

	e.Name = "foo_renamed"
	e.LineEnd = 5
	if err := s.UpsertEntities([]*graph.Entity{e}); err != nil {
		t.Fatalf("upsert on conflict: %v", err)
	}

	got, err = s.FindEntityByID("e1")
	if err != nil {
		t.Fatalf("find by id after update: %v", err)
	}
	if got.Name != "foo_renamed" || got.LineEnd != 5 {
		t.Fatalf("expected updated entity, got %+v", got)
	}
}

func TestFindEntityByIDReturnsNilWhenMissing(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	got, err := s.FindEntityByID("nope")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a missing entity, got %+v", got)
	}
}

func TestFindEntitiesByNameAndByFile(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	entities := []*graph.Entity{
		{ID: "e1", Kind: graph.KindFunction, Name: "foo", FilePath: "a.py"},
		{ID: "e2", Kind: graph.KindClass, Name: "Foo", FilePath: "a.py"},
		{ID: "e3", Kind: graph.KindFunction, Name: "foo", FilePath: "b.py"},
	}
	if err := s.UpsertEntities(entities); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	byName, err := s.FindEntitiesByName("foo")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 entities named foo across files, got %d", len(byName))
	}

	byFile, err := s.FindEntitiesByFile("a.py")
	if err != nil {
		t.Fatalf("find by file: %v", err)
	}
	if len(byFile) != 2 {
		t.Fatalf("expected 2 entities in a.py, got %d", len(byFile))
	}
}

func TestDeleteEntitiesForFileCascadesRelationshipsAndHash(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	entities := []*graph.Entity{
		{ID: "e1", Kind: graph.KindFunction, Name: "foo", FilePath: "a.py"},
		{ID: "e2", Kind: graph.KindFunction, Name: "bar", FilePath: "b.py"},
	}
	if err := s.UpsertEntities(entities); err != nil {
		t.Fatalf("upsert entities: %v", err)
	}
	edge := &graph.Edge{FromID: "e1", ToID: "e2", Type: graph.EdgeCalls}
	if err := s.InsertRelationships([]*graph.Edge{edge}); err != nil {
		t.Fatalf("insert relationships: %v", err)
	}
	if err := s.UpsertFileHash("a.py", "deadbeef"); err != nil {
		t.Fatalf("upsert file hash: %v", err)
	}

	if err := s.DeleteEntitiesForFile("a.py"); err != nil {
		t.Fatalf("delete entities for file: %v", err)
	}

	remaining, err := s.FindEntitiesByFile("a.py")
	if err != nil {
		t.Fatalf("find by file: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no entities left in a.py, got %d", len(remaining))
	}

	relCount, err := s.CountRelationshipsIncidentToIDs([]string{"e1"})
	if err != nil {
		t.Fatalf("count incident relationships: %v", err)
	}
	if relCount != 0 {
		t.Fatalf("expected the incident relationship to be cascaded away, got %d remaining", relCount)
	}

	hashes, err := s.LoadFileHashes()
	if err != nil {
		t.Fatalf("load file hashes: %v", err)
	}
	if _, ok := hashes["a.py"]; ok {
		t.Fatalf("expected file hash for a.py to be cleared")
	}

	other, err := s.FindEntityByID("e2")
	if err != nil {
		t.Fatalf("find e2: %v", err)
	}
	if other == nil {
		t.Fatalf("expected e2 in b.py to survive the delete")
	}
}

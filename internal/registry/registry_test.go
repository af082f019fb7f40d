package registry

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
)

func TestLookupByBareName(t *testing.T) {
	e := &graph.Entity{ID: "f1", Kind: graph.KindFunction, Name: "helper", FilePath: "a.py"}
	r := Build([]*graph.Entity{e})
	if got := r.Lookup("helper"); got != e {
		t.Fatalf("expected to find entity by bare name, got %v", got)
	}
}

func TestCollisionPrefersClassScopedMethod(t *testing.T) {
	class := &graph.Entity{ID: "c1", Kind: graph.KindClass, Name: "Widget", FilePath: "a.py"}
	method := &graph.Entity{
		ID: "m1", Kind: graph.KindMethod, Name: "run", FilePath: "a.py", ParentID: "c1",
		Attributes: map[string]any{"class_id": "c1", "module_id": "mod1"},
	}
	plainFunc := &graph.Entity{
		ID: "f1", Kind: graph.KindFunction, Name: "run", FilePath: "b.py",
		Attributes: map[string]any{"module_id": "mod2"},
	}

	r := Build([]*graph.Entity{plainFunc, method, class})
	got := r.Lookup("run")
	if got == nil || got.ID != "m1" {
		t.Fatalf("expected the class-scoped method to win the collision, got %v", got)
	}
}

func TestCollisionTieRetainsEarlierInsertion(t *testing.T) {
	first := &graph.Entity{ID: "a", Kind: graph.KindFunction, Name: "dup", FilePath: "a.py"}
	second := &graph.Entity{ID: "b", Kind: graph.KindFunction, Name: "dup", FilePath: "b.py"}

	r := Build([]*graph.Entity{first, second})
	if got := r.Lookup("dup"); got == nil || got.ID != "a" {
		t.Fatalf("expected earlier insertion to win a tie, got %v", got)
	}
}

func TestFileKeyAliases(t *testing.T) {
	file := &graph.Entity{ID: "file1", Kind: graph.KindFile, Name: "x.component.html", FilePath: "src/app/x/x.component.html"}
	r := Build([]*graph.Entity{file})

	for _, key := range []string{
		"file:src/app/x/x.component.html",
		"module:x.component",
		"template:x.component.html",
		"style:x.component.html",
	} {
		if r.Lookup(key) == nil {
			t.Errorf("expected key %q to resolve to the File entity", key)
		}
	}
}

func TestAngularSelectorKey(t *testing.T) {
	comp := &graph.Entity{
		ID: "comp1", Kind: graph.KindAngularComponent, Name: "FooComponent", FilePath: "foo.component.ts",
		Attributes: map[string]any{"selector": "app-foo"},
	}
	r := Build([]*graph.Entity{comp})
	if r.Lookup("selector:app-foo") == nil {
		t.Error("expected selector: key to resolve to the AngularComponent entity")
	}
}

func TestModuleQualifiedFunctionKey(t *testing.T) {
	module := &graph.Entity{ID: "mod1", Kind: graph.KindModule, Name: "a.py", FilePath: "a.py"}
	fn := &graph.Entity{
		ID: "f1", Kind: graph.KindFunction, Name: "helper", FilePath: "a.py",
		Attributes: map[string]any{"module_id": "mod1"},
	}
	r := Build([]*graph.Entity{module, fn})
	if got := r.Lookup("a.helper"); got == nil || got.ID != "f1" {
		t.Fatalf("expected module-qualified key a.helper to resolve, got %v", got)
	}
}

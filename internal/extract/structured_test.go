package extract

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
	"github.com/codegraph/codegraph/internal/lang"
)

func entitiesOfKind(result *ParseResult, k graph.Kind) []*graph.Entity {
	var out []*graph.Entity
	for _, e := range result.Entities {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func edgesOfType(result *ParseResult, t graph.EdgeType) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range result.Relationships {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func TestPythonClassMethodCallExtraction(t *testing.T) {
	src := `class Greeter:
    def greet(self):
        print("hi")
`
	p := ParserFor("greeter.py", lang.Python)
	result := p.Parse("greeter.py", []byte(src))

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", result.Errors)
	}
	if len(entitiesOfKind(result, graph.KindFile)) != 1 {
		t.Errorf("expected one File entity")
	}
	if len(entitiesOfKind(result, graph.KindModule)) != 1 {
		t.Errorf("expected one Module entity")
	}

	classes := entitiesOfKind(result, graph.KindClass)
	if len(classes) != 1 || classes[0].Name != "Greeter" {
		t.Fatalf("expected one Class entity named Greeter, got %+v", classes)
	}

	methods := entitiesOfKind(result, graph.KindMethod)
	if len(methods) != 1 || methods[0].Name != "greet" {
		t.Fatalf("expected one Method entity named greet, got %+v", methods)
	}
	if methods[0].ParentID != classes[0].ID {
		t.Errorf("expected method's parent to be the class, got %s", methods[0].ParentID)
	}

	calls := edgesOfType(result, graph.EdgeCalls)
	if len(calls) != 1 {
		t.Fatalf("expected one CALLS edge, got %d", len(calls))
	}
	if calls[0].FromID != methods[0].ID {
		t.Errorf("expected the call's FromID to be the method, got %s", calls[0].FromID)
	}
	if calls[0].ToID != Unresolved("function", "print") {
		t.Errorf("expected an unresolved function placeholder for print, got %s", calls[0].ToID)
	}
}

func TestPythonDecoratorProducesDecoratesEdgeOnFromID(t *testing.T) {
	src := `@app.route("/api")
def handler():
    pass
`
	p := ParserFor("views.py", lang.Python)
	result := p.Parse("views.py", []byte(src))

	funcs := entitiesOfKind(result, graph.KindFunction)
	if len(funcs) != 1 || funcs[0].Name != "handler" {
		t.Fatalf("expected one Function entity named handler, got %+v", funcs)
	}

	decorates := edgesOfType(result, graph.EdgeDecorates)
	if len(decorates) != 1 {
		t.Fatalf("expected one DECORATES edge, got %d", len(decorates))
	}
	if decorates[0].ToID != funcs[0].ID {
		t.Errorf("expected DECORATES edge's ToID to be the decorated function, got %s", decorates[0].ToID)
	}
	if decorates[0].FromID != Unresolved("function", "app.route") {
		t.Errorf("expected DECORATES edge's FromID to be the unresolved decorator reference, got %s", decorates[0].FromID)
	}
}

func TestPythonImportEmitsImportsEdge(t *testing.T) {
	src := "import os\n"
	p := ParserFor("main.py", lang.Python)
	result := p.Parse("main.py", []byte(src))

	imports := entitiesOfKind(result, graph.KindImport)
	if len(imports) != 1 || imports[0].Name != "os" {
		t.Fatalf("expected one Import entity named os, got %+v", imports)
	}

	edges := edgesOfType(result, graph.EdgeImports)
	if len(edges) != 1 {
		t.Fatalf("expected one IMPORTS edge, got %d", len(edges))
	}
	if edges[0].ToID != Unresolved("module", "os") {
		t.Errorf("expected unresolved module placeholder for os, got %s", edges[0].ToID)
	}
}

func TestJavaScriptClassInheritanceExtraction(t *testing.T) {
	src := `class Dog extends Animal {
  bark() {
    this.sound = "woof";
  }
}
`
	p := ParserFor("dog.js", lang.JavaScript)
	result := p.Parse("dog.js", []byte(src))

	classes := entitiesOfKind(result, graph.KindClass)
	if len(classes) != 1 || classes[0].Name != "Dog" {
		t.Fatalf("expected one Class entity named Dog, got %+v", classes)
	}

	inherits := edgesOfType(result, graph.EdgeInherits)
	if len(inherits) != 1 {
		t.Fatalf("expected one INHERITS edge, got %d", len(inherits))
	}
	if inherits[0].FromID != classes[0].ID {
		t.Errorf("expected INHERITS edge's FromID to be Dog, got %s", inherits[0].FromID)
	}
	if inherits[0].ToID != Unresolved("external", "Animal") {
		t.Errorf("expected unresolved external base class reference, got %s", inherits[0].ToID)
	}
}

func TestEmptyFileStillEmitsFileAndModule(t *testing.T) {
	p := ParserFor("empty.py", lang.Python)
	result := p.Parse("empty.py", []byte(""))

	if len(entitiesOfKind(result, graph.KindFile)) != 1 {
		t.Errorf("expected a File entity even for an empty file")
	}
	if len(entitiesOfKind(result, graph.KindModule)) != 1 {
		t.Errorf("expected a Module entity even for an empty file")
	}
}

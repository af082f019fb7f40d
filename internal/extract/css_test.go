package extract

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
)

func TestCSSImportEmitsImportsStyleEdge(t *testing.T) {
	src := `@import "base.css";

.button {
  color: red;
}
`
	p := &CSSParser{SCSS: false}
	result := p.Parse("styles.css", []byte(src))

	files := entitiesOfKind(result, graph.KindFile)
	if len(files) != 1 {
		t.Fatalf("expected one File entity, got %d", len(files))
	}
	if files[0].Attributes["language"] != "css" {
		t.Errorf("expected language attribute css, got %v", files[0].Attributes["language"])
	}

	edges := edgesOfType(result, graph.EdgeImportsStyle)
	if len(edges) != 1 {
		t.Fatalf("expected one IMPORTS_STYLE edge, got %d", len(edges))
	}
	if edges[0].ToID != Unresolved("style", "base.css") {
		t.Errorf("expected unresolved style placeholder for base.css, got %s", edges[0].ToID)
	}
	if edges[0].Attributes["at_rule"] != "import" {
		t.Errorf("expected at_rule=import, got %v", edges[0].Attributes["at_rule"])
	}
}

func TestSCSSUseAndForwardEmitImportsStyleEdges(t *testing.T) {
	src := `@use "colors";
@forward "mixins";

.card {
  .title { font-weight: bold; }
}
`
	p := &CSSParser{SCSS: true}
	result := p.Parse("card.scss", []byte(src))

	edges := edgesOfType(result, graph.EdgeImportsStyle)
	if len(edges) != 2 {
		t.Fatalf("expected 2 IMPORTS_STYLE edges (use + forward), got %d", len(edges))
	}

	rules := map[string]bool{}
	for _, e := range edges {
		rules[e.Attributes["at_rule"].(string)] = true
	}
	if !rules["use"] || !rules["forward"] {
		t.Errorf("expected both use and forward at_rules, got %+v", rules)
	}

	files := entitiesOfKind(result, graph.KindFile)
	if nesting, ok := files[0].Attributes["nesting_depth"].(int); !ok || nesting < 2 {
		t.Errorf("expected nesting_depth >= 2 for nested selector, got %v", files[0].Attributes["nesting_depth"])
	}
}

package extract

import (
	"testing"

	"github.com/codegraph/codegraph/internal/graph"
)

func TestHTMLPlainTemplateHasNoAngularMetadata(t *testing.T) {
	src := `<div class="card"><p>Hello</p></div>`
	p := &HTMLParser{}
	result := p.Parse("index.html", []byte(src))

	files := entitiesOfKind(result, graph.KindFile)
	if len(files) != 1 {
		t.Fatalf("expected one File entity, got %d", len(files))
	}
	if files[0].Attributes["template_type"] != "html" {
		t.Errorf("expected template_type=html for a plain template, got %v", files[0].Attributes["template_type"])
	}
	if len(result.Relationships) != 0 {
		t.Errorf("expected no edges for a template with no custom components, got %d", len(result.Relationships))
	}
}

func TestHTMLCustomComponentTagEmitsUsesEdge(t *testing.T) {
	src := `<div>
  <app-foo-bar [value]="x"></app-foo-bar>
  <app-foo-bar [value]="y"></app-foo-bar>
</div>`
	p := &HTMLParser{}
	result := p.Parse("page.component.html", []byte(src))

	files := entitiesOfKind(result, graph.KindFile)
	if files[0].Attributes["template_type"] != "angular" {
		t.Errorf("expected template_type=angular, got %v", files[0].Attributes["template_type"])
	}

	uses := edgesOfType(result, graph.EdgeUses)
	if len(uses) != 1 {
		t.Fatalf("expected one deduplicated USES edge for the repeated tag, got %d", len(uses))
	}
	if uses[0].ToID != Unresolved("angular_component", "app-foo-bar") {
		t.Errorf("expected unresolved angular_component placeholder, got %s", uses[0].ToID)
	}
	if uses[0].Attributes["usage_type"] != "template_reference" {
		t.Errorf("expected usage_type=template_reference, got %v", uses[0].Attributes["usage_type"])
	}
}

package parser

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/lang"
)

func TestParsePython(t *testing.T) {
	source := []byte(`def greet(name):
    return f"Hello, {name}"

class MyClass:
    def method(self):
        pass
`)
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse Python: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var funcCount, classCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			funcCount++
		case "class_definition":
			classCount++
		}
		return true
	})
	if funcCount != 2 {
		t.Errorf("expected 2 function_definitions, got %d", funcCount)
	}
	if classCount != 1 {
		t.Errorf("expected 1 class_definition, got %d", classCount)
	}
}

func TestParseTypeScript(t *testing.T) {
	source := []byte(`class Greeter {
  greet(name: string): string {
    return "hi " + name;
  }
}
`)
	tree, err := Parse(lang.TypeScript, source)
	if err != nil {
		t.Fatalf("Parse TypeScript: %v", err)
	}
	defer tree.Close()

	var classCount, methodCount int
	Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
			classCount++
		case "method_definition":
			methodCount++
		}
		return true
	})
	if classCount != 1 {
		t.Errorf("expected 1 class_declaration, got %d", classCount)
	}
	if methodCount != 1 {
		t.Errorf("expected 1 method_definition, got %d", methodCount)
	}
}

func TestParseHTML(t *testing.T) {
	source := []byte(`<div><app-widget></app-widget></div>`)
	tree, err := Parse(lang.HTML, source)
	if err != nil {
		t.Fatalf("Parse HTML: %v", err)
	}
	defer tree.Close()
	if tree.RootNode() == nil {
		t.Fatal("root node is nil")
	}
}

func TestParseCSS(t *testing.T) {
	source := []byte(`@import './a.css'; .x { color: red; }`)
	tree, err := Parse(lang.CSS, source)
	if err != nil {
		t.Fatalf("Parse CSS: %v", err)
	}
	defer tree.Close()
	if tree.RootNode() == nil {
		t.Fatal("root node is nil")
	}
}

func TestAllLanguagesLoad(t *testing.T) {
	for _, l := range lang.AllLanguages() {
		_, err := GetLanguage(l)
		if err != nil {
			t.Errorf("GetLanguage(%s): %v", l, err)
		}
	}
}

func TestNodeText(t *testing.T) {
	source := []byte(`def greet(name):
    pass
`)
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_definition" {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				t.Error("function has no name node")
				return false
			}
			name := NodeText(nameNode, source)
			if name != "greet" {
				t.Errorf("expected greet, got %s", name)
			}
			return false
		}
		return true
	})
}

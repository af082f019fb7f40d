package main

import (
	"fmt"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/parser"
)

// runDumpAST prints a file's tree-sitter AST, narrowed to the five
// grammars this module registers. Adapted from cmd/ast_debug/main.go,
// which dumped fixed Go/Rust/Python snippets against grammars this
// module no longer carries; this version parses a real file argument
// against whichever of the supported languages it classifies as.
func runDumpAST(args []string) error {
	positional := positionalArgs(args)
	if len(positional) == 0 {
		return fmt.Errorf("dump-ast: expected a file path argument")
	}
	path := positional[0]

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	l, ok := lang.Classify(path)
	if !ok {
		return fmt.Errorf("dump-ast: %s is not a recognized source file", path)
	}
	grammar := lang.UnderlyingGrammar(path)

	tree, err := parser.Parse(grammar, source)
	if err != nil {
		return fmt.Errorf("parse %s as %s: %w", path, l, err)
	}
	defer tree.Close()

	printASTNode(tree.RootNode(), source, 0)
	return nil
}

func printASTNode(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Printf("%s%s (parent=%s) %q\n", prefix, node.Kind(), parentKind, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printASTNode(node.Child(i), source, indent+1)
	}
}

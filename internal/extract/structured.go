package extract

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/graph"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/parser"
)

// StructuredParser implements the tree-based parser of spec.md §4.4.1
// for Python, JavaScript and TypeScript/TSX (and, layered with
// Angular synthesis, the Angular composite classification).
type StructuredParser struct {
	Grammar  lang.Language // which tree-sitter grammar to parse with
	Spec     *lang.LanguageSpec
	IsModule bool // not read: Parse emits a Module entity for every structured file regardless
}

// scope tracks the enclosing entity stack while walking so containment
// edges and name-stacking can reference the nearest class/function.
type scope struct {
	fileID      string
	fileRelPath string
	moduleID    string
	classID     string
	classNames  []string // stack, for qualified member naming
	funcID      string
}

type walker struct {
	p       *StructuredParser
	source  []byte
	relPath string
	result  *ParseResult
	imports map[string]string // created empty per file; nothing in the walk writes or reads it
}

// Parse walks the tree-sitter parse tree for relPath and emits File,
// Module, and language-specific entities/edges per spec.md §4.4.1.
func (sp *StructuredParser) Parse(relPath string, source []byte) *ParseResult {
	result := &ParseResult{RelPath: relPath}

	tree, err := parser.Parse(sp.Grammar, source)
	if err != nil {
		result.addError("parse %s: %v", relPath, err)
		result.addEntity(fileEntity(relPath, source))
		return result
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		// Still syntactically unusable beyond best-effort; record and
		// keep going since tree-sitter trees are error-tolerant and
		// may still contain recoverable structure. We only hard-stop
		// on a nil root.
		if root == nil {
			result.addError("parse %s: empty tree", relPath)
			result.addEntity(fileEntity(relPath, source))
			return result
		}
		result.addError("parse %s: syntax errors in tree", relPath)
	}

	file := fileEntity(relPath, source)
	result.addEntity(file)

	moduleID := graph.DeriveID(relPath, graph.KindModule, relPath, 0, 0, file.ID)
	module := &graph.Entity{
		ID:        moduleID,
		Kind:      graph.KindModule,
		Name:      relPath,
		FilePath:  relPath,
		LineStart: 1,
		LineEnd:   int(root.EndPosition().Row) + 1,
		FileID:    file.ID,
	}
	result.addEntity(module)
	result.addEdge(&graph.Edge{FromID: file.ID, ToID: module.ID, Type: graph.ContainmentEdgeType("file", graph.KindModule)})

	w := &walker{p: sp, source: source, relPath: relPath, result: result, imports: map[string]string{}}
	sc := scope{fileID: file.ID, fileRelPath: relPath, moduleID: moduleID}
	w.walkChildren(root, sc)

	return result
}

func fileEntity(relPath string, source []byte) *graph.Entity {
	lines := strings.Count(string(source), "\n") + 1
	id := graph.DeriveID(relPath, graph.KindFile, relPath, 1, lines, "")
	return &graph.Entity{
		ID:        id,
		Kind:      graph.KindFile,
		Name:      relPath,
		FilePath:  relPath,
		LineStart: 1,
		LineEnd:   lines,
		Attributes: map[string]any{
			"size":       len(source),
			"line_count": lines,
		},
	}
}

func (w *walker) text(n *tree_sitter.Node) string { return parser.NodeText(n, w.source) }

func (w *walker) line(n *tree_sitter.Node) (int, int) {
	return int(n.StartPosition().Row) + 1, int(n.EndPosition().Row) + 1
}

// walkChildren dispatches each direct child of node under the given
// scope, recursing into container nodes that don't introduce new
// containment scope themselves (e.g. statement blocks, export wrappers).
func (w *walker) walkChildren(node *tree_sitter.Node, sc scope) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		w.visit(child, sc)
	}
}

func contains(list []string, kind string) bool {
	for _, k := range list {
		if k == kind {
			return true
		}
	}
	return false
}

func (w *walker) visit(node *tree_sitter.Node, sc scope) {
	kind := node.Kind()
	spec := w.p.Spec

	switch {
	case contains(spec.ClassNodeTypes, kind):
		w.visitClass(node, sc)
		return
	case contains(spec.FunctionNodeTypes, kind):
		w.visitFunction(node, sc)
		return
	case contains(spec.CallNodeTypes, kind):
		w.visitCall(node, sc)
		// calls can nest further calls as arguments; keep recursing
	case kind == "import_statement" || kind == "import_from_statement":
		w.visitImport(node, sc)
		return
	case kind == "export_statement":
		w.visitExport(node, sc)
		return
	case contains(spec.VariableNodeTypes, kind):
		w.visitVariable(node, sc)
		// a declarator's initializer may itself be an arrow function or
		// class expression, so keep walking into this node's children
	}

	w.walkChildren(node, sc)
}

// declName extracts a syntactic identifier name, falling back to a
// synthesized stable name for anonymous declarations, per spec.md
// §4.4.1's "Name extraction" rule.
func (w *walker) declName(node *tree_sitter.Node, form string) (name string, synthesized bool) {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return w.text(nameNode), false
	}
	start, end := w.line(node)
	return fmt.Sprintf("%s_L%d_%d", form, start, end), true
}

// decoratorsOf collects raw decorator text immediately preceding node
// as prior siblings, strips the leading '@'.
func (w *walker) decoratorsOf(node *tree_sitter.Node) []string {
	var decs []string
	spec := w.p.Spec
	if len(spec.DecoratorNodeTypes) == 0 {
		return decs
	}
	sib := node.PrevNamedSibling()
	for sib != nil && contains(spec.DecoratorNodeTypes, sib.Kind()) {
		decs = append([]string{strings.TrimPrefix(w.text(sib), "@")}, decs...)
		sib = sib.PrevNamedSibling()
	}
	return decs
}

func (w *walker) countBranching(node *tree_sitter.Node) int {
	complexity := 1
	parser.Walk(node, func(n *tree_sitter.Node) bool {
		if contains(w.p.Spec.BranchingNodeTypes, n.Kind()) {
			complexity++
		}
		return true
	})
	return complexity
}

func classLabel(kind string) graph.Kind {
	switch kind {
	case "interface_declaration":
		return graph.KindInterface
	case "enum_declaration":
		return graph.KindEnum
	case "type_alias_declaration":
		return graph.KindTypeAlias
	default:
		return graph.KindClass
	}
}

func (w *walker) visitClass(node *tree_sitter.Node, sc scope) {
	name, _ := w.declName(node, "class")
	start, end := w.line(node)
	k := classLabel(node.Kind())
	id := graph.DeriveID(sc.fileRelPath, k, name, start, end, sc.classID)

	decorators := w.decoratorsOf(node)
	baseClasses := w.extractBaseClasses(node)

	entity := &graph.Entity{
		ID: id, Kind: k, Name: name, FilePath: sc.fileRelPath,
		LineStart: start, LineEnd: end, ParentID: sc.classID, FileID: sc.fileID,
		Attributes: map[string]any{
			"decorators":   decorators,
			"base_classes": baseClasses,
		},
	}
	w.result.addEntity(entity)

	// containment: scope-chain edge, plus a file-scope edge for every
	// class (nested ones included)
	scopeKind := "module"
	scopeID := sc.moduleID
	if sc.classID != "" {
		scopeKind = "class"
		scopeID = sc.classID
	} else if sc.funcID != "" {
		scopeKind = "function"
		scopeID = sc.funcID
	}
	w.result.addEdge(&graph.Edge{FromID: scopeID, ToID: id, Type: graph.ContainmentEdgeType(scopeKind, k)})
	if scopeKind != "file" {
		w.result.addEdge(&graph.Edge{FromID: sc.fileID, ToID: id, Type: graph.ContainmentEdgeType("file", k)})
	}

	for _, base := range baseClasses {
		w.result.addEdge(&graph.Edge{
			FromID: id,
			ToID:   Unresolved("external", base),
			Type:   graph.EdgeInherits,
		})
	}

	for _, dec := range decorators {
		w.result.addEdge(&graph.Edge{
			FromID:     Unresolved("function", decoratorFunctionName(dec)),
			ToID:       id,
			Type:       graph.EdgeDecorates,
			Attributes: map[string]any{"decorator_name": dec},
		})
	}

	w.synthesizeAngular(entity, decorators, node)

	childSc := sc
	childSc.classID = id
	childSc.classNames = append(append([]string{}, sc.classNames...), name)
	childSc.funcID = ""
	if body := node.ChildByFieldName("body"); body != nil {
		w.visitClassFields(body, childSc)
		w.walkChildren(body, childSc)
	} else {
		w.walkChildren(node, childSc)
	}
}

// visitClassFields synthesizes AngularInput/AngularOutput entities for
// decorated class fields (`@Input() name: string;`), which sit outside
// FunctionNodeTypes/ClassNodeTypes and would otherwise never carry
// their own decorator-map projection, per spec.md §4.4.2.
func (w *walker) visitClassFields(body *tree_sitter.Node, sc scope) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		field := body.NamedChild(i)
		if field == nil || field.Kind() != "public_field_definition" {
			continue
		}
		decorators := w.decoratorsOf(field)
		// TypeScript places a field's decorators inside the field node.
		for j := uint(0); j < field.NamedChildCount(); j++ {
			if c := field.NamedChild(j); c != nil && contains(w.p.Spec.DecoratorNodeTypes, c.Kind()) {
				decorators = append(decorators, strings.TrimPrefix(w.text(c), "@"))
			}
		}
		if len(decorators) == 0 {
			continue
		}
		nameNode := field.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fieldName := w.text(nameNode)
		start, end := w.line(field)
		fieldID := graph.DeriveID(sc.fileRelPath, graph.KindVariable, fieldName, start, end, sc.classID)
		fieldEntity := &graph.Entity{
			ID: fieldID, Kind: graph.KindVariable, Name: fieldName, FilePath: sc.fileRelPath,
			LineStart: start, LineEnd: end, ParentID: sc.classID, FileID: sc.fileID,
			Attributes: map[string]any{"scope": "field", "decorators": decorators},
		}
		w.result.addEntity(fieldEntity)
		w.result.addEdge(&graph.Edge{FromID: sc.classID, ToID: fieldID, Type: graph.ContainmentEdgeType("class", graph.KindVariable)})
		w.synthesizeAngular(fieldEntity, decorators, field)
	}
}

// extractBaseClasses handles Python's `superclasses` field and the
// JS/TS `class_heritage` child (extends_clause / implements_clause).
func (w *walker) extractBaseClasses(node *tree_sitter.Node) []string {
	var bases []string
	if sup := node.ChildByFieldName("superclasses"); sup != nil {
		for i := uint(0); i < sup.NamedChildCount(); i++ {
			c := sup.NamedChild(i)
			if c != nil && c.Kind() == "identifier" {
				bases = append(bases, w.text(c))
			}
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		c := node.NamedChild(i)
		if c == nil || c.Kind() != "class_heritage" {
			continue
		}
		parser.Walk(c, func(n *tree_sitter.Node) bool {
			if n.Kind() == "identifier" || n.Kind() == "type_identifier" {
				bases = append(bases, w.text(n))
			}
			return true
		})
	}
	return bases
}

func decoratorFunctionName(raw string) string {
	if idx := strings.IndexByte(raw, '('); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

func (w *walker) visitFunction(node *tree_sitter.Node, sc scope) {
	name, _ := w.declName(node, "func")
	start, end := w.line(node)

	k := graph.KindFunction
	if sc.classID != "" {
		k = graph.KindMethod
	}
	if name == "constructor" {
		k = graph.KindConstructor
	}

	id := graph.DeriveID(sc.fileRelPath, k, name, start, end, sc.classID)

	decorators := w.decoratorsOf(node)
	params := node.ChildByFieldName("parameters")
	var paramsText string
	if params != nil {
		paramsText = w.text(params)
	}

	entity := &graph.Entity{
		ID: id, Kind: k, Name: name, FilePath: sc.fileRelPath,
		LineStart: start, LineEnd: end, ParentID: sc.classID, FileID: sc.fileID,
		Attributes: map[string]any{
			"signature":  paramsText,
			"complexity": w.countBranching(node),
			"decorators": decorators,
			"async":      strings.Contains(w.text(node), "async "),
			"lines":      end - start + 1,
			"module_id":  sc.moduleID,
		},
	}
	if sc.classID != "" {
		entity.Attributes["class_id"] = sc.classID
	}
	w.result.addEntity(entity)

	scopeKind := "module"
	scopeID := sc.moduleID
	if sc.classID != "" {
		scopeKind = "class"
		scopeID = sc.classID
	} else if sc.funcID != "" {
		scopeKind = "function"
		scopeID = sc.funcID
	}
	w.result.addEdge(&graph.Edge{FromID: scopeID, ToID: id, Type: graph.ContainmentEdgeType(scopeKind, k)})
	if scopeKind != "file" {
		w.result.addEdge(&graph.Edge{FromID: sc.fileID, ToID: id, Type: graph.ContainmentEdgeType("file", k)})
	}

	for _, dec := range decorators {
		w.result.addEdge(&graph.Edge{
			FromID:     Unresolved("function", decoratorFunctionName(dec)),
			ToID:       id,
			Type:       graph.EdgeDecorates,
			Attributes: map[string]any{"decorator_name": dec},
		})
	}

	childSc := sc
	childSc.funcID = id
	if body := node.ChildByFieldName("body"); body != nil {
		w.walkChildren(body, childSc)
	}
}

func (w *walker) visitCall(node *tree_sitter.Node, sc scope) {
	if sc.funcID == "" {
		return // calls outside any callable are not tracked as CALLS edges
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	start, _ := w.line(node)
	callee := w.text(fn)

	if dot := strings.LastIndexByte(callee, '.'); dot >= 0 {
		// property access / possibly method call: emit ACCESSES with
		// the full dotted path as the unresolved key, per §4.4.1.
		w.result.addEdge(&graph.Edge{
			FromID:     sc.funcID,
			ToID:       Unresolved("property", callee),
			Type:       graph.EdgeAccesses,
			Attributes: map[string]any{"property_path": callee, "access_location": start},
		})
		callee = callee[dot+1:]
	}

	w.result.addEdge(&graph.Edge{
		FromID:     sc.funcID,
		ToID:       Unresolved("function", callee),
		Type:       graph.EdgeCalls,
		Attributes: map[string]any{"call_type": "direct", "line_number": start},
	})
}

func (w *walker) visitVariable(node *tree_sitter.Node, sc scope) {
	// A variable declaration can introduce multiple declarators;
	// tree-sitter grammars vary, so fall back to scanning named
	// children for identifier-bearing declarator nodes.
	parser.Walk(node, func(n *tree_sitter.Node) bool {
		if n.Kind() != "variable_declarator" && n.Kind() != "assignment" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = n.ChildByFieldName("left")
		}
		if nameNode == nil || nameNode.Kind() != "identifier" {
			return true
		}
		name := w.text(nameNode)
		start, end := w.line(n)
		scopeTag := "module"
		scopeID := sc.moduleID
		if sc.funcID != "" {
			scopeTag = "function"
			scopeID = sc.funcID
		} else if sc.classID != "" {
			scopeTag = "class"
			scopeID = sc.classID
		}
		parentID := scopeID
		id := graph.DeriveID(sc.fileRelPath, graph.KindVariable, name, start, end, parentID)
		w.result.addEntity(&graph.Entity{
			ID: id, Kind: graph.KindVariable, Name: name, FilePath: sc.fileRelPath,
			LineStart: start, LineEnd: end, ParentID: parentID, FileID: sc.fileID,
			Attributes: map[string]any{"scope": scopeTag},
		})
		w.result.addEdge(&graph.Edge{FromID: scopeID, ToID: id, Type: graph.ContainmentEdgeType(scopeTag, graph.KindVariable)})
		return false
	})
}

func (w *walker) visitImport(node *tree_sitter.Node, sc scope) {
	var modulePath string
	if src := node.ChildByFieldName("source"); src != nil {
		modulePath = trimQuotes(w.text(src))
	} else if mod := node.ChildByFieldName("module_name"); mod != nil {
		modulePath = w.text(mod)
	} else {
		// Python "import foo.bar" with no field: take first dotted_name child.
		for i := uint(0); i < node.NamedChildCount(); i++ {
			c := node.NamedChild(i)
			if c != nil && c.Kind() == "dotted_name" {
				modulePath = w.text(c)
				break
			}
		}
	}
	if modulePath == "" {
		return
	}
	start, end := w.line(node)
	id := graph.DeriveID(sc.fileRelPath, graph.KindImport, modulePath, start, end, sc.moduleID)
	w.result.addEntity(&graph.Entity{
		ID: id, Kind: graph.KindImport, Name: modulePath, FilePath: sc.fileRelPath,
		LineStart: start, LineEnd: end, ParentID: sc.moduleID, FileID: sc.fileID,
	})
	w.result.addEdge(&graph.Edge{FromID: sc.moduleID, ToID: id, Type: graph.ContainmentEdgeType("module", graph.KindImport)})
	w.result.addEdge(&graph.Edge{FromID: sc.fileID, ToID: id, Type: graph.ContainmentEdgeType("file", graph.KindImport)})
	w.result.addEdge(&graph.Edge{
		FromID:     sc.fileID,
		ToID:       Unresolved("module", modulePath),
		Type:       graph.EdgeImports,
		Attributes: map[string]any{"import_type": importKind(node.Kind())},
	})
}

func importKind(nodeKind string) string {
	if nodeKind == "import_from_statement" {
		return "named"
	}
	return "module"
}

func (w *walker) visitExport(node *tree_sitter.Node, sc scope) {
	// export { x, y } or export default ... — records one Export entity
	// per export statement, named by the first 40 characters of its
	// source text; the individual identifiers of `export { x, y }` are
	// not split out. Recurses so any wrapped declaration
	// (class/function) is still visited.
	nameText := strings.TrimSpace(w.text(node))
	start, end := w.line(node)
	symbol := nameText
	if len(symbol) > 40 {
		symbol = symbol[:40]
	}
	id := graph.DeriveID(sc.fileRelPath, graph.KindExport, symbol, start, end, sc.moduleID)
	w.result.addEntity(&graph.Entity{
		ID: id, Kind: graph.KindExport, Name: symbol, FilePath: sc.fileRelPath,
		LineStart: start, LineEnd: end, ParentID: sc.moduleID, FileID: sc.fileID,
	})
	w.result.addEdge(&graph.Edge{FromID: sc.fileID, ToID: id, Type: graph.ContainmentEdgeType("file", graph.KindExport)})
	w.result.addEdge(&graph.Edge{
		FromID: sc.fileID, ToID: id, Type: graph.EdgeExports,
		Attributes: map[string]any{"export_type": "named", "symbol": symbol},
	})
	w.walkChildren(node, sc)
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

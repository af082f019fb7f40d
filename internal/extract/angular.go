package extract

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/graph"
)

// angularDecoratorKinds maps a decorator's bare identifier to the
// framework-typed entity kind it projects, per spec.md §4.4.2's fixed
// Angular decorator map.
var angularDecoratorKinds = map[string]graph.Kind{
	"Component":  graph.KindAngularComponent,
	"Injectable": graph.KindAngularService,
	"Directive":  graph.KindAngularDirective,
	"Pipe":       graph.KindAngularPipe,
	"NgModule":   graph.KindAngularModule,
	"Input":      graph.KindAngularInput,
	"Output":     graph.KindAngularOutput,
}

// synthesizeAngular projects a framework-typed sibling entity for any
// decorator on entity that matches the Angular map, attaching the
// decorator's argument object as attributes and, for @Component,
// emitting USES_TEMPLATE/USES_STYLES edges.
func (w *walker) synthesizeAngular(entity *graph.Entity, decorators []string, node *tree_sitter.Node) {
	for _, dec := range decorators {
		bare := decoratorFunctionName(dec)
		fwKind, ok := angularDecoratorKinds[bare]
		if !ok {
			continue
		}

		args := parseDecoratorArgs(dec)
		fwID := graph.DeriveID(entity.FilePath, fwKind, entity.Name, entity.LineStart, entity.LineEnd, entity.ID)
		fwEntity := &graph.Entity{
			ID: fwID, Kind: fwKind, Name: entity.Name, FilePath: entity.FilePath,
			LineStart: entity.LineStart, LineEnd: entity.LineEnd, ParentID: entity.ID, FileID: entity.FileID,
			Attributes: args,
		}
		w.result.addEntity(fwEntity)
		w.result.addEdge(&graph.Edge{FromID: entity.ID, ToID: fwID, Type: graph.EdgeDecorates, Attributes: map[string]any{"decorator_name": dec}})

		if fwKind != graph.KindAngularComponent {
			continue
		}

		selector, _ := args["selector"].(string)

		if tplURL, ok := args["templateUrl"].(string); ok && tplURL != "" {
			w.result.addEdge(&graph.Edge{
				FromID: fwID,
				ToID:   Unresolved("template", tplURL),
				Type:   graph.EdgeUsesTemplate,
				Attributes: map[string]any{
					"template_path":       tplURL,
					"component_file_path": entity.FilePath,
					"component_selector":  selector,
				},
			})
		}

		for _, styleURL := range stringList(args["styleUrls"]) {
			w.result.addEdge(&graph.Edge{
				FromID: fwID,
				ToID:   Unresolved("style", styleURL),
				Type:   graph.EdgeUsesStyles,
				Attributes: map[string]any{
					"style_path":          styleURL,
					"component_file_path": entity.FilePath,
					"component_selector":  selector,
				},
			})
		}
		if styleURL, ok := args["styleUrl"].(string); ok && styleURL != "" {
			w.result.addEdge(&graph.Edge{
				FromID: fwID,
				ToID:   Unresolved("style", styleURL),
				Type:   graph.EdgeUsesStyles,
				Attributes: map[string]any{
					"style_path":          styleURL,
					"component_file_path": entity.FilePath,
					"component_selector":  selector,
				},
			})
		}
	}
}

func stringList(v any) []string {
	raw, ok := v.([]string)
	if !ok {
		return nil
	}
	return raw
}

// parseDecoratorArgs extracts the top-level key: value pairs out of a
// raw decorator string's object-literal argument, e.g.
// `Component({selector: 'app-x', templateUrl: './x.html', styleUrls: ['./x.css']})`.
// This is a shallow, brace-depth-aware scan, not a JS parser: good
// enough for the flat literal shape Angular decorators actually use.
func parseDecoratorArgs(dec string) map[string]any {
	args := map[string]any{}
	open := strings.IndexByte(dec, '{')
	close := strings.LastIndexByte(dec, '}')
	if open < 0 || close < 0 || close <= open {
		return args
	}
	body := dec[open+1 : close]

	for _, field := range splitTopLevel(body, ',') {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		colon := strings.IndexByte(field, ':')
		if colon < 0 {
			continue
		}
		key := strings.Trim(strings.TrimSpace(field[:colon]), "'\"")
		val := strings.TrimSpace(field[colon+1:])

		switch {
		case strings.HasPrefix(val, "["):
			args[key] = stringArrayLiteral(val)
		case strings.HasPrefix(val, "'") || strings.HasPrefix(val, "\""):
			args[key] = trimQuotes(val)
		case val == "true" || val == "false":
			b, _ := strconv.ParseBool(val)
			args[key] = b
		default:
			args[key] = val
		}
	}
	return args
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// brackets/braces/parens or string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[' || c == '{' || c == '(':
			depth++
		case c == ']' || c == '}' || c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func stringArrayLiteral(val string) []string {
	val = strings.TrimPrefix(val, "[")
	val = strings.TrimSuffix(val, "]")
	var out []string
	for _, item := range splitTopLevel(val, ',') {
		item = trimQuotes(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

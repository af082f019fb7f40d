package extract

import (
	"regexp"

	"github.com/codegraph/codegraph/internal/graph"
)

// HTMLParser is the text-based parser of spec.md §4.4.3, grounded on
// original_source's html.py: a fixed regex set detects Angular template
// syntax and its custom-component tags, since this corpus's HTML has
// no full semantic tree-sitter query layer wired for template analysis.
type HTMLParser struct{}

var (
	angularDirectivePattern    = regexp.MustCompile(`\*ng[A-Z][a-zA-Z]*`)
	propertyBindingPattern     = regexp.MustCompile(`\[.*?\]`)
	eventBindingPattern        = regexp.MustCompile(`\(.*?\)`)
	interpolationPattern       = regexp.MustCompile(`\{\{.*?\}\}`)
	templateRefVarPattern      = regexp.MustCompile(`#[a-zA-Z][a-zA-Z0-9]*`)
	materialComponentPattern   = regexp.MustCompile(`mat-[a-z-]+`)
	customComponentPattern     = regexp.MustCompile(`app-[a-z-]+`)
	customComponentTagPattern  = regexp.MustCompile(`<(app-[a-z-]+)`)
	materialComponentTagPattern = regexp.MustCompile(`<(mat-[a-z-]+)`)
)

func (p *HTMLParser) Parse(relPath string, source []byte) *ParseResult {
	result := &ParseResult{RelPath: relPath}
	content := string(source)

	file := fileEntity(relPath, source)
	isAngular := detectAngularTemplate(content)
	file.Attributes["language"] = "html"
	file.Attributes["is_template"] = true
	if isAngular {
		file.Attributes["template_type"] = "angular"
		for k, v := range extractAngularMetadata(content) {
			file.Attributes[k] = v
		}
	} else {
		file.Attributes["template_type"] = "html"
	}
	result.addEntity(file)

	seen := map[string]bool{}
	for _, m := range customComponentTagPattern.FindAllStringSubmatch(content, -1) {
		tag := m[1]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result.addEdge(&graph.Edge{
			FromID: file.ID,
			ToID:   Unresolved("angular_component", tag),
			Type:   graph.EdgeUses,
			Attributes: map[string]any{
				"component_tag": tag,
				"usage_type":    "template_reference",
			},
		})
	}

	return result
}

// detectAngularTemplate mirrors html.py's _detect_angular_template: any
// one of the fixed patterns matching is sufficient.
func detectAngularTemplate(content string) bool {
	patterns := []*regexp.Regexp{
		angularDirectivePattern, propertyBindingPattern, eventBindingPattern,
		interpolationPattern, templateRefVarPattern, materialComponentPattern,
		customComponentPattern,
	}
	for _, re := range patterns {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

func extractAngularMetadata(content string) map[string]any {
	directives := map[string]bool{}
	for _, m := range angularDirectivePattern.FindAllString(content, -1) {
		directives[m] = true
	}

	customComponents := map[string]bool{}
	for _, m := range customComponentTagPattern.FindAllStringSubmatch(content, -1) {
		customComponents[m[1]] = true
	}

	materialComponents := map[string]bool{}
	for _, m := range materialComponentTagPattern.FindAllStringSubmatch(content, -1) {
		materialComponents[m[1]] = true
	}

	return map[string]any{
		"angular_directives":  keysOf(directives),
		"property_bindings":   len(propertyBindingPattern.FindAllString(content, -1)),
		"event_bindings":      len(eventBindingPattern.FindAllString(content, -1)),
		"interpolations":      len(interpolationPattern.FindAllString(content, -1)),
		"custom_components":   keysOf(customComponents),
		"material_components": keysOf(materialComponents),
	}
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

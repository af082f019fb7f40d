package extract

import (
	"regexp"

	"github.com/codegraph/codegraph/internal/graph"
)

// CSSParser is the text-based CSS/SCSS parser of spec.md §4.4.3. The
// original only stubs this (a single File entity, no relationships);
// this implementation completes it with selector/nesting metadata and
// @import/@use/@forward edge extraction, per spec.
type CSSParser struct {
	SCSS bool
}

var (
	cssImportPattern  = regexp.MustCompile(`@import\s+(?:url\()?['"]([^'")]+)['"]\)?`)
	scssUsePattern    = regexp.MustCompile(`@use\s+['"]([^'"]+)['"]`)
	scssForwardPattern = regexp.MustCompile(`@forward\s+['"]([^'"]+)['"]`)
	cssSelectorPattern = regexp.MustCompile(`(?m)^[^{}@]+\{`)
)

func (p *CSSParser) Parse(relPath string, source []byte) *ParseResult {
	result := &ParseResult{RelPath: relPath}
	content := string(source)

	file := fileEntity(relPath, source)
	lang := "css"
	if p.SCSS {
		lang = "scss"
	}
	file.Attributes["language"] = lang
	file.Attributes["selector_count"] = len(cssSelectorPattern.FindAllString(content, -1))
	file.Attributes["nesting_depth"] = maxBraceDepth(content)

	imports := cssImportPattern.FindAllStringSubmatch(content, -1)
	file.Attributes["import_count"] = len(imports)
	result.addEntity(file)

	for _, m := range imports {
		emitStyleImport(result, file.ID, m[1], "import")
	}
	if p.SCSS {
		for _, m := range scssUsePattern.FindAllStringSubmatch(content, -1) {
			emitStyleImport(result, file.ID, m[1], "use")
		}
		for _, m := range scssForwardPattern.FindAllStringSubmatch(content, -1) {
			emitStyleImport(result, file.ID, m[1], "forward")
		}
	}

	return result
}

func emitStyleImport(result *ParseResult, fileID, path, rule string) {
	result.addEdge(&graph.Edge{
		FromID:     fileID,
		ToID:       Unresolved("style", path),
		Type:       graph.EdgeImportsStyle,
		Attributes: map[string]any{"style_path": path, "at_rule": rule},
	})
}

func maxBraceDepth(content string) int {
	depth, max := 0, 0
	for _, r := range content {
		switch r {
		case '{':
			depth++
			if depth > max {
				max = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return max
}

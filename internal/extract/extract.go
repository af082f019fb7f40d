package extract

import (
	"github.com/codegraph/codegraph/internal/lang"
)

// Parser is the common interface every language-tagged parser in this
// package implements: one file in, one ParseResult out.
type Parser interface {
	Parse(relPath string, source []byte) *ParseResult
}

var structuredSpecs = map[lang.Language]*lang.LanguageSpec{
	lang.Python:     lang.ForLanguage(lang.Python),
	lang.JavaScript: lang.ForLanguage(lang.JavaScript),
	lang.TypeScript: lang.ForLanguage(lang.TypeScript),
	lang.TSX:        lang.ForLanguage(lang.TSX),
}

// ParserFor returns the Parser responsible for a file's classified
// language, per spec.md §4.4: structured-syntax parsers for
// Python/JS/TS(X), text-based parsers for HTML/CSS/SCSS.
// Angular-classified files (the composite `.component.ts`/`.module.ts`
// /etc. suffixes) dispatch on their real underlying grammar — a
// `.component.ts` is parsed structurally (Angular decorator synthesis
// runs inline during that walk, internal/extract/angular.go), while a
// `.component.html`/`.component.css` is still parsed by the
// corresponding text-based parser.
func ParserFor(relPath string, l lang.Language) Parser {
	if l == lang.Angular {
		l = lang.UnderlyingGrammar(relPath)
	}
	switch l {
	case lang.HTML:
		return &HTMLParser{}
	case lang.CSS:
		return &CSSParser{SCSS: false}
	case lang.SCSS:
		return &CSSParser{SCSS: true}
	default:
		if spec, ok := structuredSpecs[l]; ok {
			return &StructuredParser{Grammar: l, Spec: spec}
		}
		return nil
	}
}

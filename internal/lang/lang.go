// Package lang defines the tree-sitter node-kind tables for every
// language the extraction pipeline understands, plus the composite
// file-extension classification rules used by the FileClassifier.
package lang

import "strings"

// Language represents a supported programming/markup language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	HTML       Language = "html"
	CSS        Language = "css"
	SCSS       Language = "scss"
	Angular    Language = "angular" // composite classification, not a distinct grammar
)

// AllLanguages returns every registered language tag.
func AllLanguages() []Language {
	return []Language{Python, JavaScript, TypeScript, TSX, HTML, CSS, SCSS}
}

// LanguageSpec defines the tree-sitter node kinds relevant to a
// language's structured-syntax parser. Every registered spec carries
// the full field set: parsers that don't need a field (e.g. CSS has
// no CallNodeTypes) simply leave it empty rather than omitting it, so
// the struct never lies about what's available.
type LanguageSpec struct {
	Language Language

	// FileExtensions this spec is registered under (plain, not composite).
	FileExtensions []string

	FunctionNodeTypes   []string
	ClassNodeTypes      []string
	FieldNodeTypes      []string
	ModuleNodeTypes     []string
	CallNodeTypes       []string
	ImportNodeTypes     []string
	ImportFromTypes     []string
	DecoratorNodeTypes  []string
	BranchingNodeTypes  []string
	VariableNodeTypes   []string
	AssignmentNodeTypes []string

	// PackageIndicators lists filenames that mark a directory as a
	// language-level package/module root (e.g. "__init__.py").
	PackageIndicators []string
}

var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry, keyed by each
// of its plain file extensions.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec registered for a plain file
// extension (e.g. ".py"), or nil.
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language tag, or nil.
func ForLanguage(l Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == l {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language tag registered for a
// plain file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// compositeSuffixes maps a fixed set of multi-dot suffixes to the
// language they classify as, winning over the plain-extension match.
// Every suffix below classifies as Angular, so the order in which they
// are checked does not change the result.
var compositeSuffixes = []string{
	".component.ts",
	".module.ts",
	".service.ts",
	".guard.ts",
	".pipe.ts",
	".component.html",
	".component.css",
}

// Classify implements the FileClassifier's match order: composite
// suffix, then plain extension, then none. No whole-filename match is
// made: a file without a recognized extension is unmatched.
func Classify(path string) (Language, bool) {
	lower := strings.ToLower(path)

	for _, suffix := range compositeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return Angular, true
		}
	}

	ext := extOf(lower)
	switch ext {
	case ".jsx", ".mjs", ".cjs":
		return JavaScript, true
	case ".sass":
		return SCSS, true
	}
	if l, ok := LanguageForExtension(ext); ok {
		return l, true
	}

	return "", false
}

func extOf(lowerPath string) string {
	idx := strings.LastIndexByte(lowerPath, '.')
	if idx < 0 {
		return ""
	}
	return lowerPath[idx:]
}

// UnderlyingGrammar returns the tree-sitter grammar language a
// composite Angular classification should actually be parsed with,
// based on the file's own plain extension (a .component.ts file is
// still TypeScript syntax; a .component.html file is still HTML).
func UnderlyingGrammar(path string) Language {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".ts"):
		return TypeScript
	case strings.HasSuffix(lower, ".html"):
		return HTML
	case strings.HasSuffix(lower, ".css"):
		return CSS
	}
	if l, ok := LanguageForExtension(extOf(lower)); ok {
		return l
	}
	return ""
}

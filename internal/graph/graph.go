// Package graph defines the entity/edge data model of the code graph:
// typed nodes and typed directed edges, plus the deterministic ID
// scheme entities are identified by.
package graph

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Kind is the closed sum of entity tags spec.md §3.1 defines. Parsers
// may mint additional framework-family kinds; the resolver treats
// unknown kinds uniformly.
type Kind string

const (
	KindFile        Kind = "File"
	KindModule      Kind = "Module"
	KindClass       Kind = "Class"
	KindInterface   Kind = "Interface"
	KindEnum        Kind = "Enum"
	KindTypeAlias   Kind = "TypeAlias"
	KindFunction    Kind = "Function"
	KindMethod      Kind = "Method"
	KindConstructor Kind = "Constructor"
	KindGetter      Kind = "Getter"
	KindSetter      Kind = "Setter"
	KindVariable    Kind = "Variable"
	KindImport      Kind = "Import"
	KindExport      Kind = "Export"
	KindDecorator   Kind = "Decorator"

	KindAngularComponent Kind = "AngularComponent"
	KindAngularService   Kind = "AngularService"
	KindAngularDirective Kind = "AngularDirective"
	KindAngularPipe      Kind = "AngularPipe"
	KindAngularModule    Kind = "AngularModule"
	KindAngularInput     Kind = "AngularInput"
	KindAngularOutput    Kind = "AngularOutput"

	KindExternalFunction Kind = "ExternalFunction"
	KindExternalProperty Kind = "ExternalProperty"
	KindExternalModule   Kind = "ExternalModule"
	KindExternalExport   Kind = "ExternalExport"
	KindExternalSymbol   Kind = "ExternalSymbol"
	KindExternalReference Kind = "ExternalReference"
	KindExternalTemplate Kind = "ExternalTemplate"
	KindExternalStyle    Kind = "ExternalStyle"
)

// EdgeType is the closed sum of relationship tags spec.md §3.2 defines.
type EdgeType string

const (
	EdgeCalls        EdgeType = "CALLS"
	EdgeUses         EdgeType = "USES"
	EdgeAccesses     EdgeType = "ACCESSES"
	EdgeImports      EdgeType = "IMPORTS"
	EdgeExports      EdgeType = "EXPORTS"
	EdgeInherits     EdgeType = "INHERITS"
	EdgeExtends      EdgeType = "EXTENDS"
	EdgeImplements   EdgeType = "IMPLEMENTS"
	EdgeDecorates    EdgeType = "DECORATES"
	EdgeUsesTemplate EdgeType = "USES_TEMPLATE"
	EdgeUsesStyles   EdgeType = "USES_STYLES"
	EdgeImportsStyle EdgeType = "IMPORTS_STYLE"
)

// ContainmentEdgeType returns the FILE_CONTAINS_<KIND> /
// MODULE_CONTAINS_<KIND> / CLASS_CONTAINS_<KIND> /
// FUNCTION_CONTAINS_<KIND> edge type for a scope and contained kind.
func ContainmentEdgeType(scope string, k Kind) EdgeType {
	return EdgeType(fmt.Sprintf("%s_CONTAINS_%s", strings.ToUpper(scope), strings.ToUpper(string(k))))
}

// Entity is a typed node in the code graph.
type Entity struct {
	ID         string
	Kind       Kind
	Name       string
	FilePath   string // normalized, slash-separated, relative to project root
	LineStart  int
	LineEnd    int
	ParentID   string // "" if top-level
	FileID     string // "" only for the File entity itself
	Attributes map[string]any
}

// Edge is a typed, directed relationship between two entities.
type Edge struct {
	FromID     string
	ToID       string
	Type       EdgeType
	Attributes map[string]any
}

// NormalizePath converts a path to the canonical slash-separated,
// forward-slash-relative form entity IDs are derived from.
func NormalizePath(p string) string {
	return filepath.ToSlash(p)
}

// DeriveID computes the stable identifier of an entity: a hash of the
// tuple (normalized_file_path, kind, name, line_start, line_end,
// parent_id), per spec.md §3.1. Deterministic across runs,
// collision-resistant via xxh3's 128-bit variant, and sufficient to
// distinguish sibling entities that differ only in line range or
// parent context.
func DeriveID(filePath string, kind Kind, name string, lineStart, lineEnd int, parentID string) string {
	tuple := strings.Join([]string{
		NormalizePath(filePath),
		string(kind),
		name,
		strconv.Itoa(lineStart),
		strconv.Itoa(lineEnd),
		parentID,
	}, "\x1f")
	sum := xxh3.Hash128([]byte(tuple))
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

// DeriveStubID computes an external stub's ID, salted with the stub's
// kind (its reference-type prefix) so that, e.g., an ExternalModule
// named "foo" never collides with an ExternalFunction named "foo".
func DeriveStubID(kind Kind, name string) string {
	tuple := string(kind) + "\x1f" + name
	sum := xxh3.Hash128([]byte(tuple))
	return fmt.Sprintf("stub:%016x%016x", sum.Hi, sum.Lo)
}

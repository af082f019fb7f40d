// Package extract implements the ParserSet: one parser per language
// tag, each producing a ParseResult from a single file. Parsers never
// touch the store and never consult the symbol registry; cross-file
// references are left as unresolved placeholder endpoints for the
// resolver (internal/resolve) to rewrite.
package extract

import (
	"fmt"

	"github.com/codegraph/codegraph/internal/graph"
)

// ParseResult is the per-file output of a parser: entities,
// relationships, content hash, errors, as spec.md §4.4 defines.
type ParseResult struct {
	Entities      []*graph.Entity
	Relationships []*graph.Edge
	Hash          string
	RelPath       string
	Errors        []string
}

// Unresolved builds the `unresolved:<tag>_<raw>` placeholder shape
// spec.md §4.4 specifies for cross-file reference endpoints.
func Unresolved(tag, raw string) string {
	return fmt.Sprintf("unresolved:%s_%s", tag, raw)
}

func (r *ParseResult) addEntity(e *graph.Entity) {
	r.Entities = append(r.Entities, e)
}

func (r *ParseResult) addEdge(e *graph.Edge) {
	r.Relationships = append(r.Relationships, e)
}

func (r *ParseResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

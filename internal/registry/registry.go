// Package registry implements the SymbolRegistry: an in-memory
// multi-index from lookup keys to entities, rebuilt from scratch at
// the start of every extraction run's Pass 2 (spec.md §4.5). Grounded
// on the teacher's internal/pipeline/resolver.go FunctionRegistry
// (exact/by-name maps), generalized from a callables-only index to
// the full key set spec.md requires.
package registry

import (
	"path/filepath"
	"strings"

	"github.com/codegraph/codegraph/internal/graph"
)

// Registry is the built multi-index. Not safe for concurrent writes;
// built single-threaded after parsing, read-only during resolution.
type Registry struct {
	winners map[string]winner
}

type winner struct {
	entity *graph.Entity
	score  int
	order  int
}

// Build indexes every entity under every key spec.md §4.5 names,
// resolving collisions by the +2 class_id / +1 module_id specificity
// score, ties retaining the earlier insertion.
func Build(entities []*graph.Entity) *Registry {
	byID := make(map[string]*graph.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	r := &Registry{winners: map[string]winner{}}
	for i, e := range entities {
		score := specificityScore(e)
		for _, key := range keysFor(e, byID) {
			r.consider(key, e, score, i)
		}
	}
	return r
}

func (r *Registry) consider(key string, e *graph.Entity, score, order int) {
	cur, ok := r.winners[key]
	if !ok || score > cur.score {
		r.winners[key] = winner{entity: e, score: score, order: order}
		return
	}
	// ties retain the earlier insertion: do nothing, cur already won
}

// Lookup returns the winning entity for key, or nil if unindexed.
func (r *Registry) Lookup(key string) *graph.Entity {
	w, ok := r.winners[key]
	if !ok {
		return nil
	}
	return w.entity
}

// Len reports how many distinct keys are indexed.
func (r *Registry) Len() int { return len(r.winners) }

func specificityScore(e *graph.Entity) int {
	score := 0
	if v, ok := e.Attributes["class_id"]; ok && v != "" {
		score += 2
	}
	if v, ok := e.Attributes["module_id"]; ok && v != "" {
		score += 1
	}
	return score
}

// keysFor enumerates every lookup key a single entity should be
// indexed under, per spec.md §4.5.
func keysFor(e *graph.Entity, byID map[string]*graph.Entity) []string {
	keys := []string{e.Name}

	switch e.Kind {
	case graph.KindFunction, graph.KindMethod, graph.KindConstructor, graph.KindGetter, graph.KindSetter:
		if classID, _ := e.Attributes["class_id"].(string); classID != "" {
			if class := byID[classID]; class != nil {
				keys = append(keys, class.Name+"."+e.Name)
			}
		}
		if moduleID, _ := e.Attributes["module_id"].(string); moduleID != "" {
			if module := byID[moduleID]; module != nil {
				stem := strings.TrimSuffix(filepath.Base(graph.NormalizePath(module.FilePath)), filepath.Ext(module.FilePath))
				keys = append(keys, stem+"."+e.Name)
			}
		}

	case graph.KindFile:
		keys = append(keys, fileKeys(e.FilePath)...)

	case graph.KindAngularComponent:
		if selector, ok := e.Attributes["selector"].(string); ok && selector != "" {
			keys = append(keys, "selector:"+selector)
		}
	}

	return keys
}

// fileKeys builds the full alias set a File entity is indexed under:
// its stored (project-relative) path, module stem, and template:/style:
// aliases,
// since the resolver's own pattern list (§4.6.2), not the registry,
// decides which alias shape actually applies to a given reference.
func fileKeys(relPath string) []string {
	norm := graph.NormalizePath(relPath)
	stem := strings.TrimSuffix(filepath.Base(norm), filepath.Ext(norm))
	relDotSlash := "./" + norm

	keys := []string{
		"file:" + norm,
		"module:" + stem,
		"module:" + relDotSlash,
		"template:" + filepath.Base(norm),
		"template:" + norm,
		"template:" + relDotSlash,
		"style:" + filepath.Base(norm),
		"style:" + norm,
		"style:" + relDotSlash,
	}
	return keys
}

// Package resolve implements the Resolver: rewrites every
// unresolved:<tag>_<raw> edge endpoint left by internal/extract's
// parsers into either a concrete entity ID or a materialized external
// stub, per spec.md §4.6.1-4.6.3.
package resolve

import (
	"crypto/md5"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/codegraph/codegraph/internal/graph"
	"github.com/codegraph/codegraph/internal/registry"
)

const unresolvedPrefix = "unresolved:"

// wellKnownExternalPackages is the fixed set spec.md §4.6.1 refers to
// without enumerating; chosen to cover the JS/TS/Angular ecosystem the
// domain's composite classification targets.
var wellKnownExternalPackages = map[string]bool{
	"react": true, "react-dom": true, "rxjs": true, "lodash": true,
	"express": true, "vue": true, "axios": true,
	"@angular/core": true, "@angular/common": true, "@angular/router": true,
	"@angular/forms": true, "@angular/platform-browser": true,
}

// Resolver rewrites unresolved edge endpoints against a built registry,
// materializing stub entities for endpoints nothing in the registry
// covers. One Resolver is built fresh per extraction run, alongside
// the registry it reads.
type Resolver struct {
	reg *registry.Registry
	// fallback is consulted on a registry miss, so an incremental run's
	// references into untouched files still resolve without rebuilding
	// the registry from the whole project (the lazy load-on-miss choice
	// recorded in DESIGN.md's Open Question decisions). nil for a full
	// run, where the registry already covers every entity.
	fallback func(key string) *graph.Entity
	// stubs accumulates newly materialized stub entities, keyed by ID
	// so the same external reference never mints two stub entities.
	stubs map[string]*graph.Entity
}

func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg, stubs: map[string]*graph.Entity{}}
}

// WithFallback attaches a store-backed lookup consulted whenever the
// in-memory registry misses a key, for incremental runs.
func (r *Resolver) WithFallback(fn func(key string) *graph.Entity) *Resolver {
	r.fallback = fn
	return r
}

func (r *Resolver) lookup(key string) *graph.Entity {
	if e := r.reg.Lookup(key); e != nil {
		return e
	}
	if r.fallback != nil {
		return r.fallback(key)
	}
	return nil
}

// Resolve rewrites edges in place and returns any newly created stub
// entities, for the caller to add to the entities it persists, per
// spec.md §4.6's contract. Most parsers leave the unresolved
// placeholder on ToID, but DECORATES edges carry it on FromID (the
// decorator function reference is the edge's source, per spec.md
// §3.2) — both endpoints are checked independently.
func (r *Resolver) Resolve(edges []*graph.Edge, componentFilePath string) []*graph.Entity {
	var newEntities []*graph.Entity
	for _, e := range edges {
		if strings.HasPrefix(e.ToID, unresolvedPrefix) {
			tag, raw := splitUnresolved(e.ToID)
			resolvedID, stub := r.resolveOne(tag, raw, componentFilePath, e.Attributes)
			e.ToID = resolvedID
			if stub != nil {
				newEntities = append(newEntities, stub)
			}
		}
		if strings.HasPrefix(e.FromID, unresolvedPrefix) {
			tag, raw := splitUnresolved(e.FromID)
			resolvedID, stub := r.resolveOne(tag, raw, componentFilePath, e.Attributes)
			e.FromID = resolvedID
			if stub != nil {
				newEntities = append(newEntities, stub)
			}
		}
	}
	return newEntities
}

func splitUnresolved(id string) (tag, raw string) {
	rest := strings.TrimPrefix(id, unresolvedPrefix)
	if raw, ok := strings.CutPrefix(rest, "angular_component_"); ok {
		return "angular_component", raw
	}
	idx := strings.IndexByte(rest, '_')
	if idx < 0 {
		return rest, ""
	}
	return rest[:idx], rest[idx+1:]
}

func (r *Resolver) resolveOne(tag, raw, componentFilePath string, attrs map[string]any) (string, *graph.Entity) {
	switch tag {
	case "module":
		return r.resolveModule(raw)
	case "template":
		return r.resolveTemplateOrStyle(raw, componentFilePath, "template", graph.KindExternalTemplate)
	case "style":
		return r.resolveTemplateOrStyle(raw, componentFilePath, "style", graph.KindExternalStyle)
	default:
		return r.resolveGeneric(tag, raw)
	}
}

// resolveModule implements §4.6.1 bullet 1.
func (r *Resolver) resolveModule(rawPath string) (string, *graph.Entity) {
	if isExternalModulePath(rawPath) {
		return r.stub(graph.KindExternalModule, rawPath)
	}
	for _, key := range []string{
		"module:" + rawPath,
		"module:" + strings.TrimPrefix(rawPath, "./"),
		"file:" + rawPath,
	} {
		if e := r.lookup(key); e != nil {
			return e.ID, nil
		}
	}
	return r.stub(graph.KindExternalModule, rawPath)
}

func isExternalModulePath(p string) bool {
	if strings.HasPrefix(p, "@") {
		return true
	}
	if wellKnownExternalPackages[p] {
		return true
	}
	if strings.HasPrefix(p, "node_modules") {
		return true
	}
	return !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../")
}

// resolveTemplateOrStyle implements §4.6.1 bullet 2 using the ordered
// pattern list of §4.6.2.
func (r *Resolver) resolveTemplateOrStyle(rawPath, componentFilePath, keyTag string, stubKind graph.Kind) (string, *graph.Entity) {
	for _, p := range templateStylePatterns(rawPath, componentFilePath) {
		for _, key := range []string{keyTag + ":" + p, "file:" + p} {
			if e := r.lookup(key); e != nil {
				return e.ID, nil
			}
		}
	}
	return r.stub(stubKind, rawPath)
}

// templateStylePatterns implements §4.6.2 exactly: the ordered,
// deduplicated pattern list built from a raw reference p and the
// owning component's file path c.
func templateStylePatterns(p, c string) []string {
	var candidates []string
	add := func(s string) { candidates = append(candidates, s) }

	add(p) // 1. p as given

	isRelative := strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") || (!path.IsAbs(p) && !strings.HasPrefix(p, "@"))
	if isRelative {
		joined := path.Clean(path.Join(path.Dir(c), p))
		add(joined)                   // 2. dirname(c)/p canonicalized
		add(filepath.ToSlash(joined)) // 3. posix form of (2) — already slash-form in Go
	}

	if path.IsAbs(p) {
		add(path.Base(p))
		if idx := strings.Index(p, "src/app/"); idx >= 0 {
			suffix := p[idx+len("src/app/"):]
			add(suffix)
			add("./" + suffix)
		}
	}

	if isRelative {
		add(strings.TrimPrefix(p, "./"))
		add(path.Base(p))
	}

	return dedupePreserveOrder(candidates)
}

func dedupePreserveOrder(items []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// resolveGeneric implements §4.6.1 bullet 3: function_<name>,
// property_<path>, external_<sym>, export_<sym>, and any other tag the
// parsers emit through the same unresolved convention. These route
// through one name-then-suffix lookup; only the stub kind varies. The
// angular_component tag (HTML custom-element references) is looked up
// under the registry's selector: key instead, and a miss yields an
// AngularComponent stub.
func (r *Resolver) resolveGeneric(tag, raw string) (string, *graph.Entity) {
	name := raw
	if dot := strings.LastIndexByte(raw, '.'); dot >= 0 {
		name = raw[dot+1:]
	}

	if tag == "angular_component" {
		if e := r.lookup("selector:" + raw); e != nil {
			return e.ID, nil
		}
		return r.stub(graph.KindAngularComponent, raw)
	}

	if e := r.lookup(raw); e != nil {
		return e.ID, nil
	}
	if name != raw {
		if e := r.lookup(name); e != nil {
			return e.ID, nil
		}
	}

	return r.stub(stubKindFor(tag), raw)
}

func stubKindFor(tag string) graph.Kind {
	switch tag {
	case "function":
		return graph.KindExternalFunction
	case "property":
		return graph.KindExternalProperty
	case "export":
		return graph.KindExternalExport
	case "external":
		return graph.KindExternalReference
	default:
		return graph.KindExternalSymbol
	}
}

// stub materializes (or reuses) an external stub entity per §4.6.3's
// naming/truncation rule, returning its ID and, the first time it is
// seen, the new entity to insert into the owning file's result.
func (r *Resolver) stub(kind graph.Kind, rawName string) (string, *graph.Entity) {
	name := truncateStubName(rawName)
	id := graph.DeriveStubID(kind, name)
	if _, ok := r.stubs[id]; ok {
		return id, nil // already materialized this run
	}
	entity := &graph.Entity{
		ID:         id,
		Kind:       kind,
		Name:       name,
		Attributes: map[string]any{"external": true, "raw_reference": rawName},
	}
	r.stubs[id] = entity
	return id, entity
}

// truncateStubName implements §4.6.3: names over 100 chars are
// truncated to 90 chars at the last '.' within the tail and suffixed
// with a md5[:8] hash to keep the stub stable across runs.
func truncateStubName(name string) string {
	if len(name) <= 100 {
		return name
	}
	tail := name[:90]
	if idx := strings.LastIndexByte(tail, '.'); idx > 0 {
		tail = tail[:idx]
	}
	sum := md5.Sum([]byte(name))
	return fmt.Sprintf("%s…%x", tail, sum[:4])
}

// Package extractor implements the Extractor: the Orchestrator that
// ties FileWalker → ParserSet → SymbolRegistry → Resolver →
// StoreAdapter together for both full and incremental runs, per
// spec.md §4.7. Grounded on internal/pipeline/pipeline.go's
// Run/runPasses/runFullPasses/runIncrementalPasses structure (discover
// outside a transaction, bulk-write pragma around the store phase,
// per-pass slog timing) and passCalls' bounded-worker-pool shape.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/extract"
	"github.com/codegraph/codegraph/internal/graph"
	"github.com/codegraph/codegraph/internal/ledger"
	"github.com/codegraph/codegraph/internal/registry"
	"github.com/codegraph/codegraph/internal/resolve"
	"github.com/codegraph/codegraph/internal/store"
)

// ErrStoreConnectFailure is fatal per spec.md §7's error-kind table and
// is always propagated to the caller, never folded into Statistics.Errors.
var ErrStoreConnectFailure = errors.New("extractor: store connect failure")

// maxParseWorkers bounds the parse pool, per spec.md §5's "bounded
// worker pool" requirement; the teacher's own passCalls pool is sized
// similarly against the work available rather than raw CPU count.
const maxParseWorkers = 4

// Extractor orchestrates one project's extraction runs against a
// single store.
type Extractor struct {
	Store    *store.Store
	RepoRoot string
	Config   *config.Config
}

// New builds an Extractor. cfg may be nil, in which case config.Defaults()
// is used.
func New(s *store.Store, repoRoot string, cfg *config.Config) *Extractor {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Extractor{Store: s, RepoRoot: repoRoot, Config: cfg}
}

// Run performs a full extraction if full is true or no prior file-hash
// ledger exists, otherwise an incremental one — the same dispatch the
// teacher's runPasses makes against classifyFiles' changed/unchanged
// split, generalized to this module's added/modified/removed/unchanged
// partition.
func (x *Extractor) Run(ctx context.Context, full bool) (*Statistics, error) {
	if x.Store == nil {
		return nil, ErrStoreConnectFailure
	}

	prior, err := x.Store.LoadFileHashes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreConnectFailure, err)
	}

	if full || len(prior) == 0 {
		return x.runFull(ctx)
	}
	return x.runIncremental(ctx, prior)
}

func (x *Extractor) discoverOptions() *discover.Options {
	return &discover.Options{
		ExcludePatterns: x.Config.Parsing.ExcludePatterns,
		MaxFileSize:     x.Config.Parsing.MaxFileSize,
		FollowSymlinks:  x.Config.Parsing.FollowSymlinks,
	}
}

// runFull discovers every file and parses all of it, per spec.md §4.7's
// full-run path.
func (x *Extractor) runFull(ctx context.Context) (*Statistics, error) {
	start := time.Now()
	stats := &Statistics{}

	files, err := discover.Discover(ctx, x.RepoRoot, x.discoverOptions())
	if err != nil {
		return stats, fmt.Errorf("discover: %w", err)
	}
	slog.Info("extractor.full.discovered", "files", len(files))

	results := x.parseAll(ctx, files, stats)

	var allEntities []*graph.Entity
	for _, r := range results {
		if r != nil {
			allEntities = append(allEntities, r.Entities...)
		}
	}

	reg := registry.Build(allEntities)
	resolver := resolve.New(reg)

	for _, r := range results {
		if r == nil {
			continue
		}
		allEntities = append(allEntities, resolver.Resolve(r.Relationships, r.RelPath)...)
	}

	entities := dedupeEntities(allEntities)
	edges := collectEdges(results)

	stats.EntitiesExtracted = len(entities)
	stats.RelationshipsExtracted = len(edges)

	x.Store.BeginBulkWrite()
	writeErr := x.Store.WithTransaction(func(tx *store.Store) error {
		return x.persist(tx, entities, edges, results)
	})
	x.Store.EndBulkWrite()
	if writeErr != nil {
		return stats, writeErr
	}

	stats.UpdateTime = time.Since(start)
	slog.Info("extractor.full.done", "entities", stats.EntitiesExtracted, "relationships", stats.RelationshipsExtracted, "elapsed", stats.UpdateTime)
	return stats, nil
}

// runIncremental re-indexes only added/modified files, deletes entities
// for modified/removed files first (per spec.md §5's ordering
// guarantee), and resolves new references against a registry built
// from the newly parsed entities plus a lazy store-backed fallback for
// references into untouched files.
func (x *Extractor) runIncremental(ctx context.Context, prior map[string]string) (*Statistics, error) {
	start := time.Now()
	stats := &Statistics{}

	files, err := discover.Discover(ctx, x.RepoRoot, x.discoverOptions())
	if err != nil {
		return stats, fmt.Errorf("discover: %w", err)
	}

	current := make(map[string]string, len(files))
	byRelPath := make(map[string]discover.FileInfo, len(files))
	for _, fi := range files {
		data, err := os.ReadFile(fi.Path)
		if err != nil {
			stats.FilesFailed++
			stats.recordError("read %s: %v", fi.RelPath, err)
			continue
		}
		current[fi.RelPath] = ledger.HashContent(data)
		byRelPath[fi.RelPath] = fi
	}

	led := ledger.New(prior)
	diff := led.Classify(current)
	stats.FilesAdded = len(diff.Added)
	stats.FilesModified = len(diff.Modified)
	stats.FilesRemoved = len(diff.Removed)
	stats.FilesUnchanged = len(diff.Unchanged)

	slog.Info("extractor.incremental.classify", "added", len(diff.Added), "modified", len(diff.Modified), "removed", len(diff.Removed), "unchanged", len(diff.Unchanged))

	if len(diff.Added) == 0 && len(diff.Modified) == 0 && len(diff.Removed) == 0 {
		slog.Info("extractor.incremental.noop")
		stats.UpdateTime = time.Since(start)
		return stats, nil
	}

	toDelete := append(append([]string{}, diff.Modified...), diff.Removed...)
	for _, relPath := range toDelete {
		entityCount, relCount, err := x.countIncidentToFile(relPath)
		if err != nil {
			return stats, fmt.Errorf("count entities for %s: %w", relPath, err)
		}
		stats.EntitiesRemoved += entityCount
		stats.RelationshipsRemoved += relCount

		if err := x.Store.DeleteEntitiesForFile(relPath); err != nil {
			return stats, fmt.Errorf("delete entities for %s: %w", relPath, err)
		}
	}

	toParse := make([]discover.FileInfo, 0, len(diff.Added)+len(diff.Modified))
	for _, relPath := range append(append([]string{}, diff.Added...), diff.Modified...) {
		if fi, ok := byRelPath[relPath]; ok {
			toParse = append(toParse, fi)
		}
	}

	results := x.parseAll(ctx, toParse, stats)

	var newEntities []*graph.Entity
	for _, r := range results {
		if r != nil {
			newEntities = append(newEntities, r.Entities...)
		}
	}

	reg := registry.Build(newEntities)
	resolver := resolve.New(reg).WithFallback(x.storeFallback())

	for _, r := range results {
		if r == nil {
			continue
		}
		newEntities = append(newEntities, resolver.Resolve(r.Relationships, r.RelPath)...)
	}

	entities := dedupeEntities(newEntities)
	edges := collectEdges(results)

	stats.EntitiesExtracted = len(entities)
	stats.RelationshipsExtracted = len(edges)

	if err := x.Store.WithTransaction(func(tx *store.Store) error {
		return x.persist(tx, entities, edges, results)
	}); err != nil {
		return stats, err
	}

	stats.UpdateTime = time.Since(start)
	slog.Info("extractor.incremental.done", "entities", stats.EntitiesExtracted, "relationships", stats.RelationshipsExtracted, "elapsed", stats.UpdateTime)
	return stats, nil
}

func (x *Extractor) persist(tx *store.Store, entities []*graph.Entity, edges []*graph.Edge, results []*extract.ParseResult) error {
	if err := tx.UpsertEntities(entities); err != nil {
		return fmt.Errorf("upsert entities: %w", err)
	}
	if err := tx.InsertRelationships(edges); err != nil {
		return fmt.Errorf("insert relationships: %w", err)
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := tx.UpsertFileHash(r.RelPath, r.Hash); err != nil {
			return fmt.Errorf("upsert file hash for %s: %w", r.RelPath, err)
		}
	}
	return nil
}

func (x *Extractor) countIncidentToFile(relPath string) (entityCount, relCount int, err error) {
	entities, err := x.Store.FindEntitiesByFile(relPath)
	if err != nil {
		return 0, 0, err
	}
	if len(entities) == 0 {
		return 0, 0, nil
	}
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	relCount, err = x.Store.CountRelationshipsIncidentToIDs(ids)
	if err != nil {
		return len(entities), 0, err
	}
	return len(entities), relCount, nil
}

// storeFallback resolves a registry-miss key against the store's
// persisted entities for untouched files, approximating the registry's
// key aliasing by stripping the key's tag prefix and falling back to a
// bare-name match (and, failing that, the reference's base name).
func (x *Extractor) storeFallback() func(key string) *graph.Entity {
	return func(key string) *graph.Entity {
		name := key
		for _, prefix := range []string{"file:", "module:", "template:", "style:", "selector:"} {
			if strings.HasPrefix(key, prefix) {
				name = strings.TrimPrefix(key, prefix)
				break
			}
		}
		name = strings.TrimPrefix(name, "./")

		candidates, err := x.Store.FindEntitiesByName(name)
		if (err != nil || len(candidates) == 0) && path.Base(name) != name {
			candidates, err = x.Store.FindEntitiesByName(path.Base(name))
		}
		if err != nil || len(candidates) == 0 {
			return nil
		}
		return candidates[0]
	}
}

// parseAll runs every file's parser across a bounded worker pool.
// Per-file failures are fail-soft (spec.md §7's FileIOError policy): a
// read failure is recorded in stats and the file is skipped; parse
// errors are recorded in stats.Errors and the file's result is kept.
// Either way the run continues. A cancelled ctx stops new work from starting; in-flight
// workers finish their current file.
func (x *Extractor) parseAll(ctx context.Context, files []discover.FileInfo, stats *Statistics) []*extract.ParseResult {
	results := make([]*extract.ParseResult, len(files))
	if len(files) == 0 {
		return results
	}

	limit := len(files)
	if limit > maxParseWorkers {
		limit = maxParseWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var mu sync.Mutex

	for i, fi := range files {
		i, fi := i, fi
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			source, err := os.ReadFile(fi.Path)
			if err != nil {
				mu.Lock()
				stats.FilesFailed++
				stats.recordError("read %s: %v", fi.RelPath, err)
				mu.Unlock()
				return nil
			}

			p := extract.ParserFor(fi.RelPath, fi.Language)
			if p == nil {
				return nil
			}

			result := p.Parse(fi.RelPath, source)
			result.Hash = ledger.HashContent(source)

			mu.Lock()
			results[i] = result
			stats.FilesProcessed++
			for _, e := range result.Errors {
				stats.recordError("%s: %s", fi.RelPath, e)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func collectEdges(results []*extract.ParseResult) []*graph.Edge {
	var edges []*graph.Edge
	for _, r := range results {
		if r != nil {
			edges = append(edges, r.Relationships...)
		}
	}
	return edges
}

// dedupeEntities keeps the first occurrence of each entity ID across
// all parse results, rejecting later repeats rather than overwriting —
// two files should never mint the same entity ID, and if they do, the
// first writer wins rather than silently replacing it.
func dedupeEntities(entities []*graph.Entity) []*graph.Entity {
	seen := make(map[string]bool, len(entities))
	out := make([]*graph.Entity, 0, len(entities))
	for _, e := range entities {
		if e == nil || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

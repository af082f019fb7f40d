// Package ledger implements the HashLedger: content-hash based change
// detection across extraction runs.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex-encoded SHA-256 of raw bytes, the
// file-hashing scheme spec.md §4.3/§6 mandates.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Ledger is an in-memory cache of relPath -> content hash, loaded from
// the store's File.hash attribute at Extractor startup.
type Ledger struct {
	hashes map[string]string
}

// New builds a Ledger from a relPath -> hash snapshot (typically
// loaded from the store).
func New(snapshot map[string]string) *Ledger {
	l := &Ledger{hashes: make(map[string]string, len(snapshot))}
	for k, v := range snapshot {
		l.hashes[k] = v
	}
	return l
}

// Diff classifies the current set of (relPath -> hash) walk results
// against the ledger into added/modified/removed/unchanged relPaths.
type Diff struct {
	Added     []string
	Modified  []string
	Removed   []string
	Unchanged []string
}

// Classify compares the current walk's relPath->hash map against the
// ledger's prior snapshot.
func (l *Ledger) Classify(current map[string]string) Diff {
	var d Diff
	for relPath, hash := range current {
		prior, existed := l.hashes[relPath]
		switch {
		case !existed:
			d.Added = append(d.Added, relPath)
		case prior != hash:
			d.Modified = append(d.Modified, relPath)
		default:
			d.Unchanged = append(d.Unchanged, relPath)
		}
	}
	for relPath := range l.hashes {
		if _, stillPresent := current[relPath]; !stillPresent {
			d.Removed = append(d.Removed, relPath)
		}
	}
	return d
}

// Update applies a classified round to the in-memory ledger so
// subsequent Classify calls in the same process see up-to-date state.
func (l *Ledger) Update(relPath, hash string) {
	l.hashes[relPath] = hash
}

// Forget removes a path from the ledger (used after a file is deleted).
func (l *Ledger) Forget(relPath string) {
	delete(l.hashes, relPath)
}

// Snapshot returns a copy of the ledger's current relPath -> hash map.
func (l *Ledger) Snapshot() map[string]string {
	out := make(map[string]string, len(l.hashes))
	for k, v := range l.hashes {
		out[k] = v
	}
	return out
}

package store

import "fmt"

// UpsertFileHash records relPath's current content hash, the HashLedger
// snapshot this store persists across runs.
func (s *Store) UpsertFileHash(relPath, sha256Hex string) error {
	_, err := s.q.Exec(`INSERT INTO file_hashes (rel_path, sha256) VALUES (?, ?)
		ON CONFLICT(rel_path) DO UPDATE SET sha256=excluded.sha256`, relPath, sha256Hex)
	if err != nil {
		return fmt.Errorf("upsert file hash: %w", err)
	}
	return nil
}

// LoadFileHashes returns the full rel_path -> sha256 snapshot, used to
// seed a ledger.Ledger at Extractor startup.
func (s *Store) LoadFileHashes() (map[string]string, error) {
	rows, err := s.q.Query(`SELECT rel_path, sha256 FROM file_hashes`)
	if err != nil {
		return nil, fmt.Errorf("load file hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var relPath, sha string
		if err := rows.Scan(&relPath, &sha); err != nil {
			return nil, fmt.Errorf("scan file hash: %w", err)
		}
		out[relPath] = sha
	}
	return out, rows.Err()
}

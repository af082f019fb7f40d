package store

import "testing"

func TestUpsertAndLoadFileHashes(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer s.Close()

	if err := s.UpsertFileHash("a.py", "deadbeef"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertFileHash("a.py", "cafebabe"); err != nil {
		t.Fatalf("reupsert: %v", err)
	}

	hashes, err := s.LoadFileHashes()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if hashes["a.py"] != "cafebabe" {
		t.Errorf("expected latest hash to win, got %q", hashes["a.py"])
	}
	if len(hashes) != 1 {
		t.Errorf("expected one entry, got %d", len(hashes))
	}
}

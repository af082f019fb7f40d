package main

import "fmt"

// runStatus reports entity/relationship/file counts, per spec.md §6's
// status operation.
func runStatus(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("db: %s\n", s.DBPath())
	fmt.Printf("entities: %d\n", stats.EntityCount)
	fmt.Printf("relationships: %d\n", stats.RelationshipCount)
	fmt.Printf("files indexed: %d\n", stats.FileCount)
	return nil
}

package main

import "fmt"

// runInit creates the graph database file and schema, per spec.md §6's
// init operation. store.Open already creates the schema on a fresh
// file; this command exists to give that a name on the CLI surface and
// confirm the result.
func runInit(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ValidateSchema(); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	fmt.Printf("initialized graph database at %s\n", cfg.Database.Path)
	return nil
}

package main

import "fmt"

// runReset drops and recreates the graph schema, per spec.md §6's
// reset operation.
func runReset(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Reset(); err != nil {
		return err
	}

	fmt.Printf("reset graph database at %s\n", cfg.Database.Path)
	return nil
}

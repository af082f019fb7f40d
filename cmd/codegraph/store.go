package main

import (
	"fmt"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/extractor"
	"github.com/codegraph/codegraph/internal/store"
)

func openStore(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extractor.ErrStoreConnectFailure, err)
	}
	return s, nil
}

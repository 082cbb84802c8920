// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pdiddy/arxiv-agent/internal/catalog"
	"github.com/pdiddy/arxiv-agent/internal/llm"
	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/internal/topics"
)

func newStore() *topics.Store {
	return topics.NewStore(cfg.Store.PapersDir, logger.Named("topics"))
}

func newSearcher() *search.Arxiv {
	return search.NewArxiv(cfg.Search, search.WithLogger(logger.Named("arxiv")))
}

func newGenerator() *llm.Ollama {
	return llm.NewOllama(cfg.Generation, llm.WithLogger(logger.Named("ollama")))
}

// openCatalog returns nil when the catalog is disabled in config.
func openCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return nil, nil
	}
	c, err := catalog.Open(cfg.Catalog.Path, logger.Named("catalog"))
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", cfg.Catalog.Path, err)
	}
	return c, nil
}

func requireCatalog() (*catalog.Catalog, error) {
	c, err := openCatalog()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("catalog is disabled (set catalog.path)")
	}
	return c, nil
}

// maxResultsFlag returns the flag value, or the configured default when the
// flag is unset.
func maxResultsFlag(n int) int {
	if n > 0 {
		return n
	}
	if cfg.Search.MaxResults > 0 {
		return cfg.Search.MaxResults
	}
	return 5
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search translates free-text queries into paper records by calling
// the arXiv API, and formats results for the command line.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// Searcher is implemented by backends that turn a query into papers.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.Paper, error)
}

var _ Searcher = (*Arxiv)(nil)

// dedupe drops later papers repeating an earlier ID, keeping upstream order.
func dedupe(papers []types.Paper) []types.Paper {
	seen := make(map[string]bool, len(papers))
	out := papers[:0]
	for _, p := range papers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// FormatTable writes papers as a human-readable numbered list to w.
func FormatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for i, p := range papers {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, p.Title)
		fmt.Fprintf(w, "   Authors: %s\n", formatAuthors(p.Authors))
		fmt.Fprintf(w, "   Published: %s\n", p.Published)
		fmt.Fprintf(w, "   Category: %s\n", p.PrimaryCategory)
		fmt.Fprintf(w, "   URL: %s\n", p.PDFURL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.Paper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	const maxListed = 4
	if len(authors) <= maxListed {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxListed], ", ") + fmt.Sprintf(" et al. (%d authors)", len(authors))
}

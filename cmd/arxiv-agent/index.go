// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/catalog"
	"github.com/pdiddy/arxiv-agent/internal/registry"
	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Bring the saved-paper catalog up to date",
	Long: `Index scans the papers directory and updates the SQLite catalog used by
"find" and the search_saved_papers tool. Topics whose file has not changed
since the last run are skipped; corrupted topics are left out of the catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		summary, err := syncCatalog(cmd, c)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d, updated %d, unchanged %d, failed %d, removed %d (%d topics)\n",
			summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Removed, summary.Total())
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find QUERY...",
	Short: "Search papers already saved under any topic",
	Long: `Find looks up saved papers whose title, summary, or author list contains
every word of QUERY, ignoring case. The catalog is updated first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		c, err := requireCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		if _, err := syncCatalog(cmd, c); err != nil {
			return err
		}
		hits, err := c.Search(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(hits)
		}
		if len(hits) == 0 {
			fmt.Println("No saved papers match.")
			return nil
		}
		byTopic := make(map[string][]types.Paper)
		var order []string
		for _, h := range hits {
			if _, ok := byTopic[h.Topic]; !ok {
				order = append(order, h.Topic)
			}
			byTopic[h.Topic] = append(byTopic[h.Topic], h.Paper)
		}
		for _, topic := range order {
			fmt.Printf("\n== %s ==\n", topic)
			search.FormatTable(byTopic[topic], os.Stdout)
		}
		return nil
	},
}

func syncCatalog(cmd *cobra.Command, c *catalog.Catalog) (catalog.SyncSummary, error) {
	listing, err := newStore().List()
	if err != nil {
		return catalog.SyncSummary{}, errors.New(registry.ListErrorText(err))
	}
	summary, err := c.Sync(cmd.Context(), listing)
	if err != nil {
		return summary, fmt.Errorf("syncing catalog: %w", err)
	}
	return summary, nil
}

func init() {
	findCmd.Flags().IntP("limit", "n", 10, "maximum number of matches")
	findCmd.Flags().Bool("json", false, "output matches as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(findCmd)
}

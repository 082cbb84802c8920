// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search arXiv for papers",
	Long: `Search queries the arXiv API for papers matching QUERY, in relevance order.
The query accepts arXiv syntax such as "ti:transformer AND cat:cs.CL".
Results are printed as a numbered list, or as JSON with --json; the JSON
form can be passed to "save --file".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("max-results")
		asJSON, _ := cmd.Flags().GetBool("json")

		papers, err := newSearcher().Search(cmd.Context(), strings.Join(args, " "), maxResultsFlag(n))
		if err != nil {
			return errors.New(search.FailureRecords(err)[0]["error"])
		}

		if asJSON {
			return search.FormatJSON(papers, os.Stdout)
		}
		search.FormatTable(papers, os.Stdout)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("max-results", "n", 0, "maximum number of results (default from search.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

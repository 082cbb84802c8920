// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/registry"
	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

var saveCmd = &cobra.Command{
	Use:   "save TOPIC",
	Short: "Save papers under a research topic",
	Long: `Save writes papers under TOPIC, replacing anything saved there before.
The topic name is lowercased and spaces become underscores, so "Quantum ML"
and "quantum ml" are the same topic.

Papers come from a fresh search (--query) or from a JSON file of paper
records such as "search --json" prints (--file, "-" for stdin).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := args[0]
		query, _ := cmd.Flags().GetString("query")
		file, _ := cmd.Flags().GetString("file")
		n, _ := cmd.Flags().GetInt("max-results")

		var (
			papers []types.Paper
			err    error
		)
		switch {
		case query != "" && file != "":
			return fmt.Errorf("--query and --file are mutually exclusive")
		case query != "":
			papers, err = newSearcher().Search(cmd.Context(), query, maxResultsFlag(n))
			if err != nil {
				return errors.New(search.FailureRecords(err)[0]["error"])
			}
		case file != "":
			papers, err = readPapers(file)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("one of --query or --file is required")
		}

		path, err := newStore().Save(topic, papers)
		if err != nil {
			return errors.New(registry.SaveErrorText(err))
		}
		fmt.Printf("Papers saved to: %s\n", path)
		return nil
	},
}

func readPapers(file string) ([]types.Paper, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening papers file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var papers []types.Paper
	if err := json.NewDecoder(r).Decode(&papers); err != nil {
		return nil, fmt.Errorf("decoding papers from %s: %w", file, err)
	}
	return papers, nil
}

func init() {
	saveCmd.Flags().StringP("query", "q", "", "search arXiv and save the results")
	saveCmd.Flags().StringP("file", "f", "", "read paper records from a JSON file (- for stdin)")
	saveCmd.Flags().IntP("max-results", "n", 0, "number of papers to save with --query (default from search.max_results)")

	rootCmd.AddCommand(saveCmd)
}

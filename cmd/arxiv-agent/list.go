// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-agent/internal/registry"
	"github.com/pdiddy/arxiv-agent/internal/topics"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved research topics",
	Long: `List prints the saved topics with their paper counts, the same report the
MCP resource papers://list serves. Topics whose file cannot be parsed are
marked [Corrupted data] and do not hide the others.

--pretty renders the report for the terminal; --yaml prints one record per
topic for scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")
		asYAML, _ := cmd.Flags().GetBool("yaml")
		store := newStore()

		if asYAML {
			listing, err := store.List()
			if err != nil {
				return errors.New(registry.ListErrorText(err))
			}
			return writeTopicsYAML(os.Stdout, listing)
		}

		report := registry.TopicReport(store)
		if !pretty {
			fmt.Println(report)
			return nil
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := r.Render(report)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

// topicEntry is the --yaml form of one topic.
type topicEntry struct {
	Topic  string `yaml:"topic"`
	Name   string `yaml:"name"`
	Papers int    `yaml:"papers"`
	Status string `yaml:"status"`
	Path   string `yaml:"path"`
	Error  string `yaml:"error,omitempty"`
}

// writeTopicsYAML writes one topicEntry per listed topic to w.
func writeTopicsYAML(w io.Writer, l topics.Listing) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(topicEntries(l)); err != nil {
		return fmt.Errorf("encoding topics: %w", err)
	}
	return enc.Close()
}

func topicEntries(l topics.Listing) []topicEntry {
	entries := make([]topicEntry, 0, len(l.Topics))
	for _, t := range l.Topics {
		e := topicEntry{
			Topic:  t.Key,
			Name:   topics.DisplayName(t.Key),
			Papers: t.Count,
			Status: "ok",
			Path:   t.Path,
		}
		switch {
		case t.Corrupted():
			e.Status = "corrupted"
		case t.Err != nil:
			e.Status = "unreadable"
		}
		if t.Err != nil {
			e.Error = t.Err.Error()
		}
		entries = append(entries, e)
	}
	return entries
}

func init() {
	listCmd.Flags().Bool("pretty", false, "render the report as formatted Markdown")
	listCmd.Flags().Bool("yaml", false, "print topics as YAML records")

	rootCmd.AddCommand(listCmd)
}

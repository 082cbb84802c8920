// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/llm"
	"github.com/pdiddy/arxiv-agent/internal/registry"
	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// interactiveDefaultResults is the result count offered when the operator
// presses enter at a count prompt.
const interactiveDefaultResults = 3

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Exercise the tools from a command loop",
	Long: `Interactive runs a prompt loop offering search, save, list, llm, and exit.
Each command asks for its parameters in turn. It is meant for trying the
tools by hand; agents should use "serve".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &session{
			in:        bufio.NewScanner(os.Stdin),
			out:       os.Stdout,
			searcher:  newSearcher(),
			store:     newStore(),
			generator: newGenerator(),
			system:    cfg.Generation.SystemPrompt,
			model:     cfg.Generation.Model,
		}
		return s.run(cmd.Context())
	},
}

type session struct {
	in        *bufio.Scanner
	out       io.Writer
	searcher  search.Searcher
	store     registry.Store
	generator llm.Generator
	system    string
	model     string
}

const rule = "--------------------------------------------------"

// errEOF ends the loop when input runs out.
var errEOF = errors.New("end of input")

func (s *session) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nArXiv MCP Agent - Interactive Mode")
	fmt.Fprintln(s.out, "Type 'exit' to quit")

	for {
		cmd, err := s.ask("\nCommand [search/save/list/llm/exit]: ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		switch strings.ToLower(cmd) {
		case "exit":
			return nil
		case "search":
			err = s.search(ctx)
		case "save":
			err = s.save(ctx)
		case "list":
			fmt.Fprintln(s.out, "\nSaved topics:")
			fmt.Fprintln(s.out, rule)
			fmt.Fprintln(s.out, registry.TopicReport(s.store))
		case "llm":
			err = s.generate(ctx)
		default:
			s.help()
		}

		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "\nError: %v\n", err)
		}
	}
}

// ask prints prompt and returns the next trimmed input line.
func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) askCount(prompt string) (int, error) {
	text, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return interactiveDefaultResults, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a positive number", text)
	}
	return n, nil
}

func (s *session) search(ctx context.Context) error {
	query, err := s.ask("Enter search query: ")
	if err != nil {
		return err
	}
	n, err := s.askCount(fmt.Sprintf("Max results (default %d): ", interactiveDefaultResults))
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nSearching papers...")
	papers, err := s.searcher.Search(ctx, query, n)
	if err != nil {
		fmt.Fprintln(s.out, search.FailureRecords(err)[0]["error"])
		return nil
	}
	search.FormatTable(papers, s.out)
	return nil
}

func (s *session) save(ctx context.Context) error {
	topic, err := s.ask("Enter topic name: ")
	if err != nil {
		return err
	}
	if topic == "" {
		fmt.Fprintln(s.out, "Topic cannot be empty")
		return nil
	}
	query, err := s.ask("Search query for papers: ")
	if err != nil {
		return err
	}
	n, err := s.askCount(fmt.Sprintf("Number of papers to save (default %d): ", interactiveDefaultResults))
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nSearching and saving papers...")
	papers, err := s.searcher.Search(ctx, query, n)
	if err != nil {
		fmt.Fprintln(s.out, "Failed to fetch papers to save")
		return nil
	}
	path, err := s.store.Save(topic, papers)
	if err != nil {
		fmt.Fprintf(s.out, "\nError saving papers: %v\n", types.Cause(err))
		return nil
	}
	fmt.Fprintf(s.out, "\nPapers saved to: %s\n", path)
	return nil
}

func (s *session) generate(ctx context.Context) error {
	prompt, err := s.ask(fmt.Sprintf("Enter your prompt for %s: ", s.model))
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nGenerating response...")
	reply := llm.Reply(ctx, s.generator, prompt, s.system)
	fmt.Fprintln(s.out, "\nResponse:")
	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, reply)
	fmt.Fprintln(s.out, rule)
	return nil
}

func (s *session) help() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	fmt.Fprintln(s.out, "- search: Search for papers on arXiv")
	fmt.Fprintln(s.out, "- save: Save papers on a topic")
	fmt.Fprintln(s.out, "- list: List saved topics")
	fmt.Fprintln(s.out, "- llm: Test LLM directly")
	fmt.Fprintln(s.out, "- exit: Quit interactive mode")
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

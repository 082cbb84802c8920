// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/internal/registry"
)

const banner = `
ArXiv MCP Agent
===============

This MCP server provides tools for:
- Searching arXiv for academic papers (search_arxiv_papers)
- Saving and organizing paper metadata (save_paper_info)
- Listing saved topics (resource papers://list)
- Analyzing research topics (prompt research_summary_prompt)

Generation model: %s at %s
Papers directory: %s
Transport: %s
`

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve exposes the search, save, and listing operations as MCP tools,
resources, and prompts. By default it speaks MCP over stdin and stdout, the
way MCP clients launch local servers. With --http it serves the streamable
HTTP transport on the given address instead.

Logs go to stderr so they never mix with protocol traffic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("http")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps := registry.Deps{
			Searcher:   newSearcher(),
			Store:      newStore(),
			Logger:     logger.Named("registry"),
			MaxResults: cfg.Search.MaxResults,
		}
		c, err := openCatalog()
		if err != nil {
			return err
		}
		if c != nil {
			defer c.Close()
			deps.Catalog = c
		}
		reg := registry.New(deps, version)

		transport := "stdio"
		if addr != "" {
			transport = "streamable HTTP on " + addr
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(os.Stderr, banner, cfg.Generation.Model, cfg.Generation.URL, cfg.Store.PapersDir, transport)
		}

		if addr != "" {
			err = reg.ServeHTTP(ctx, addr)
		} else {
			err = reg.ServeStdio(ctx)
		}
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("serving MCP: %w", err)
		}
		logger.Info("server stopped", zap.String("transport", transport))
		return nil
	},
}

func init() {
	serveCmd.Flags().String("http", "", "serve streamable HTTP on this address (e.g. :8080) instead of stdio")
	serveCmd.Flags().BoolP("quiet", "q", false, "do not print the startup banner")

	rootCmd.AddCommand(serveCmd)
}


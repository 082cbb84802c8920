// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry exposes the topic store, the arXiv search adapter, and the
// prompt templates as an MCP server: tools, a topic listing resource, and a
// research summary prompt. Handlers turn every domain failure into an
// in-band result so a caller always receives a value of the declared shape.
package registry

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/internal/catalog"
	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/internal/topics"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// ServerName is the implementation name announced during MCP initialization.
const ServerName = "arxiv_agent"

// Store is the part of the topic store the registry uses.
type Store interface {
	Save(name string, papers []types.Paper) (string, error)
	List() (topics.Listing, error)
}

// Index is the part of the catalog the registry uses.
type Index interface {
	Sync(ctx context.Context, listing topics.Listing) (catalog.SyncSummary, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Hit, error)
}

// Deps holds the components behind the registry. Catalog may be nil, in
// which case search_saved_papers is not offered.
type Deps struct {
	Searcher search.Searcher
	Store    Store
	Catalog  Index
	Logger   *zap.Logger

	// MaxResults is the default of search_arxiv_papers' max_results.
	// Zero means 5.
	MaxResults int
}

// Registry owns the MCP server and the components its handlers call.
type Registry struct {
	searcher   search.Searcher
	store      Store
	catalog    Index
	logger     *zap.Logger
	maxResults int
	server     *server.MCPServer
}

// New builds the MCP server and registers every tool, resource, and prompt.
func New(deps Deps, version string) *Registry {
	r := &Registry{
		searcher:   deps.Searcher,
		store:      deps.Store,
		catalog:    deps.Catalog,
		logger:     deps.Logger,
		maxResults: deps.MaxResults,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.maxResults < 1 {
		r.maxResults = defaultMaxResults
	}

	r.server = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(r.logCalls),
		server.WithInstructions(instructions),
	)

	r.server.AddTool(searchTool(r.maxResults), r.handleSearch)
	r.server.AddTool(saveTool(), r.handleSave)
	if r.catalog != nil {
		r.server.AddTool(savedSearchTool(), r.handleSavedSearch)
	}
	r.server.AddResource(topicListResource(), r.handleTopicList)
	r.server.AddPrompt(researchSummaryPrompt(), r.handleResearchSummary)

	return r
}

// Server returns the underlying MCP server.
func (r *Registry) Server() *server.MCPServer { return r.server }

const instructions = `Search arXiv with search_arxiv_papers, keep the papers worth reading with
save_paper_info under a topic name, and read papers://list to see what has
been collected. research_summary_prompt returns instructions for analyzing
a set of papers on a topic.`

// logCalls tags each tool call with a UUID and logs its outcome.
func (r *Registry) logCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := r.logger.With(
			zap.String("call_id", uuid.NewString()),
			zap.String("tool", req.Params.Name),
		)
		start := time.Now()
		log.Debug("tool call started")

		res, err := next(ctx, req)

		elapsed := zap.Duration("elapsed", time.Since(start))
		switch {
		case err != nil:
			log.Error("tool call failed", elapsed, zap.Error(err))
		case res != nil && res.IsError:
			log.Warn("tool call returned an error result", elapsed)
		default:
			log.Info("tool call finished", elapsed)
		}
		return res, err
	}
}

// ServeStdio speaks MCP over stdin and stdout until ctx is done or stdin
// closes.
func (r *Registry) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(r.server)
	stdio.SetErrorLogger(zap.NewStdLog(r.logger))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// ServeHTTP serves the streamable HTTP transport on addr until ctx is done.
func (r *Registry) ServeHTTP(ctx context.Context, addr string) error {
	hs := server.NewStreamableHTTPServer(r.server)

	errCh := make(chan error, 1)
	go func() { errCh <- hs.Start(addr) }()
	r.logger.Info("serving MCP over HTTP", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

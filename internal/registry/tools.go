// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-agent/internal/search"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

const (
	defaultMaxResults      = 5
	defaultSavedMaxResults = 10
)

func searchTool(defaultMax int) mcp.Tool {
	return mcp.NewTool("search_arxiv_papers",
		mcp.WithDescription("Search arXiv for academic papers. Returns a JSON array of paper records "+
			"(id, title, authors, published, summary, pdf_url, primary_category) in relevance order. "+
			`On failure the array holds one {"error": ...} object instead.`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string, in arXiv query syntax or free text"),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of results to return (default: %d)", defaultMax)),
			mcp.DefaultNumber(float64(defaultMax)),
			mcp.Min(1),
		),
	)
}

func (r *Registry) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(req, "query")
	if query == "" {
		return searchFailure(types.Failf(types.KindInvalid, "search arXiv", "query is required")), nil
	}
	n, err := intArg(req, "max_results", r.maxResults)
	if err != nil {
		return searchFailure(types.Fail(types.KindInvalid, "search arXiv", err)), nil
	}

	papers, err := r.searcher.Search(ctx, query, n)
	if err != nil {
		return searchFailure(err), nil
	}
	return jsonResult(papers)
}

// searchFailure is the error sentinel result of search_arxiv_papers.
func searchFailure(err error) *mcp.CallToolResult {
	data, _ := json.Marshal(search.FailureRecords(err))
	return mcp.NewToolResultError(string(data))
}

func saveTool() mcp.Tool {
	return mcp.NewTool("save_paper_info",
		mcp.WithDescription("Save paper records under a research topic, replacing anything saved "+
			"before under the same topic. The topic name is lowercased and spaces become underscores."),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Research topic, used as the storage folder name"),
		),
		mcp.WithArray("papers",
			mcp.Required(),
			mcp.Description("Paper records as returned by search_arxiv_papers"),
			mcp.Items(map[string]any{"type": "object"}),
		),
	)
}

func (r *Registry) handleSave(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// The topic is normalized as given; surrounding spaces become underscores.
	topic, _ := req.GetArguments()["topic"].(string)
	if strings.TrimSpace(topic) == "" {
		return saveFailure(fmt.Errorf("topic is required")), nil
	}
	papers, err := decodePapers(req.GetArguments()["papers"])
	if err != nil {
		return saveFailure(err), nil
	}

	path, err := r.store.Save(topic, papers)
	if err != nil {
		return saveFailure(err), nil
	}
	return mcp.NewToolResultText("Papers saved to: " + path), nil
}

func saveFailure(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(SaveErrorText(err))
}

// SaveErrorText renders a save failure for display.
func SaveErrorText(err error) string {
	return "Error saving papers: " + types.Cause(err).Error()
}

// decodePapers converts the papers argument into records. A search failure
// record anywhere in the list rejects the whole list.
func decodePapers(v any) ([]types.Paper, error) {
	if v == nil {
		return nil, fmt.Errorf("papers is required")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding papers argument: %w", err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("papers must be an array of paper objects")
	}
	for i, fields := range raw {
		if _, ok := fields["error"]; ok {
			return nil, fmt.Errorf("papers[%d] is a search failure record, not a paper", i)
		}
	}

	papers := make([]types.Paper, 0, len(raw))
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("decoding papers: %w", err)
	}
	return papers, nil
}

func savedSearchTool() mcp.Tool {
	return mcp.NewTool("search_saved_papers",
		mcp.WithDescription("Search papers already saved under any topic. Every word of the query must "+
			"appear in the title, summary, or author list, ignoring case. Returns a JSON array of "+
			"{topic, paper} objects."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Words to look for"),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of matches to return (default: %d)", defaultSavedMaxResults)),
			mcp.DefaultNumber(defaultSavedMaxResults),
			mcp.Min(1),
		),
	)
}

func (r *Registry) handleSavedSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(req, "query")
	if query == "" {
		return savedSearchFailure(fmt.Errorf("query is required")), nil
	}
	n, err := intArg(req, "max_results", defaultSavedMaxResults)
	if err != nil {
		return savedSearchFailure(err), nil
	}

	listing, err := r.store.List()
	if err != nil {
		return savedSearchFailure(types.Cause(err)), nil
	}
	if _, err := r.catalog.Sync(ctx, listing); err != nil {
		return savedSearchFailure(err), nil
	}
	hits, err := r.catalog.Search(ctx, query, n)
	if err != nil {
		return savedSearchFailure(err), nil
	}
	return jsonResult(hits)
}

func savedSearchFailure(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error searching saved papers: " + err.Error())
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

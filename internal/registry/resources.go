// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-agent/internal/prompts"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// TopicListURI addresses the saved topic listing.
const TopicListURI = "papers://list"

func topicListResource() mcp.Resource {
	return mcp.NewResource(TopicListURI, "Saved research topics",
		mcp.WithResourceDescription("Saved research topics with the number of papers in each"),
		mcp.WithMIMEType("text/markdown"),
	)
}

func (r *Registry) handleTopicList(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     TopicReport(r.store),
		},
	}, nil
}

// TopicReport renders the store listing, or "Error listing topics: <cause>"
// when the store root cannot be read.
func TopicReport(store Store) string {
	listing, err := store.List()
	if err != nil {
		return ListErrorText(err)
	}
	return listing.Report()
}

// ListErrorText renders a listing failure for display.
func ListErrorText(err error) string {
	return fmt.Sprintf("Error listing topics: %v", types.Cause(err))
}

func researchSummaryPrompt() mcp.Prompt {
	return mcp.NewPrompt("research_summary_prompt",
		mcp.WithPromptDescription("Generate a prompt for summarizing research on a topic."),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Research topic the papers cover"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("num_papers",
			mcp.ArgumentDescription(fmt.Sprintf("Number of papers that will follow (default: %d)", prompts.DefaultNumPapers)),
		),
	)
}

// handleResearchSummary returns an error, reported to the caller as an
// invalid request, only for malformed arguments.
func (r *Registry) handleResearchSummary(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := strings.TrimSpace(req.Params.Arguments["topic"])
	n := prompts.DefaultNumPapers
	if s := strings.TrimSpace(req.Params.Arguments["num_papers"]); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("num_papers must be an integer, got %q", s)
		}
		n = v
	}

	text, err := prompts.ResearchSummary(topic, n)
	if err != nil {
		return nil, err
	}
	return mcp.NewGetPromptResult(
		"Research summary instructions for "+topic,
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}

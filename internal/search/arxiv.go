// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-agent/internal/httputil"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// arxivAPIBase is the default arXiv search endpoint.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivPDFBase builds a PDF link when an entry carries none.
const arxivPDFBase = "https://arxiv.org/pdf/"

const opSearch = "search arXiv"

// Arxiv queries the arXiv API. One call performs exactly one HTTP request;
// there is no retry and no cache.
type Arxiv struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option configures an Arxiv backend.
type Option func(*Arxiv)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Arxiv) { a.client = hc }
}

// WithBaseURL sets the query endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(a *Arxiv) { a.baseURL = u }
}

// WithLimiter replaces the request pacing limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(a *Arxiv) { a.limiter = l }
}

// WithLogger sets the logger used for dropped-entry warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Arxiv) { a.logger = l }
}

// NewArxiv builds an arXiv backend from cfg. Requests are spaced at least
// cfg.RequestInterval apart, per the arXiv API terms of use.
func NewArxiv(cfg types.SearchConfig, opts ...Option) *Arxiv {
	a := &Arxiv{
		client:  httputil.NewClient(cfg.HTTPConfig),
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zap.NewNop(),
	}
	if a.baseURL == "" {
		a.baseURL = arxivAPIBase
	}
	if cfg.RequestInterval > 0 {
		a.limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search returns at most maxResults papers for query in arXiv relevance
// order. Every returned paper has all fields set; incomplete entries are
// dropped. Failures of the upstream call are KindUpstream.
func (a *Arxiv) Search(ctx context.Context, query string, maxResults int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.Failf(types.KindInvalid, opSearch, "query is empty")
	}
	if maxResults < 1 {
		return nil, types.Failf(types.KindInvalid, opSearch, "max_results must be positive, got %d", maxResults)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, types.Failf(types.KindUpstream, opSearch, "waiting for request slot: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, types.Failf(types.KindUpstream, opSearch, "creating request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, types.Failf(types.KindUpstream, opSearch, "arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "arXiv API"); err != nil {
		return nil, types.Fail(types.KindUpstream, opSearch, err)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, types.Failf(types.KindUpstream, opSearch, "parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		if isErrorEntry(entry) {
			return nil, types.Failf(types.KindUpstream, opSearch, "arXiv API error: %s", collapse(entry.Summary))
		}

		paper := entry.toPaper()
		if err := paper.Validate(); err != nil {
			a.logger.Warn("dropping incomplete arXiv entry",
				zap.String("entry", entry.ID), zap.Error(err))
			continue
		}
		papers = append(papers, paper)
	}

	papers = dedupe(papers)
	if len(papers) > maxResults {
		papers = papers[:maxResults]
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string        `xml:"id"`
	Title           string        `xml:"title"`
	Summary         string        `xml:"summary"`
	Published       string        `xml:"published"`
	Authors         []arxivAuthor `xml:"author"`
	Links           []arxivLink   `xml:"link"`
	PrimaryCategory arxivCategory `xml:"http://arxiv.org/schemas/atom primary_category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

func (e arxivEntry) toPaper() types.Paper {
	p := types.Paper{
		ID:              shortID(e.ID),
		Title:           collapse(e.Title),
		Summary:         strings.TrimSpace(e.Summary),
		PrimaryCategory: strings.TrimSpace(e.PrimaryCategory.Term),
	}
	for _, au := range e.Authors {
		if name := collapse(au.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Published = types.NewDate(t)
	}
	p.PDFURL = e.pdfURL(p.ID)
	return p
}

// pdfURL prefers the entry's PDF link and otherwise derives one from the ID.
func (e arxivEntry) pdfURL(id string) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return strings.TrimSpace(l.Href)
		}
	}
	if id == "" {
		return ""
	}
	return arxivPDFBase + id
}

// isErrorEntry reports whether the feed entry is arXiv's in-band error report
// (e.g. id "http://arxiv.org/api/errors#incorrect_id_format_for_x").
func isErrorEntry(e arxivEntry) bool {
	return strings.Contains(e.ID, "/api/errors")
}

// shortID pulls the versioned arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1",
// "http://arxiv.org/abs/hep-th/9901001v1" → "hep-th/9901001v1").
func shortID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(idURL[idx+len(prefix):])
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FailureRecords renders err as the single-element error sentinel callers
// of the search tool receive in place of a paper list.
func FailureRecords(err error) []map[string]string {
	return []map[string]string{{"error": fmt.Sprintf("Failed to search arXiv: %v", types.Cause(err))}}
}

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

const sampleArxivSearchXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  We propose a new architecture based solely on attention mechanisms.
</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <published>1999-01-04T00:00:00Z</published>
    <title>An Old-Style Identifier</title>
    <summary>Legacy identifiers keep their archive prefix.</summary>
    <author><name>Jane Doe</name></author>
    <arxiv:primary_category term="hep-th" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <published>2018-10-11T00:00:00Z</published>
    <title>Missing Category</title>
    <summary>This entry lacks a primary category and is dropped.</summary>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

const arxivErrorXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234</id>
    <title>Error</title>
    <summary>incorrect id format for 1234</summary>
  </entry>
</feed>`

func newTestArxiv(t *testing.T, handler http.HandlerFunc, opts ...Option) *Arxiv {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	base := []Option{WithHTTPClient(ts.Client()), WithBaseURL(ts.URL)}
	return NewArxiv(types.SearchConfig{}, append(base, opts...)...)
}

func TestArxivSearch(t *testing.T) {
	var query url.Values
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleArxivSearchXML)
	})

	papers, err := a.Search(context.Background(), "attention transformers", 5)
	require.NoError(t, err)

	assert.Equal(t, "attention transformers", query.Get("search_query"))
	assert.Equal(t, "5", query.Get("max_results"))
	assert.Equal(t, "0", query.Get("start"))
	assert.Equal(t, "relevance", query.Get("sortBy"))
	assert.Equal(t, "descending", query.Get("sortOrder"))

	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "1706.03762v7", p.ID)
	assert.Equal(t, "Attention Is All You Need", p.Title)
	assert.Equal(t, "We propose a new architecture based solely on attention mechanisms.", p.Summary)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Authors)
	assert.Equal(t, "2017-06-12", p.Published.String())
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", p.PDFURL)
	assert.Equal(t, "cs.CL", p.PrimaryCategory)

	legacy := papers[1]
	assert.Equal(t, "hep-th/9901001v1", legacy.ID)
	assert.Equal(t, "https://arxiv.org/pdf/hep-th/9901001v1", legacy.PDFURL)

	for _, p := range papers {
		assert.NoError(t, p.Validate())
	}
}

func TestArxivSearchLogsDroppedEntries(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleArxivSearchXML)
	}, WithLogger(zap.New(core)))

	_, err := a.Search(context.Background(), "q", 5)
	require.NoError(t, err)

	dropped := logs.FilterMessage("dropping incomplete arXiv entry").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, "http://arxiv.org/abs/1810.04805v2", dropped[0].ContextMap()["entry"])
}

func TestArxivSearchCapsResults(t *testing.T) {
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleArxivSearchXML)
	})

	papers, err := a.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1706.03762v7", papers[0].ID)
}

func TestArxivSearchEmptyFeed(t *testing.T) {
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	})

	papers, err := a.Search(context.Background(), "nothing matches", 3)
	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestArxivSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusServiceUnavailable)
			},
			errMsg: "arXiv API returned HTTP 503: upstream down",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<feed><entry>")
			},
			errMsg: "parsing arXiv response",
		},
		{
			name: "error entry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, arxivErrorXML)
			},
			errMsg: "incorrect id format for 1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArxiv(t, tt.handler)
			papers, err := a.Search(context.Background(), "q", 5)
			require.Error(t, err)
			assert.Nil(t, papers)
			assert.True(t, types.IsKind(err, types.KindUpstream), "want upstream failure, got %v", err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestArxivSearchConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.URL
	ts.Close()

	a := NewArxiv(types.SearchConfig{HTTPConfig: types.HTTPConfig{Timeout: time.Second}}, WithBaseURL(addr))
	_, err := a.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindUpstream))
}

func TestArxivSearchRejectsBadInput(t *testing.T) {
	var calls int32
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := a.Search(context.Background(), "   ", 5)
	assert.True(t, types.IsKind(err, types.KindInvalid))

	_, err = a.Search(context.Background(), "q", 0)
	assert.True(t, types.IsKind(err, types.KindInvalid))

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestArxivSearchHonorsLimiter(t *testing.T) {
	a := newTestArxiv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleArxivSearchXML)
	}, WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	_, err := a.Search(context.Background(), "q", 5)
	require.NoError(t, err)

	// The second call would wait an hour; the context deadline ends it first.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = a.Search(ctx, "q", 5)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindUpstream))
}

func TestNewArxivDefaults(t *testing.T) {
	a := NewArxiv(types.SearchConfig{RequestInterval: 3 * time.Second})
	assert.Equal(t, arxivAPIBase, a.baseURL)
	assert.Equal(t, rate.Every(3*time.Second), a.limiter.Limit())

	a = NewArxiv(types.SearchConfig{BaseURL: "http://example.test/api"})
	assert.Equal(t, "http://example.test/api", a.baseURL)
	assert.Equal(t, rate.Inf, a.limiter.Limit())
}

func TestShortID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/1706.03762", "1706.03762"},
		{"http://arxiv.org/abs/math/0211159v2", "math/0211159v2"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shortID(tt.input))
		})
	}
}

func TestDedupe(t *testing.T) {
	papers := []types.Paper{{ID: "a", Title: "first"}, {ID: "b"}, {ID: "a", Title: "second"}}
	got := dedupe(papers)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "b", got[1].ID)
}

func TestFailureRecords(t *testing.T) {
	err := types.Failf(types.KindUpstream, opSearch, "arXiv API returned HTTP 503")
	records := FailureRecords(err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]string{"error": "Failed to search arXiv: arXiv API returned HTTP 503"}, records[0])

	data, jsonErr := json.Marshal(records)
	require.NoError(t, jsonErr)
	assert.JSONEq(t, `[{"error": "Failed to search arXiv: arXiv API returned HTTP 503"}]`, string(data))
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())

	published, err := types.ParseDate("2017-06-12")
	require.NoError(t, err)
	buf.Reset()
	FormatTable([]types.Paper{{
		ID:              "1706.03762v7",
		Title:           "Attention Is All You Need",
		Authors:         []string{"A", "B", "C", "D", "E"},
		Published:       published,
		PDFURL:          "http://arxiv.org/pdf/1706.03762v7",
		PrimaryCategory: "cs.CL",
	}}, &buf)

	out := buf.String()
	assert.Contains(t, out, "1. Attention Is All You Need")
	assert.Contains(t, out, "Authors: A, B, C, D et al. (5 authors)")
	assert.Contains(t, out, "Published: 2017-06-12")
	assert.True(t, strings.HasSuffix(out, "1 results\n"))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON([]types.Paper{{ID: "x", Title: "<T>"}}, &buf))
	assert.Contains(t, buf.String(), `"title": "<T>"`)
}

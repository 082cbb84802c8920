// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

func newTestOllama(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewOllama(types.GenerationConfig{URL: ts.URL + "/api/generate", Timeout: 5 * time.Second})
}

func TestGenerateSendsRequest(t *testing.T) {
	var got generateRequest
	var method, path, contentType string
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"model":"qwen3:8b","response":"Three bullet points.","done":true}`)
	})

	text, err := o.Generate(context.Background(), "Summarize this.", "You are a helpful research assistant.")
	require.NoError(t, err)
	assert.Equal(t, "Three bullet points.", text)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/generate", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, generateRequest{
		Model:  DefaultModel,
		Prompt: "Summarize this.",
		System: "You are a helpful research assistant.",
		Stream: false,
	}, got)
}

func TestGenerateRequestBodyShape(t *testing.T) {
	var raw map[string]any
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"response":"ok"}`)
	})

	_, err := o.Generate(context.Background(), "p", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"model": "qwen3:8b", "prompt": "p", "system": "", "stream": false}, raw)
}

func TestGenerateMissingResponseField(t *testing.T) {
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"done":true}`)
	})

	text, err := o.Generate(context.Background(), "p", "")
	require.NoError(t, err)
	assert.Equal(t, "No response from model", text)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"model 'qwen3:8b' not found"}`, http.StatusNotFound)
			},
			errMsg: "Ollama returned HTTP 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
			errMsg: "decoding Ollama response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOllama(t, tt.handler)
			_, err := o.Generate(context.Background(), "p", "")
			require.Error(t, err)
			assert.True(t, types.IsKind(err, types.KindUpstream))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	o := NewOllama(types.GenerationConfig{URL: ts.URL, Timeout: 50 * time.Millisecond})
	_, err := o.Generate(context.Background(), "p", "")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindUpstream))
}

func TestReply(t *testing.T) {
	ok := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"hello"}`)
	})
	assert.Equal(t, "hello", Reply(context.Background(), ok, "p", ""))

	failing := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Equal(t, "Error querying LLM: Ollama returned HTTP 500", Reply(context.Background(), failing, "p", ""))
}

func TestNewOllamaDefaults(t *testing.T) {
	o := NewOllama(types.GenerationConfig{})
	assert.Equal(t, DefaultURL, o.url)
	assert.Equal(t, DefaultModel, o.Model())

	o = NewOllama(types.GenerationConfig{URL: "http://gpu-box:11434/api/generate", Model: "llama3.1:8b"})
	assert.Equal(t, "http://gpu-box:11434/api/generate", o.url)
	assert.Equal(t, "llama3.1:8b", o.Model())
}

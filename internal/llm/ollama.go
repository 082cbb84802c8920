// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends prompts to a locally hosted Ollama inference endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/internal/httputil"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

const (
	// DefaultURL is Ollama's generate endpoint on its default port.
	DefaultURL = "http://localhost:11434/api/generate"

	// DefaultModel is the model requested when none is configured.
	DefaultModel = "qwen3:8b"

	// noResponse is returned when the body decodes but has no response field.
	noResponse = "No response from model"
)

const opGenerate = "query LLM"

// Generator produces text for a prompt and optional system instruction.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// Ollama calls Ollama's non-streaming /api/generate endpoint.
type Ollama struct {
	client *http.Client
	url    string
	model  string
	logger *zap.Logger
}

// Option configures an Ollama client.
type Option func(*Ollama)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *Ollama) { o.client = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Ollama) { o.logger = l }
}

// NewOllama builds a client from cfg, filling in the default URL and model.
func NewOllama(cfg types.GenerationConfig, opts ...Option) *Ollama {
	o := &Ollama{
		client: httputil.NewClient(types.HTTPConfig{Timeout: cfg.Timeout}),
		url:    cfg.URL,
		model:  cfg.Model,
		logger: zap.NewNop(),
	}
	if o.url == "" {
		o.url = DefaultURL
	}
	if o.model == "" {
		o.model = DefaultModel
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Model returns the model identifier sent with each request.
func (o *Ollama) Model() string { return o.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Generate issues one request and returns the model's text. Transport
// errors, non-2xx statuses, and undecodable bodies are KindUpstream.
func (o *Ollama) Generate(ctx context.Context, prompt, system string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	})
	if err != nil {
		return "", types.Failf(types.KindUpstream, opGenerate, "marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", types.Failf(types.KindUpstream, opGenerate, "creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	o.logger.Debug("generating", zap.String("model", o.model), zap.Int("prompt_bytes", len(prompt)))

	resp, err := o.client.Do(req)
	if err != nil {
		return "", types.Failf(types.KindUpstream, opGenerate, "calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "Ollama"); err != nil {
		return "", types.Fail(types.KindUpstream, opGenerate, err)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", types.Failf(types.KindUpstream, opGenerate, "decoding Ollama response: %w", err)
	}
	if gr.Response == nil {
		return noResponse, nil
	}
	return *gr.Response, nil
}

// Reply is Generate for display: a failure is rendered as
// "Error querying LLM: <cause>" instead of being returned.
func Reply(ctx context.Context, g Generator, prompt, system string) string {
	text, err := g.Generate(ctx, prompt, system)
	if err != nil {
		return ErrorText(err)
	}
	return text
}

// ErrorText renders a generation failure for display.
func ErrorText(err error) string {
	return fmt.Sprintf("Error querying LLM: %v", types.Cause(err))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchSummary(t *testing.T) {
	got, err := ResearchSummary("graph neural networks", 3)
	require.NoError(t, err)

	assert.Contains(t, got, "'graph neural networks'")
	assert.Contains(t, got, "3 papers")
	assert.Contains(t, got, "1. Extract key findings and methodologies")
	assert.Contains(t, got, "Papers will follow this message.")

	again, err := ResearchSummary("graph neural networks", 3)
	require.NoError(t, err)
	assert.Equal(t, got, again, "rendering must be deterministic")
}

func TestResearchSummaryDefaultCount(t *testing.T) {
	got, err := ResearchSummary("quantum ml", DefaultNumPapers)
	require.NoError(t, err)
	assert.Contains(t, got, "5 papers")
}

func TestResearchSummaryKeepsTopicVerbatim(t *testing.T) {
	// text/template does no escaping, so quotes and markup pass through.
	got, err := ResearchSummary(`LLMs & "agents" <2025>`, 2)
	require.NoError(t, err)
	assert.Contains(t, got, `'LLMs & "agents" <2025>'`)
}

func TestResearchSummaryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		topic  string
		n      int
		errMsg string
	}{
		{"empty topic", "  ", 3, "topic is empty"},
		{"zero papers", "x", 0, "must be positive"},
		{"negative papers", "x", -2, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResearchSummary(tt.topic, tt.n)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-agent/internal/topics"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

func TestWriteTopicsYAML(t *testing.T) {
	store := topics.NewStore(filepath.Join(t.TempDir(), "papers"), nil)
	published, _ := types.ParseDate("2023-11-02")
	_, err := store.Save("Graph Learning", []types.Paper{{
		ID:              "2311.00001v1",
		Title:           "Graphs",
		Authors:         []string{"Grace Hopper"},
		Published:       published,
		Summary:         "Findings.",
		PDFURL:          "https://arxiv.org/pdf/2311.00001v1",
		PrimaryCategory: "cs.AI",
	}})
	require.NoError(t, err)
	_, err = store.Save("broken", nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path("broken"), []byte("{"), 0o644))

	listing, err := store.List()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTopicsYAML(&buf, listing))

	var got []topicEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "broken", got[0].Topic)
	assert.Equal(t, "corrupted", got[0].Status)
	assert.NotEmpty(t, got[0].Error)

	assert.Equal(t, topicEntry{
		Topic:  "graph_learning",
		Name:   "Graph Learning",
		Papers: 1,
		Status: "ok",
		Path:   store.Path("graph_learning"),
	}, got[1])
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts renders parametrized prompt templates. Templates are
// returned to the caller, never executed against a model here.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// DefaultNumPapers is the paper count used when a caller gives none.
const DefaultNumPapers = 5

// researchSummaryTmpl asks a model to analyze a set of papers on one topic.
var researchSummaryTmpl = template.Must(template.New("research_summary").Parse(`You are a research assistant analyzing academic papers on '{{.Topic}}'.
I will provide you with {{.NumPapers}} papers. For each paper, please:
1. Extract key findings and methodologies
2. Identify common themes across papers
3. Note any contradictory findings
4. Highlight important citations

Then, provide a comprehensive summary of the current state of research in this area,
including open questions and potential future directions.

Papers will follow this message. Please analyze them carefully.`))

// ResearchSummary renders the research summary prompt for topic and
// numPapers. The output depends only on its inputs.
func ResearchSummary(topic string, numPapers int) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("topic is empty")
	}
	if numPapers < 1 {
		return "", fmt.Errorf("num_papers must be positive, got %d", numPapers)
	}

	var buf bytes.Buffer
	data := struct {
		Topic     string
		NumPapers int
	}{Topic: topic, NumPapers: numPapers}
	if err := researchSummaryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering research summary prompt: %w", err)
	}
	return buf.String(), nil
}

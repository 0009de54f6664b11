// Package writer synthesises a cited markdown report from accumulated
// evidence, enriched with a RAG recall pass over the evidence store.
package writer

import (
	"context"
	"fmt"
	"strings"

	"deepresearch/internal/domain"
	"deepresearch/internal/evidencestore"
	"deepresearch/internal/modelclient"
)

const ragRecallLimit = 10

// Writer turns a query and its evidence into a cited markdown report.
type Writer struct {
	client modelclient.Client
	store  evidencestore.Store
	model  string
}

func New(client modelclient.Client, store evidencestore.Store, model string) *Writer {
	return &Writer{client: client, store: store, model: model}
}

// Write never returns an error: on model failure it returns a minimal
// "report unavailable" document instead.
func (w *Writer) Write(ctx context.Context, query string, evidence []domain.Evidence) (string, domain.CostBreakdown) {
	merged := w.enhanceWithRAG(ctx, query, evidence)

	prompt := w.buildPrompt(query, merged)
	result, err := w.client.Complete(ctx, w.model, []modelclient.Message{
		{Role: "user", Content: prompt},
	}, modelclient.Options{Temperature: 0.7, MaxTokens: 3000})
	if err != nil || strings.TrimSpace(result.Content) == "" {
		return unavailableReport(query), domain.CostBreakdown{}
	}
	cost := domain.NewCostBreakdown(w.model, result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)
	return result.Content, cost
}

// enhanceWithRAG recalls semantically similar stored evidence and merges
// it with the caller's evidence, original items first.
func (w *Writer) enhanceWithRAG(ctx context.Context, query string, evidence []domain.Evidence) []domain.Evidence {
	collection := domain.CollectionName(query)
	recalled, err := w.store.Similar(ctx, collection, query, ragRecallLimit)
	if err != nil {
		return evidence
	}
	return domain.MergeEvidence(evidence, recalled)
}

func (w *Writer) buildPrompt(query string, evidence []domain.Evidence) string {
	var sources strings.Builder
	for _, ev := range evidence {
		fmt.Fprintf(&sources, "- [%s](%s): %s\n", ev.Source.Title, ev.Source.URL, ev.Excerpt)
	}

	return fmt.Sprintf(`Write a research report answering the query below, citing sources by URL.

Query: %s

Evidence:
%s

Use this exact section skeleton:
## Executive Summary
## Key Findings
## Detailed Analysis
## Conclusions
## Sources

Cite sources inline as [Source](URL). List every cited source under Sources.`, query, sources.String())
}

func unavailableReport(query string) string {
	return fmt.Sprintf("# Research Report\n\n## Executive Summary\n\nReport unavailable for query: %s\n\nThe report generator could not produce a response.\n", query)
}

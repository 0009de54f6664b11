// Package planner decomposes a research query into an ordered set of
// sub-queries.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deepresearch/internal/domain"
	"deepresearch/internal/modelclient"
)

// Planner turns a main query into a Plan via a single model call.
type Planner struct {
	client modelclient.Client
	model  string
}

func New(client modelclient.Client, model string) *Planner {
	return &Planner{client: client, model: model}
}

type subQueryWire struct {
	ID      string   `json:"id"`
	Query   string   `json:"query"`
	Sources []string `json:"sources"`
}

// Plan decomposes query into a Plan. On parse failure it falls back to
// three generic sub-queries derived from the query itself. The returned
// cost reflects the single model call spent producing the plan (zero when
// that call itself fails).
func (p *Planner) Plan(ctx context.Context, query string) (*domain.Plan, domain.CostBreakdown, error) {
	prompt := fmt.Sprintf(`Decompose this research query into 3-6 focused sub-queries that together cover the topic.

Query: %s

Return a JSON array of objects, each with "id" (short slug), "query" (the sub-query text), and "sources" (subset of ["web","news","academic","document"]):
[{"id": "overview", "query": "...", "sources": ["web"]}]`, query)

	result, err := p.client.Complete(ctx, p.model, []modelclient.Message{
		{Role: "user", Content: prompt},
	}, modelclient.Options{Temperature: 0.4, MaxTokens: 1024})
	if err != nil {
		return fallbackPlan(query), domain.CostBreakdown{}, nil
	}
	cost := domain.NewCostBreakdown(p.model, result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	subQueries := parseSubQueries(result.Content)
	if len(subQueries) == 0 {
		return fallbackPlan(query), cost, nil
	}

	return &domain.Plan{MainQuery: query, SubQueries: dedupeIDs(subQueries)}, cost, nil
}

func parseSubQueries(content string) []domain.SubQuery {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]") + 1
	if start < 0 || end <= start {
		return nil
	}

	var wire []subQueryWire
	if err := json.Unmarshal([]byte(content[start:end]), &wire); err != nil {
		return nil
	}

	subQueries := make([]domain.SubQuery, 0, len(wire))
	for _, w := range wire {
		if w.Query == "" {
			continue
		}
		sources := w.Sources
		if len(sources) == 0 {
			sources = []string{domain.SourceWeb}
		}
		id := w.ID
		if id == "" {
			id = fmt.Sprintf("sq_%d", len(subQueries)+1)
		}
		subQueries = append(subQueries, domain.SubQuery{ID: id, Text: w.Query, Sources: sources})
	}
	return subQueries
}

func fallbackPlan(query string) *domain.Plan {
	return &domain.Plan{
		MainQuery: query,
		SubQueries: []domain.SubQuery{
			{ID: "overview", Text: query + " overview", Sources: []string{domain.SourceWeb}},
			{ID: "context", Text: query + " competitors and context", Sources: []string{domain.SourceWeb}},
			{ID: "recent", Text: query + " recent developments", Sources: []string{domain.SourceWeb, domain.SourceNews}},
		},
	}
}

// Package evaluator scores evidence completeness, identifies information
// gaps, and synthesises refinement queries, all backed by one
// analytical-tier model client.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"deepresearch/internal/domain"
	"deepresearch/internal/modelclient"
)

const maxGaps = 6

// Evaluator implements the score/gaps/refine contract the orchestrator
// uses to decide whether to converge or keep iterating.
type Evaluator struct {
	client modelclient.Client
	model  string
}

func New(client modelclient.Client, model string) *Evaluator {
	return &Evaluator{client: client, model: model}
}

// summarizeEvidence renders the first 10 items (title, origin, 150-char
// excerpt) plus an "and N more" tail for anything beyond that.
func summarizeEvidence(evidence []domain.Evidence) string {
	if len(evidence) == 0 {
		return "No evidence collected yet."
	}

	var b strings.Builder
	limit := len(evidence)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		ev := evidence[i]
		origin := "web"
		if len(ev.Tags) > 0 {
			origin = ev.Tags[0]
		}
		excerpt := ev.Excerpt
		if runes := []rune(excerpt); len(runes) > 150 {
			excerpt = string(runes[:150])
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", origin, ev.Source.Title, excerpt)
	}
	if len(evidence) > 10 {
		fmt.Fprintf(&b, "...and %d more evidence items\n", len(evidence)-10)
	}
	return b.String()
}

type scoreWire struct {
	OverallScore   float64            `json:"overall_score"`
	CoverageAreas  map[string]float64 `json:"coverage_areas"`
	Confidence     float64            `json:"confidence"`
	Reasoning      string             `json:"reasoning"`
}

// Score evaluates how well evidence answers query. On parse failure it
// returns a conservative fallback rather than propagating an error.
func (e *Evaluator) Score(ctx context.Context, query string, evidence []domain.Evidence) (domain.CompletionScore, domain.CostBreakdown) {
	prompt := fmt.Sprintf(`Evaluate how completely the evidence below answers the research query.

Query: %s

Evidence:
%s

Return JSON: {"overall_score": 0.0-1.0, "coverage_areas": {"area": 0.0-1.0, ...}, "confidence": 0.0-1.0, "reasoning": "..."}`,
		query, summarizeEvidence(evidence))

	result, err := e.client.Complete(ctx, e.model, []modelclient.Message{
		{Role: "user", Content: prompt},
	}, modelclient.Options{Temperature: 0.3, MaxTokens: 512})
	if err != nil {
		return fallbackScore(), domain.CostBreakdown{}
	}
	cost := domain.NewCostBreakdown(e.model, result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	wire, ok := parseObject[scoreWire](result.Content)
	if !ok {
		return fallbackScore(), cost
	}

	score := domain.CompletionScore{
		Overall:    wire.OverallScore,
		Level:      domain.CompletionLevel(wire.OverallScore),
		Coverage:   wire.CoverageAreas,
		Confidence: wire.Confidence,
		Reasoning:  wire.Reasoning,
	}
	score.CoverageSpread = CoverageSpread(score)
	return score, cost
}

func fallbackScore() domain.CompletionScore {
	return domain.CompletionScore{
		Overall:    0.5,
		Level:      domain.LevelPartial,
		Confidence: 0.5,
		Reasoning:  "parse_fallback",
	}
}

type gapWire struct {
	GapType        string `json:"gap_type"`
	Description    string `json:"description"`
	Priority       int    `json:"priority"`
	SuggestedQuery string `json:"suggested_query"`
}

// Gaps identifies up to maxGaps information gaps, sorted by priority
// descending. Gaps whose type names a coverage area that lags well below
// the rest (beyond one CoverageSpread below the mean) are bumped a
// priority tier, since an uneven score is otherwise invisible to the
// model generating these gaps. Parse failure returns an empty slice.
func (e *Evaluator) Gaps(ctx context.Context, query string, evidence []domain.Evidence, score domain.CompletionScore) ([]domain.InformationGap, domain.CostBreakdown) {
	prompt := fmt.Sprintf(`Given the research query and accumulated evidence, identify important knowledge gaps.

Query: %s

Evidence:
%s

Return a JSON array of up to %d gaps, each: {"gap_type": "...", "description": "...", "priority": 1-5, "suggested_query": "..."}`,
		query, summarizeEvidence(evidence), maxGaps)

	result, err := e.client.Complete(ctx, e.model, []modelclient.Message{
		{Role: "user", Content: prompt},
	}, modelclient.Options{Temperature: 0.3, MaxTokens: 512})
	if err != nil {
		return nil, domain.CostBreakdown{}
	}
	cost := domain.NewCostBreakdown(e.model, result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	wire, ok := parseArray[gapWire](result.Content)
	if !ok {
		return nil, cost
	}

	gaps := make([]domain.InformationGap, 0, len(wire))
	for _, w := range wire {
		gaps = append(gaps, domain.InformationGap{
			GapType:        w.GapType,
			Description:    w.Description,
			Priority:       w.Priority,
			SuggestedQuery: w.SuggestedQuery,
		})
	}
	biasTowardUndercoveredAreas(gaps, score)
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Priority > gaps[j].Priority })
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps, cost
}

// biasTowardUndercoveredAreas bumps a gap's priority by one tier (capped
// at 5) when its gap type names a coverage area sitting more than one
// CoverageSpread below the mean, so refinement effort is steered at the
// query's weakest facets rather than treated as uniformly important.
func biasTowardUndercoveredAreas(gaps []domain.InformationGap, score domain.CompletionScore) {
	if len(score.Coverage) == 0 || score.CoverageSpread == 0 {
		return
	}
	var sum float64
	for _, v := range score.Coverage {
		sum += v
	}
	mean := sum / float64(len(score.Coverage))
	threshold := mean - score.CoverageSpread

	for i, g := range gaps {
		if coverage, ok := score.Coverage[g.GapType]; ok && coverage < threshold {
			if gaps[i].Priority < 5 {
				gaps[i].Priority++
			}
		}
	}
}

type refinementWire struct {
	Query           string   `json:"query"`
	GapAddressed    string   `json:"gap_addressed"`
	Priority        int      `json:"priority"`
	ExpectedSources []string `json:"expected_sources"`
}

// Refine synthesises at most one refinement query per gap. Parse failure
// returns an empty slice.
func (e *Evaluator) Refine(ctx context.Context, gaps []domain.InformationGap, originalQuery string) ([]domain.RefinementQuery, domain.CostBreakdown) {
	if len(gaps) == 0 {
		return nil, domain.CostBreakdown{}
	}

	var gapList strings.Builder
	for _, g := range gaps {
		fmt.Fprintf(&gapList, "- [%s] %s (priority %d)\n", g.GapType, g.Description, g.Priority)
	}

	prompt := fmt.Sprintf(`The original research query was: %s

Generate one refinement query per gap below to close it.

Gaps:
%s

Return a JSON array: [{"query": "...", "gap_addressed": "...", "priority": 1-5, "expected_sources": ["web","news","academic"]}]`,
		originalQuery, gapList.String())

	result, err := e.client.Complete(ctx, e.model, []modelclient.Message{
		{Role: "user", Content: prompt},
	}, modelclient.Options{Temperature: 0.3, MaxTokens: 512})
	if err != nil {
		return nil, domain.CostBreakdown{}
	}
	cost := domain.NewCostBreakdown(e.model, result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	wire, ok := parseArray[refinementWire](result.Content)
	if !ok {
		return nil, cost
	}

	refinements := make([]domain.RefinementQuery, 0, len(wire))
	for _, w := range wire {
		if w.Query == "" {
			continue
		}
		sources := w.ExpectedSources
		if len(sources) == 0 {
			sources = []string{domain.SourceWeb}
		}
		refinements = append(refinements, domain.RefinementQuery{
			Text:            w.Query,
			GapAddressed:    w.GapAddressed,
			Priority:        w.Priority,
			ExpectedSources: sources,
		})
	}
	if len(refinements) > len(gaps) {
		refinements = refinements[:len(gaps)]
	}
	return refinements, cost
}

func parseObject[T any](content string) (T, bool) {
	var out T
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}") + 1
	if start < 0 || end <= start {
		return out, false
	}
	if err := json.Unmarshal([]byte(content[start:end]), &out); err != nil {
		return out, false
	}
	return out, true
}

func parseArray[T any](content string) ([]T, bool) {
	var out []T
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]") + 1
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(content[start:end]), &out); err != nil {
		return nil, false
	}
	return out, true
}

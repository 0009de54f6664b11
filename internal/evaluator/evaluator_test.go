package evaluator

import (
	"context"
	"testing"

	"deepresearch/internal/domain"
	"deepresearch/internal/modelclient"
)

func TestScoreWithMockClient(t *testing.T) {
	e := New(modelclient.NewMockClient(), "mock-model")
	score, cost := e.Score(context.Background(), "query", []domain.Evidence{{Excerpt: "something"}})
	if score.Overall <= 0 {
		t.Errorf("expected a positive overall score, got %v", score.Overall)
	}
	if score.Level == "" {
		t.Error("expected a non-empty completion level")
	}
	if cost.TotalTokens == 0 {
		t.Error("expected non-zero cost for a successful scoring call")
	}
}

type erroringClient struct{}

func (erroringClient) Complete(ctx context.Context, model string, messages []modelclient.Message, opts modelclient.Options) (*modelclient.Result, error) {
	return nil, context.DeadlineExceeded
}
func (erroringClient) Health(ctx context.Context) bool { return false }

func TestScoreFallsBackOnError(t *testing.T) {
	e := New(erroringClient{}, "mock-model")
	score, cost := e.Score(context.Background(), "query", nil)
	if score.Level != domain.LevelPartial {
		t.Errorf("expected fallback level %q, got %q", domain.LevelPartial, score.Level)
	}
	if cost.TotalTokens != 0 {
		t.Errorf("expected zero cost on the fallback path, got %d", cost.TotalTokens)
	}
}

func TestGapsWithMockClientSortedByPriorityDescending(t *testing.T) {
	e := New(modelclient.NewMockClient(), "mock-model")
	gaps, cost := e.Gaps(context.Background(), "knowledge gaps query", []domain.Evidence{{Excerpt: "x"}}, domain.CompletionScore{})
	if len(gaps) == 0 {
		t.Fatal("expected at least one gap from the mock client")
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i].Priority > gaps[i-1].Priority {
			t.Errorf("expected gaps sorted by descending priority, index %d (%d) > index %d (%d)", i, gaps[i].Priority, i-1, gaps[i-1].Priority)
		}
	}
	if cost.TotalTokens == 0 {
		t.Error("expected non-zero cost for a successful gaps call")
	}
}

func TestGapsReturnsNilOnError(t *testing.T) {
	e := New(erroringClient{}, "mock-model")
	gaps, cost := e.Gaps(context.Background(), "query", nil, domain.CompletionScore{})
	if gaps != nil {
		t.Errorf("expected nil gaps on client error, got %v", gaps)
	}
	if cost.TotalTokens != 0 {
		t.Errorf("expected zero cost on client error, got %d", cost.TotalTokens)
	}
}

func TestRefineReturnsEmptyWithNoGaps(t *testing.T) {
	e := New(modelclient.NewMockClient(), "mock-model")
	refinements, cost := e.Refine(context.Background(), nil, "query")
	if refinements != nil {
		t.Errorf("expected nil refinements for empty gaps, got %v", refinements)
	}
	if cost.TotalTokens != 0 {
		t.Errorf("expected zero cost for the short-circuit path, got %d", cost.TotalTokens)
	}
}

func TestRefineWithMockClientCapsAtGapCount(t *testing.T) {
	e := New(modelclient.NewMockClient(), "mock-model")
	gaps := []domain.InformationGap{{GapType: "recency", Description: "missing recent data", Priority: 5}}
	refinements, cost := e.Refine(context.Background(), gaps, "original query")
	if len(refinements) == 0 {
		t.Fatal("expected at least one refinement query")
	}
	if len(refinements) > len(gaps) {
		t.Errorf("expected at most %d refinements for %d gaps, got %d", len(gaps), len(gaps), len(refinements))
	}
	if cost.TotalTokens == 0 {
		t.Error("expected non-zero cost for a successful refine call")
	}
}

func TestParseObjectExtractsEmbeddedJSON(t *testing.T) {
	type payload struct {
		A int `json:"a"`
	}
	out, ok := parseObject[payload]("here is some text {\"a\": 7} trailing")
	if !ok || out.A != 7 {
		t.Errorf("expected extracted object {A:7}, got %+v ok=%v", out, ok)
	}
}

func TestParseArrayRejectsMissingBrackets(t *testing.T) {
	_, ok := parseArray[domain.InformationGap]("no array here")
	if ok {
		t.Error("expected parseArray to fail when no brackets are present")
	}
}

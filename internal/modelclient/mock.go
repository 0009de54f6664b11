package modelclient

import (
	"context"
	"strings"
)

// MockClient returns schema-valid canned responses so the orchestrator and
// its collaborators remain testable offline. The response is selected by
// matching substrings in the prompt content, mirroring the cues each
// component's real prompt always includes.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (m *MockClient) Complete(ctx context.Context, model string, messages []Message, opts Options) (*Result, error) {
	var prompt strings.Builder
	for _, msg := range messages {
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	content := canned(prompt.String())
	promptTokens := len(strings.Fields(prompt.String()))
	completionTokens := len(strings.Fields(content))
	return &Result{
		Content: content,
		Raw:     content,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

func (m *MockClient) Health(ctx context.Context) bool { return true }

func canned(prompt string) string {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "sub-queries") || strings.Contains(lower, "decompose"):
		return `[
  {"id": "overview", "query": "overview and background", "sources": ["web"]},
  {"id": "context", "query": "competitors and context", "sources": ["web"]},
  {"id": "recent", "query": "recent developments", "sources": ["web", "news"]}
]`
	case strings.Contains(lower, "completeness") || strings.Contains(lower, "coverage_areas") || strings.Contains(lower, "overall_score"):
		return `{
  "overall_score": 0.72,
  "coverage_areas": {"background": 0.8, "recent": 0.6},
  "confidence": 0.7,
  "reasoning": "mock evaluation: evidence covers the main facets with moderate confidence"
}`
	case strings.Contains(lower, "knowledge gaps") || strings.Contains(lower, "gap_type"):
		return `[
  {"gap_type": "recency", "description": "missing latest developments", "priority": 4, "suggested_query": "latest developments"}
]`
	case strings.Contains(lower, "refinement") || strings.Contains(lower, "gap_addressed"):
		return `[
  {"query": "latest developments in depth", "gap_addressed": "recency", "priority": 4, "expected_sources": ["web", "news"]}
]`
	default:
		return "# Research Report\n\n## Executive Summary\n\nMock summary generated without a live provider.\n\n## Key Findings\n\n- No live evidence was available.\n\n## Detailed Analysis\n\nThis is a canned response produced by the offline model client.\n\n## Conclusions\n\nConfigure a provider to produce a substantive report.\n\n## Sources\n\n(none)\n"
	}
}

package searcher

import (
	"context"
	"fmt"
	"time"

	"deepresearch/internal/domain"
)

// MockSearcher returns deterministic canned evidence, used when no search
// API key is configured and in tests that need reproducible results.
type MockSearcher struct {
	extractor *fetchExtractor
}

func NewMockSearcher() *MockSearcher {
	return &MockSearcher{extractor: newFetchExtractor()}
}

func (m *MockSearcher) canned(query string, count int, origin string) []domain.Evidence {
	results := make([]domain.Evidence, 0, count)
	for i := 0; i < count; i++ {
		url := fmt.Sprintf("https://example.com/%s/%s/%d", origin, sanitize(query), i+1)
		canonical := domain.CanonicalizeURL(url)
		excerpt := domain.CapExcerpt(fmt.Sprintf("Mock %s result %d for query %q.", origin, i+1, query))
		score := 0.75 - float64(i)*0.05
		results = append(results, domain.Evidence{
			ID:          domain.Fingerprint(origin, canonical, "", i),
			Source:      domain.EvidenceSource{URL: canonical, Title: fmt.Sprintf("Mock result %d: %s", i+1, query), FetchedAt: time.Now().UTC()},
			Excerpt:     excerpt,
			ContentHash: domain.ContentHash(excerpt),
			Score:       &score,
			Tags:        []string{origin},
			CitKey:      fmt.Sprintf("Mock%d", i+1),
			ToolCallID:  fmt.Sprintf("mock:%d", i),
		})
	}
	return results
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, '-')
		} else if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "query"
	}
	return string(out)
}

func (m *MockSearcher) Search(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error) {
	return m.canned(query, maxResults, domain.SourceWeb), nil
}

func (m *MockSearcher) SearchNews(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error) {
	return m.canned(query, maxResults, domain.SourceNews), nil
}

func (m *MockSearcher) SearchAcademic(ctx context.Context, query string, maxResults int) ([]domain.Evidence, error) {
	return m.canned(query, maxResults, domain.SourceAcademic), nil
}

func (m *MockSearcher) Extract(ctx context.Context, url string) (string, error) {
	return m.extractor.fetch(ctx, url)
}

func (m *MockSearcher) Health(ctx context.Context) bool { return true }

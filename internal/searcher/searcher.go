// Package searcher provides a uniform web/news/academic search port that
// returns candidate Evidence, plus a best-effort page-content extractor.
package searcher

import (
	"context"

	"deepresearch/internal/domain"
)

// Options narrows a search call beyond query and result count.
type Options struct {
	Days int // for SearchNews: only results within the last N days, 0 = unbounded
}

// Searcher is the port the researcher calls through. Implementations MUST
// NOT let provider errors propagate to callers in a way that aborts a
// sibling sub-query's work — callers isolate failures per sub-query, but
// the searcher itself should return a plain error the caller can log.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error)
	SearchNews(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error)
	SearchAcademic(ctx context.Context, query string, maxResults int) ([]domain.Evidence, error)
	Extract(ctx context.Context, url string) (string, error)
	Health(ctx context.Context) bool
}

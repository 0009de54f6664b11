// Package researcher fans sub-queries out across a bounded worker pool,
// tags and stores the resulting evidence, and merges it in a
// deterministic order.
package researcher

import (
	"context"
	"fmt"
	"log"
	"sync"

	"deepresearch/internal/domain"
	"deepresearch/internal/evidencestore"
	"deepresearch/internal/searcher"
)

const (
	defaultWidth      = 5
	defaultMaxResults = 5
)

// Researcher executes a Plan's sub-queries concurrently, bounded by a
// worker pool of configurable width.
type Researcher struct {
	search searcher.Searcher
	store  evidencestore.Store
	width  int
}

func New(search searcher.Searcher, store evidencestore.Store, width int) *Researcher {
	if width <= 0 {
		width = defaultWidth
	}
	return &Researcher{search: search, store: store, width: width}
}

// indexedResult pins a worker's evidence to its sub-query's position in
// the plan so results can be merged back in deterministic order.
type indexedResult struct {
	index    int
	evidence []domain.Evidence
}

// Execute runs plan's sub-queries and returns newly accepted evidence,
// merged in deterministic (sub-query index, upstream rank) order.
func (r *Researcher) Execute(ctx context.Context, plan *domain.Plan) ([]domain.Evidence, error) {
	collection := domain.CollectionName(plan.MainQuery)
	if err := r.store.Ensure(ctx, collection); err != nil {
		return nil, domain.NewError(domain.KindStoreError, "researcher.Execute", err)
	}

	sem := make(chan struct{}, r.width)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]indexedResult, len(plan.SubQueries))

	for i, sq := range plan.SubQueries {
		if !searchable(sq.Sources) {
			continue
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return mergeOrdered(results), nil
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, sq domain.SubQuery) {
			defer wg.Done()
			defer func() { <-sem }()

			evidence := r.executeSubQuery(ctx, collection, sq)

			mu.Lock()
			results[idx] = indexedResult{index: idx, evidence: evidence}
			mu.Unlock()
		}(i, sq)
	}

	wg.Wait()
	return mergeOrdered(results), nil
}

func mergeOrdered(results []indexedResult) []domain.Evidence {
	var merged []domain.Evidence
	for _, r := range results {
		merged = domain.MergeEvidence(merged, r.evidence)
	}
	return merged
}

func (r *Researcher) executeSubQuery(ctx context.Context, collection string, sq domain.SubQuery) []domain.Evidence {
	var candidates []domain.Evidence

	for _, source := range sq.Sources {
		var results []domain.Evidence
		var err error

		switch source {
		case domain.SourceWeb:
			results, err = r.search.Search(ctx, sq.Text, defaultMaxResults, searcher.Options{})
		case domain.SourceNews:
			results, err = r.search.SearchNews(ctx, sq.Text, defaultMaxResults, searcher.Options{})
		case domain.SourceAcademic:
			results, err = r.search.SearchAcademic(ctx, sq.Text, defaultMaxResults)
		default:
			continue
		}

		if err != nil {
			log.Printf("researcher: sub-query %s (%s) failed: %v", sq.ID, source, err)
			continue
		}
		candidates = append(candidates, retag(results, sq.ID)...)
	}

	accepted := make([]domain.Evidence, 0, len(candidates))
	for _, ev := range candidates {
		ok, err := r.store.Insert(ctx, collection, ev)
		if err != nil {
			log.Printf("researcher: insert failed for %s: %v", ev.ID, err)
			continue
		}
		if ok {
			accepted = append(accepted, ev)
		}
	}
	return accepted
}

// retag finalises each candidate's identity now that the owning sub-query
// is known: recompute the fingerprint with the real sub-query ID and
// ordinal, and record provenance.
func retag(candidates []domain.Evidence, subQueryID string) []domain.Evidence {
	out := make([]domain.Evidence, len(candidates))
	for i, ev := range candidates {
		origin := domain.SourceWeb
		if len(ev.Tags) > 0 {
			origin = ev.Tags[0]
		}
		ev.ID = domain.Fingerprint(origin, ev.Source.URL, subQueryID, i)
		ev.Tags = append(append([]string{}, ev.Tags...), subQueryID)
		ev.ProducedBy = subQueryID
		if ev.ToolCallID != "" {
			ev.ToolCallID = fmt.Sprintf("%s:%s", ev.ToolCallID, subQueryID)
		}
		out[i] = ev
	}
	return out
}

func searchable(sources []string) bool {
	for _, s := range sources {
		if s == domain.SourceWeb || s == domain.SourceNews || s == domain.SourceAcademic {
			return true
		}
	}
	return false
}

package planner

import (
	"fmt"

	"deepresearch/internal/domain"
)

// RefinementPlan wraps iteration k's refinement queries into a Plan to be
// executed as iteration k+1's sub-queries. IDs follow refinement_<iter>_<n>.
func RefinementPlan(mainQuery string, iteration int, refinements []domain.RefinementQuery) *domain.Plan {
	subQueries := make([]domain.SubQuery, 0, len(refinements))
	for i, r := range refinements {
		sources := r.ExpectedSources
		if len(sources) == 0 {
			sources = []string{domain.SourceWeb}
		}
		subQueries = append(subQueries, domain.SubQuery{
			ID:      fmt.Sprintf("refinement_%d_%d", iteration, i+1),
			Text:    r.Text,
			Sources: sources,
		})
	}
	return &domain.Plan{MainQuery: mainQuery, SubQueries: subQueries}
}

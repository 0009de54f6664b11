package evaluator

import (
	"github.com/montanaflynn/stats"

	"deepresearch/internal/domain"
)

// CoverageSpread returns the standard deviation across a CompletionScore's
// coverage areas, a cheap signal for how unevenly the evidence covers the
// query's facets (a high spread means some areas are well covered while
// others lag, independent of the overall score).
func CoverageSpread(score domain.CompletionScore) float64 {
	if len(score.Coverage) < 2 {
		return 0
	}
	values := make([]float64, 0, len(score.Coverage))
	for _, v := range score.Coverage {
		values = append(values, v)
	}
	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return sd
}

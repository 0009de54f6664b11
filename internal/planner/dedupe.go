package planner

import (
	"fmt"

	"deepresearch/internal/domain"
)

// dedupeIDs renames duplicate sub-query IDs id#2, id#3, ... so every ID in
// a plan is unique, preserving the original order.
func dedupeIDs(subQueries []domain.SubQuery) []domain.SubQuery {
	seen := make(map[string]int)
	out := make([]domain.SubQuery, len(subQueries))
	for i, sq := range subQueries {
		count := seen[sq.ID]
		seen[sq.ID] = count + 1
		if count > 0 {
			sq.ID = fmt.Sprintf("%s#%d", sq.ID, count+1)
		}
		out[i] = sq
	}
	return out
}

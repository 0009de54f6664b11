package domain

// MergeEvidence appends fresh on top of existing, skipping anything whose
// id or (contentHash, source URL) pair has already been seen. The first
// occurrence wins; order is preserved (existing items first, then fresh
// items in their given order) so callers get a stable, insertion-ordered
// union as required by the finalEvidence invariant.
func MergeEvidence(existing, fresh []Evidence) []Evidence {
	seenID := make(map[string]bool, len(existing)+len(fresh))
	seenHash := make(map[string]bool, len(existing)+len(fresh))

	merged := make([]Evidence, 0, len(existing)+len(fresh))
	add := func(e Evidence) bool {
		if seenID[e.ID] {
			return false
		}
		hashKey := e.ContentHash + "|" + e.Source.URL
		if e.ContentHash != "" && seenHash[hashKey] {
			return false
		}
		seenID[e.ID] = true
		if e.ContentHash != "" {
			seenHash[hashKey] = true
		}
		merged = append(merged, e)
		return true
	}

	for _, e := range existing {
		add(e)
	}
	for _, e := range fresh {
		add(e)
	}
	return merged
}

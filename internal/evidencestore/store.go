// Package evidencestore provides semantic insert, k-NN retrieval, and
// deduplication of evidence within named, per-run collections.
package evidencestore

import (
	"context"

	"deepresearch/internal/domain"
)

// Store is the port the researcher and writer call through. Every
// operation is scoped to a named collection — one per research run.
type Store interface {
	// Ensure creates the collection if it doesn't already exist. Idempotent.
	Ensure(ctx context.Context, collection string) error
	// Insert returns false if the item is a duplicate: same id, or same
	// contentHash with the same source URL. Items sharing a contentHash but
	// coming from different URLs are all kept.
	Insert(ctx context.Context, collection string, ev domain.Evidence) (bool, error)
	// Similar performs k-NN semantic retrieval, ordered by descending similarity.
	Similar(ctx context.Context, collection string, text string, k int) ([]domain.Evidence, error)
	Drop(ctx context.Context, collection string) error
}

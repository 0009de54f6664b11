package evidencestore

import (
	"context"
	"strings"
	"sync"

	"deepresearch/internal/domain"
)

// MemoryStore is the always-available fallback: an in-memory per-collection
// bag of evidence with substring-based recall in place of true semantic
// search. Correctness (dedupe, k-NN contract shape) is preserved; only
// semantic quality is degraded.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]domain.Evidence
	ids         map[string]map[string]bool
	hashes      map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]domain.Evidence),
		ids:         make(map[string]map[string]bool),
		hashes:      make(map[string]map[string]bool),
	}
}

func (m *MemoryStore) Ensure(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = nil
		m.ids[collection] = make(map[string]bool)
		m.hashes[collection] = make(map[string]bool)
	}
	return nil
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, ev domain.Evidence) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[collection]; !ok {
		m.collections[collection] = nil
		m.ids[collection] = make(map[string]bool)
		m.hashes[collection] = make(map[string]bool)
	}

	if m.ids[collection][ev.ID] {
		return false, nil
	}
	hashKey := ev.ContentHash + "|" + ev.Source.URL
	if ev.ContentHash != "" && m.hashes[collection][hashKey] {
		return false, nil
	}

	m.ids[collection][ev.ID] = true
	if ev.ContentHash != "" {
		m.hashes[collection][hashKey] = true
	}
	m.collections[collection] = append(m.collections[collection], ev)
	return true, nil
}

func (m *MemoryStore) Similar(ctx context.Context, collection string, text string, k int) ([]domain.Evidence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(text)
	words := strings.Fields(needle)

	var matches []domain.Evidence
	for _, ev := range m.collections[collection] {
		excerpt := strings.ToLower(ev.Excerpt)
		if strings.Contains(excerpt, needle) {
			matches = append(matches, ev)
			continue
		}
		for _, w := range words {
			if len(w) > 3 && strings.Contains(excerpt, w) {
				matches = append(matches, ev)
				break
			}
		}
		if len(matches) >= k {
			break
		}
	}

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *MemoryStore) Drop(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	delete(m.ids, collection)
	delete(m.hashes, collection)
	return nil
}

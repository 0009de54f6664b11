package evidencestore

import "context"

// New selects a backend per VECTOR_BACKEND: "weaviate" probes host and
// may itself degrade to in-memory; anything else (including "none" or
// unset) uses the in-memory store directly.
func New(ctx context.Context, backend, weaviateHost string) Store {
	if backend == "weaviate" && weaviateHost != "" {
		return NewWeaviateStore(ctx, weaviateHost)
	}
	return NewMemoryStore()
}

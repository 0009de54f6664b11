package durablestore

import "path/filepath"

// New selects the durable backend. A non-empty artifactsDir gets a
// file-backed store under artifactsDir/state; otherwise records live only
// in process memory. MONGODB_URL is accepted by configuration but no
// pack example exercises a Mongo driver, so it is not wired here -
// see the grounding ledger.
func New(artifactsDir string) (Store, error) {
	if artifactsDir == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(filepath.Join(artifactsDir, "state"))
}

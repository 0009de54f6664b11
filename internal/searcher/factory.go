package searcher

// New builds a live HTTPSearcher when apiKey is configured, or falls back
// to a MockSearcher otherwise.
func New(apiKey string) Searcher {
	if apiKey == "" {
		return NewMockSearcher()
	}
	return NewHTTPSearcher(apiKey)
}

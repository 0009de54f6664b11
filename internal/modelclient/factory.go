package modelclient

import "time"

// New builds a live HTTPClient when apiKey is configured, or falls back to
// a MockClient otherwise, mirroring the provider's own mock-mode fallback.
func New(baseURL, apiKey string, connectTimeout, readTimeout time.Duration) Client {
	if apiKey == "" {
		return NewMockClient()
	}
	return NewHTTPClient(HTTPConfig{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		ConnectTimeout: connectTimeout,
		ReadTimeout:    readTimeout,
	})
}

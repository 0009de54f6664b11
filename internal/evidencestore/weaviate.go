package evidencestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"deepresearch/internal/domain"
)

// WeaviateStore talks to a Weaviate-shaped REST surface. If the host is
// unreachable at construction time, NewWeaviateStore falls back to an
// in-memory Store instead, mirroring the provider adapter's own
// mock-mode degradation.
type WeaviateStore struct {
	host       string
	httpClient *http.Client
}

// NewWeaviateStore probes host and returns either a live WeaviateStore or,
// if the probe fails, a MemoryStore.
func NewWeaviateStore(ctx context.Context, host string) Store {
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/v1/.well-known/ready", nil)
	if err == nil {
		if resp, err := client.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return &WeaviateStore{host: host, httpClient: &http.Client{Timeout: 15 * time.Second}}
			}
		}
	}
	return NewMemoryStore()
}

type weaviateObject struct {
	Class      string         `json:"class"`
	Properties map[string]any `json:"properties"`
}

func (w *WeaviateStore) Ensure(ctx context.Context, collection string) error {
	body, _ := json.Marshal(map[string]any{"class": className(collection)})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.host+"/v1/schema", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return domain.NewError(domain.KindStoreError, "evidencestore.Ensure", err)
	}
	defer func() { _ = resp.Body.Close() }()
	// 200 created, 422 already exists: both acceptable, Ensure is idempotent.
	return nil
}

func (w *WeaviateStore) Insert(ctx context.Context, collection string, ev domain.Evidence) (bool, error) {
	existing, err := w.Similar(ctx, collection, ev.Excerpt, 5)
	if err == nil {
		for _, e := range existing {
			if e.ID == ev.ID {
				return false, nil
			}
			if ev.ContentHash != "" && e.ContentHash == ev.ContentHash && e.Source.URL == ev.Source.URL {
				return false, nil
			}
		}
	}

	raw, _ := json.Marshal(ev)
	var props map[string]any
	_ = json.Unmarshal(raw, &props)

	body, _ := json.Marshal(weaviateObject{Class: className(collection), Properties: props})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.host+"/v1/objects", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return false, domain.NewError(domain.KindStoreError, "evidencestore.Insert", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return false, domain.NewError(domain.KindStoreError, "evidencestore.Insert", fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}
	return true, nil
}

func (w *WeaviateStore) Similar(ctx context.Context, collection string, text string, k int) ([]domain.Evidence, error) {
	gql := fmt.Sprintf(`{Get{%s(nearText:{concepts:[%q]} limit:%d){id excerpt source_url source_title score tags citKey}}}`, className(collection), text, k)
	body, _ := json.Marshal(map[string]string{"query": gql})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.host+"/v1/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindStoreError, "evidencestore.Similar", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed struct {
		Data struct {
			Get map[string][]map[string]any `json:"Get"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewError(domain.KindStoreError, "evidencestore.Similar", err)
	}

	rows := parsed.Data.Get[className(collection)]
	results := make([]domain.Evidence, 0, len(rows))
	for _, row := range rows {
		raw, _ := json.Marshal(row)
		var ev domain.Evidence
		if err := json.Unmarshal(raw, &ev); err == nil {
			results = append(results, ev)
		}
	}
	return results, nil
}

func (w *WeaviateStore) Drop(ctx context.Context, collection string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, w.host+"/v1/schema/"+className(collection), nil)
	if err != nil {
		return err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return domain.NewError(domain.KindStoreError, "evidencestore.Drop", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return nil
}

func className(collection string) string {
	return "C" + collection
}

package searcher

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

const tavilySearchURL = "https://api.tavily.com/search"
const tavilyExtractURL = "https://api.tavily.com/extract"

// HTTPSearcher wraps a Tavily-shaped search API.
type HTTPSearcher struct {
	apiKey     string
	httpClient *http.Client
}

func NewHTTPSearcher(apiKey string) *HTTPSearcher {
	return &HTTPSearcher{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	Topic       string `json:"topic,omitempty"`
	Days        int    `json:"days,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type searchResultItem struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
}

func (s *HTTPSearcher) Search(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error) {
	return s.run(ctx, searchRequest{
		APIKey:      s.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "advanced",
	}, domain.SourceWeb, "tavily")
}

func (s *HTTPSearcher) SearchNews(ctx context.Context, query string, maxResults int, opts Options) ([]domain.Evidence, error) {
	return s.run(ctx, searchRequest{
		APIKey:     s.apiKey,
		Query:      query,
		Topic:      "news",
		Days:       opts.Days,
		MaxResults: maxResults,
	}, domain.SourceNews, "tavily")
}

func (s *HTTPSearcher) SearchAcademic(ctx context.Context, query string, maxResults int) ([]domain.Evidence, error) {
	academicQuery := query + " (site:arxiv.org OR site:scholar.google.com OR site:pubmed.ncbi.nlm.nih.gov)"
	return s.run(ctx, searchRequest{
		APIKey:      s.apiKey,
		Query:       academicQuery,
		MaxResults:  maxResults,
		SearchDepth: "advanced",
	}, domain.SourceAcademic, "tavily")
}

func (s *HTTPSearcher) run(ctx context.Context, req searchRequest, origin, toolName string) ([]domain.Evidence, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilySearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return convertToEvidence(parsed.Results, origin, toolName), nil
}

// convertToEvidence builds candidate evidence carrying an upstream score and
// canonicalised URL. The ID is provisional: the researcher retags each item
// with the owning sub-query's ID and ordinal and recomputes the final
// fingerprint, per its tagging responsibility.
func convertToEvidence(results []searchResultItem, origin, toolName string) []domain.Evidence {
	evidence := make([]domain.Evidence, 0, len(results))
	for i, r := range results {
		canonical := domain.CanonicalizeURL(r.URL)
		excerpt := domain.CapExcerpt(r.Content)
		score := r.Score
		if score == 0 {
			score = 0.8
		}
		evidence = append(evidence, domain.Evidence{
			ID:          domain.Fingerprint(origin, canonical, "", i),
			Source:      domain.EvidenceSource{URL: canonical, Title: r.Title, FetchedAt: time.Now().UTC()},
			Excerpt:     excerpt,
			ContentHash: domain.ContentHash(excerpt),
			Score:       &score,
			Tags:        []string{origin},
			CitKey:      fmt.Sprintf("%s%d", toSourceTag(origin), i+1),
			ToolCallID:  fmt.Sprintf("%s:%d", toolName, i),
		})
	}
	return evidence
}

func toSourceTag(origin string) string {
	switch origin {
	case domain.SourceNews:
		return "NewsResult"
	case domain.SourceAcademic:
		return "AcademicResult"
	default:
		return "WebResult"
	}
}

func (s *HTTPSearcher) Extract(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(map[string]any{"api_key": s.apiKey, "urls": []string{url}})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyExtractURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed struct {
		Results []struct {
			RawContent string `json:"raw_content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return "", fmt.Errorf("no content extracted for %s", url)
	}
	return parsed.Results[0].RawContent, nil
}

func (s *HTTPSearcher) Health(ctx context.Context) bool {
	_, err := s.run(ctx, searchRequest{APIKey: s.apiKey, Query: "health check", MaxResults: 1}, domain.SourceWeb, "tavily")
	return err == nil
}

package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"deepresearch/internal/domain"
)

// HTTPClient talks to a chat-completions-shaped provider endpoint. On
// transient transport/5xx failures it retries with exponential backoff
// (factor 2, base 1s), making up to MaxRetries attempts in total before
// giving up. A 4xx response is treated as permanent and fails immediately
// without a further attempt.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	BaseURL        string
	APIKey         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     int
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	timeout := cfg.ConnectTimeout + cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 105 * time.Second
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		baseDelay:  1 * time.Second,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *HTTPClient) Complete(ctx context.Context, model string, messages []Message, opts Options) (*Result, error) {
	wire := make([]wireMessage, len(messages))
	for i, m := range messages {
		wire[i] = wireMessage{Role: m.Role, Content: m.Content}
	}
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    wire,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidRequest, "modelclient.Complete", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, domain.NewError(domain.KindCancelled, "modelclient.Complete", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := c.doRequest(ctx, body)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, domain.NewError(domain.KindCancelled, "modelclient.Complete", ctx.Err())
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return nil, domain.NewError(domain.KindInvalidRequest, "modelclient.Complete", perm.err)
		}
		lastErr = err
	}

	return nil, domain.NewError(domain.KindProviderUnavailable, "modelclient.Complete", lastErr)
}

// permanentError marks a response as a non-transient client error (4xx):
// retrying it with backoff would just burn attempts on a request that can
// never succeed.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

func (c *HTTPClient) doRequest(ctx context.Context, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("provider %d: %s", resp.StatusCode, string(data))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &permanentError{err: fmt.Errorf("provider error %d: %s", resp.StatusCode, string(data))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty choices")
	}

	return &Result{
		Content: parsed.Choices[0].Message.Content,
		Raw:     string(data),
		Usage: Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

func (c *HTTPClient) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Package modelclient provides a uniform request/response port to an LLM
// provider, with retries, timeouts, and a mock fallback for offline use.
package modelclient

import "context"

// Message is one turn of a chat-shaped prompt.
type Message struct {
	Role    string
	Content string
}

// Options bounds a single completion request.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Usage reports token counts for a completion call, when the provider
// includes them in its response.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result is the outcome of a completion call.
type Result struct {
	Content string
	Raw     string
	Usage   Usage
}

// Client is the port every analytical component (planner, evaluator,
// writer) calls through. It never exposes provider-specific types.
type Client interface {
	Complete(ctx context.Context, model string, messages []Message, opts Options) (*Result, error)
	Health(ctx context.Context) bool
}

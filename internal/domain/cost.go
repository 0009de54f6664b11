package domain

// modelPricing holds per-token pricing (USD per 1M tokens) for the models
// this service is known to route to. Unknown models fall back to a
// conservative default so cost tracking degrades gracefully rather than
// silently reading zero.
type modelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

var pricingTable = map[string]modelPricing{
	"alibaba/tongyi-deepresearch-30b-a3b": {InputPer1M: 0.50, OutputPer1M: 0.50},
	"openai/gpt-4o":                       {InputPer1M: 2.50, OutputPer1M: 10.00},
	"openai/gpt-4o-mini":                  {InputPer1M: 0.15, OutputPer1M: 0.60},
	"anthropic/claude-3.5-sonnet":         {InputPer1M: 3.00, OutputPer1M: 15.00},
}

var defaultPricing = modelPricing{InputPer1M: 1.00, OutputPer1M: 2.00}

func pricingFor(model string) modelPricing {
	if p, ok := pricingTable[model]; ok {
		return p
	}
	return defaultPricing
}

// CostBreakdown tracks token usage and estimated spend for one or more
// model calls.
type CostBreakdown struct {
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	TotalTokens  int     `json:"totalTokens"`
	InputCost    float64 `json:"inputCost"`
	OutputCost   float64 `json:"outputCost"`
	TotalCost    float64 `json:"totalCost"`
}

// Add accumulates other into c.
func (c *CostBreakdown) Add(other CostBreakdown) {
	c.InputTokens += other.InputTokens
	c.OutputTokens += other.OutputTokens
	c.TotalTokens += other.TotalTokens
	c.InputCost += other.InputCost
	c.OutputCost += other.OutputCost
	c.TotalCost += other.TotalCost
}

// NewCostBreakdown derives a cost breakdown from token usage reported by
// a model call. totalTokens of zero is inferred as input+output.
func NewCostBreakdown(model string, inputTokens, outputTokens, totalTokens int) CostBreakdown {
	if totalTokens == 0 {
		totalTokens = inputTokens + outputTokens
	}
	pricing := pricingFor(model)
	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000

	return CostBreakdown{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  totalTokens,
		InputCost:    inputCost,
		OutputCost:   outputCost,
		TotalCost:    inputCost + outputCost,
	}
}

package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing is the USD cost per one million text tokens of a model.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// modelPricing carries the per-model rates used for run-cost accounting.
// Unlisted models resolve to zero pricing and contribute nothing to the total.
var modelPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
}

// CostEnabled reports whether per-run cost accounting is active. It is always
// on; unknown models simply accrue zero cost.
func CostEnabled() bool {
	return true
}

// ResolvePricing returns the pricing for a model name, or zero pricing when
// the model is not in the table.
func ResolvePricing(model string) Pricing {
	return modelPricing[model]
}

// ComputeCost converts token usage into USD amounts using per-1M pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}

package service

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Usage is a point-in-time snapshot of accumulated gateway consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	Requests         int
	Cost             decimal.Decimal
}

// UsageTracker accumulates token counts and the provider-reported cost of
// every completion. Cost is kept as a decimal so repeated micro-amounts
// do not drift.
type UsageTracker struct {
	mu    sync.Mutex
	usage Usage
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{usage: Usage{Cost: decimal.Zero}}
}

func (t *UsageTracker) Record(promptTokens, completionTokens int, totalCost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.PromptTokens += promptTokens
	t.usage.CompletionTokens += completionTokens
	t.usage.Requests++
	if totalCost > 0 {
		t.usage.Cost = t.usage.Cost.Add(decimal.NewFromFloat(totalCost))
	}
}

func (t *UsageTracker) Snapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}

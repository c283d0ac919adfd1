package ai

import (
	"context"

	"github.com/spigell/skills-analyzer/internal/analytics"
)

// MarketSummary is a narrative reading of an analytics report.
type MarketSummary struct {
	Summary  string
	Insights []string
	Raw      string
}

// Advisor turns an aggregated report into a market summary.
type Advisor interface {
	Summarize(ctx context.Context, report *analytics.Report) (*MarketSummary, error)
}

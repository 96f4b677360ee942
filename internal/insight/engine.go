// Package insight converts aggregate statistics over the order dataset into
// ranked natural-language statements. The rule battery is fixed at build time;
// its order is the display order. A rule with no qualifying signal contributes
// nothing, which is not an error.
package insight

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/service"
)

const (
	// watchRegion is the region singled out for the repeat-rate check.
	watchRegion = "South"
	// repeatRateBenchmark is the repeat-customer percentage below which the
	// repeat-rate rule adds its warning clause.
	repeatRateBenchmark = 60.0
	// highIncomeThreshold defines the high-income customer cohort.
	highIncomeThreshold = 1_000_000.0
)

// Rule is one pure function from aggregates (and optionally a just-cleaned
// order) to at most one formatted statement. An empty string means the rule
// found no qualifying signal.
type Rule struct {
	Generate func(ctx context.Context, src service.AggregateSource, p *message.Printer, newOrder *model.Order) (string, error)
	Name     string
}

// Engine runs the battery against the store's aggregate queries.
type Engine struct {
	src     service.AggregateSource
	printer *message.Printer
	rules   []Rule
}

// NewEngine creates an engine over the given aggregate source with the
// default rule battery.
func NewEngine(src service.AggregateSource) *Engine {
	return &Engine{
		src:     src,
		printer: message.NewPrinter(language.English),
		rules:   defaultRules(),
	}
}

// Generate runs every rule in battery order and returns the formatted
// statements. newOrder may be nil; when present the final rule acknowledges
// the freshly added record.
func (e *Engine) Generate(ctx context.Context, newOrder *model.Order) ([]string, error) {
	insights := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		text, err := rule.Generate(ctx, e.src, e.printer, newOrder)
		if err != nil {
			return nil, fmt.Errorf("insight rule %s: %w", rule.Name, err)
		}
		if text != "" {
			insights = append(insights, text)
		}
	}
	return insights, nil
}

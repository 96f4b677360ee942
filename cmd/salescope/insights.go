package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/cli"
	"github.com/salescope/salescope/internal/insight"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print the insight battery over the current dataset",
		RunE:  runInsights,
	}
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine := insight.NewEngine(store)
	insights, err := engine.Generate(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}

	fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Insights"))
	fmt.Println(cli.InsightStyle.Render(strings.Join(insights, "\n")))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/cli"
)

func kpisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Print headline KPIs",
		RunE:  runKPIs,
	}
}

func runKPIs(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	totals, err := store.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to query totals: %w", err)
	}

	profitMargin, aov := 0.0, 0.0
	if totals.Revenue != 0 {
		profitMargin = totals.Profit * 100.0 / totals.Revenue
	}
	if totals.Orders != 0 {
		aov = totals.Revenue / float64(totals.Orders)
	}

	topRegion := "—"
	if region, err := store.TopRegionByRevenue(ctx); err != nil {
		return fmt.Errorf("failed to query top region: %w", err)
	} else if region != nil {
		topRegion = region.Name
	}

	repeatRate := "—"
	if rate, err := store.RepeatCustomerRate(ctx, ""); err != nil {
		return fmt.Errorf("failed to query repeat rate: %w", err)
	} else if rate != nil {
		repeatRate = fmt.Sprintf("%.1f%%", *rate)
	}

	fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " KPIs"))
	rows := []struct {
		label string
		value string
	}{
		{"Revenue", fmt.Sprintf("$%.2f", totals.Revenue)},
		{"Profit", fmt.Sprintf("$%.2f", totals.Profit)},
		{"Profit margin", fmt.Sprintf("%.1f%%", profitMargin)},
		{"Average order value", fmt.Sprintf("$%.2f", aov)},
		{"Orders", fmt.Sprintf("%d", totals.Orders)},
		{"Customers", fmt.Sprintf("%d", totals.Customers)},
		{"Repeat rate", repeatRate},
		{"Top region", topRegion},
	}
	for _, row := range rows {
		fmt.Printf("%s %s\n",
			cli.TableCellStyle.Render(cli.BoldStyle.Render(row.label+":")),
			row.value)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/cli"
	"github.com/salescope/salescope/internal/insight"
	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/pipeline"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [file.json]",
		Short: "Clean and insert a single order record",
		Long: `Submit one raw record as JSON, either from a file or stdin. Field labels
may use any recognized alias ("Qty", "Buyer", "Location", ...). The cleaned
order is printed together with any repairs made and the refreshed insights.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var input io.Reader = os.Stdin
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = file.Close() }()
		input = file
	}

	var raw model.RawRecord
	if err := json.NewDecoder(input).Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	cleaner := pipeline.NewCleaner(store)
	order, warnings, err := cleaner.Clean(ctx, raw, pipeline.Options{CheckDuplicates: true})
	if err != nil {
		return fmt.Errorf("failed to clean record: %w", err)
	}
	if err := pipeline.CheckEssentials(order); err != nil {
		return err
	}

	if err := store.InsertOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	fmt.Printf("%s Added %s: %s x%d in %s ($%.2f)\n",
		cli.SuccessStyle.Render(cli.CheckIcon),
		cli.BoldStyle.Render(order.OrderID),
		order.Product, order.Quantity, order.Region, order.SalesAmount)

	for _, warning := range warnings {
		fmt.Println(cli.WarningStyle.Render(cli.WarningIcon + " " + warning))
	}

	engine := insight.NewEngine(store)
	insights, err := engine.Generate(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}
	for _, line := range insights {
		fmt.Println(line)
	}

	return nil
}

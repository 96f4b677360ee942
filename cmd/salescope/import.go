package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/cli"
	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk import orders from a CSV file",
		Long: `Read a CSV export, clean every row through the pipeline, and insert the
batch. Rows whose order id already exists are silently skipped; rows that
cannot be repaired are counted and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("clear", false, "Delete all existing orders before importing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clearFirst, _ := cmd.Flags().GetBool("clear")

	file, err := os.Open(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not open %s", args[0]), err)
	}
	defer func() { _ = file.Close() }()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	imp := importer.New(store, nil)
	result, err := imp.ImportCSV(ctx, file, importer.Options{
		Clear:    clearFirst,
		Progress: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println(cli.TitleStyle.Render("Import complete"))
	fmt.Printf("%s %d rows inserted, %d skipped (batch %s)\n",
		cli.SuccessStyle.Render(cli.SuccessIcon),
		result.Inserted, result.Skipped, result.BatchID)

	for _, diag := range result.Diagnostics {
		fmt.Println(cli.WarningStyle.Render(cli.WarningIcon + " " + diag))
	}

	return nil
}

// Package importer loads CSV order files through the cleaning pipeline and
// into the store in one batch.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/salescope/salescope/internal/alias"
	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/pipeline"
	"github.com/salescope/salescope/internal/service"
)

// diagnosticCap bounds the per-import diagnostic log.
const diagnosticCap = 50

// Options controls a single import run.
type Options struct {
	// Progress, when non-nil, receives a progress bar while rows stream in.
	Progress io.Writer
	// Clear drops all existing orders before importing.
	Clear bool
}

// Result summarizes one import run. Processed counts rows that cleaned
// successfully; Inserted counts rows the store actually accepted, so the
// difference is duplicate order ids dropped by insert-or-ignore.
type Result struct {
	BatchID     string   `json:"batch_id"`
	Diagnostics []string `json:"warnings"`
	Processed   int      `json:"processed"`
	Inserted    int      `json:"inserted"`
	Skipped     int      `json:"skipped"`
}

// Importer streams CSV files into the store.
type Importer struct {
	store   service.Storage
	cleaner *pipeline.Cleaner
	logger  *slog.Logger
}

// New creates an importer over the given store.
func New(store service.Storage, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:   store,
		cleaner: pipeline.NewCleaner(store),
		logger:  logger,
	}
}

// ImportCSV reads one CSV file, cleans every row, and inserts the batch with
// insert-or-ignore semantics. A row that cannot be made storable is skipped
// and counted, never fatal; only store failures abort the run.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	if opts.Clear {
		if err := imp.store.ClearOrders(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear orders before import: %w", err)
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.ErrEmptyImport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		// Excel exports prefix the first header cell with a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, common.ErrMissingHeader
	}

	// The header mapping and store count are computed once per file.
	mapping := alias.Resolve(header)
	count, err := imp.store.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	result := &Result{
		BatchID:     uuid.New().String(),
		Diagnostics: []string{},
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Importing orders"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
		)
	}

	var batch []model.Order
	for rowNum := 1; ; rowNum++ {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			result.Skipped++
			imp.diagnose(result, "Row %d skipped — %v", rowNum, readErr)
			continue
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		raw := rowRecord(header, row)
		order, warnings, cleanErr := imp.cleaner.Clean(ctx, raw, pipeline.Options{
			AliasMap:     mapping,
			SequenceHint: count + len(batch) + 1,
		})
		if cleanErr != nil {
			result.Skipped++
			imp.diagnose(result, "Row %d skipped — %v", rowNum, cleanErr)
			continue
		}
		if essErr := pipeline.CheckEssentials(order); essErr != nil {
			result.Skipped++
			imp.diagnose(result, "Row %d skipped — %v", rowNum, essErr)
			continue
		}

		if len(warnings) > 0 {
			common.LogDebug("row repaired", common.Fields{"row": rowNum, "warnings": warnings})
			if len(result.Diagnostics) < diagnosticCap {
				result.Diagnostics = append(result.Diagnostics,
					fmt.Sprintf("Row %d: %s", rowNum, strings.Join(warnings, "; ")))
			}
		}
		batch = append(batch, *order)
		result.Processed++
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if len(batch) == 0 {
		if result.Skipped == 0 {
			return nil, common.ErrEmptyImport
		}
		return result, nil
	}

	inserted, err := imp.store.InsertOrders(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("failed to insert batch %s: %w", result.BatchID, err)
	}
	result.Inserted = inserted

	imp.logger.Info("import complete",
		"batch_id", result.BatchID,
		"processed", result.Processed,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
	)
	return result, nil
}

// diagnose appends one formatted entry to the capped diagnostic log.
func (imp *Importer) diagnose(result *Result, format string, args ...any) {
	if len(result.Diagnostics) < diagnosticCap {
		result.Diagnostics = append(result.Diagnostics, fmt.Sprintf(format, args...))
	}
}

// rowRecord pairs header labels with row values, tolerating ragged rows.
func rowRecord(header, row []string) model.RawRecord {
	raw := make(model.RawRecord, len(header))
	for i, label := range header {
		if i >= len(row) {
			break
		}
		raw[label] = row[i]
	}
	return raw
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/importer"
	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/pipeline"
)

// handleListOrders returns the 50 most recently inserted orders.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListRecentOrders(r.Context(), 50)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	s.writeJSON(w, http.StatusOK, orders)
}

// handleCreateOrder cleans one submitted record, inserts it, and regenerates
// the insight battery with the new order in scope.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var raw model.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	ctx := r.Context()
	order, warnings, err := s.cleaner.Clean(ctx, raw, pipeline.Options{CheckDuplicates: true})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrDuplicateOrder) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}
	if err := pipeline.CheckEssentials(order); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	if err := s.store.InsertOrder(ctx, order); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrDuplicateOrder) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}

	insights, err := s.engine.Generate(ctx, order)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"order":    order,
		"warnings": warnings,
		"insights": insights,
	})
}

// handleDeleteOrder removes one order by database row id.
func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid order id: %w", err))
		return
	}

	if err := s.store.DeleteOrder(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, r, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleImport accepts a multipart CSV upload. The "clear" form value wipes
// existing orders before importing.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("file too large or invalid form: %w", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}
	defer func() { _ = file.Close() }()

	ctx := r.Context()
	result, err := s.importer.ImportCSV(ctx, file, importer.Options{
		Clear: r.FormValue("clear") == "true",
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrEmptyImport) || errors.Is(err, common.ErrMissingHeader) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}

	insights, err := s.engine.Generate(ctx, nil)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"batch_id": result.BatchID,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
		"warnings": result.Diagnostics,
		"insights": insights,
	})
}

// handleInsights returns the full insight battery over the current dataset.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.engine.Generate(r.Context(), nil)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}

// handleKPIs returns the headline dashboard numbers.
func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := s.store.Totals(ctx)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	profitMargin, aov := 0.0, 0.0
	if totals.Revenue != 0 {
		profitMargin = totals.Profit * 100.0 / totals.Revenue
	}
	if totals.Orders != 0 {
		aov = totals.Revenue / float64(totals.Orders)
	}

	repeatRate, err := s.store.RepeatCustomerRate(ctx, "")
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	topRegion := "—"
	if region, err := s.store.TopRegionByRevenue(ctx); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	} else if region != nil {
		topRegion = region.Name
	}

	years, err := s.store.YearlyRevenue(ctx)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	var yoy *float64
	if n := len(years); n >= 2 && years[n-2].Revenue != 0 {
		pct := math.Round((years[n-1].Revenue-years[n-2].Revenue)/years[n-2].Revenue*1000) / 10
		yoy = &pct
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_revenue":    totals.Revenue,
		"total_profit":     totals.Profit,
		"profit_margin":    profitMargin,
		"aov":              aov,
		"total_orders":     totals.Orders,
		"unique_customers": totals.Customers,
		"repeat_rate":      repeatRate,
		"top_region":       topRegion,
		"yoy_growth":       yoy,
		"record_count":     totals.Orders,
	})
}

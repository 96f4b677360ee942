package web

import (
	"net/http"
)

// Chart handlers return aggregate series shaped for the dashboard's chart
// library. Each returns an empty JSON array, not null, when no data exists.

func (s *Server) handleChartMonthly(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.MonthlySeries(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func (s *Server) handleChartProducts(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.ProductSeries(r.Context(), 10)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func (s *Server) handleChartRegions(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.RegionSeries(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func (s *Server) handleChartCategories(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.CategorySeries(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func (s *Server) handleChartTopProducts(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.TopProducts(r.Context(), 5)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(stats))
}

func (s *Server) handleChartPayment(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.PaymentSeries(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func (s *Server) handleChartAge(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.AgeHistogram(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(points))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

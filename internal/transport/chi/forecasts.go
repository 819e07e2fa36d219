package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

// ListForecasts handles GET /forecasts.
func (s *Server) ListForecasts(w http.ResponseWriter, r *http.Request) {
	if s.forecasts == nil {
		notConfigured(w, "forecasts")
		return
	}
	points, err := s.forecasts.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if points == nil {
		points = []domfc.Point{}
	}
	writeJSON(w, http.StatusOK, ListResponse[domfc.Point]{Items: points, Total: len(points)})
}

// GetProductForecast handles GET /forecasts/{productID}.
func (s *Server) GetProductForecast(w http.ResponseWriter, r *http.Request) {
	if s.forecasts == nil {
		notConfigured(w, "forecasts")
		return
	}
	points, err := s.forecasts.ForProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[domfc.Point]{Items: points, Total: len(points)})
}

// GetForecastSeries handles GET /forecasts/{productID}/series.
func (s *Server) GetForecastSeries(w http.ResponseWriter, r *http.Request) {
	if s.forecasts == nil {
		notConfigured(w, "forecasts")
		return
	}
	series, err := s.forecasts.Series(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

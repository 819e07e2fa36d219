package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain"
	cataloguc "github.com/kailas-cloud/retaildex/internal/usecase/catalog"
	copyuc "github.com/kailas-cloud/retaildex/internal/usecase/copywriter"
	forecastuc "github.com/kailas-cloud/retaildex/internal/usecase/forecast"
	healthuc "github.com/kailas-cloud/retaildex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/retaildex/internal/usecase/search"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the dashboard API.
type Server struct {
	catalog       *cataloguc.Service
	search        *searchuc.Service
	copywriter    *copyuc.Service
	forecasts     *forecastuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. copywriter and forecasts may be nil,
// their routes then answer 501.
func NewServer(
	catalog *cataloguc.Service,
	search *searchuc.Service,
	copywriter *copyuc.Service,
	forecasts *forecastuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog:    catalog,
		search:     search,
		copywriter: copywriter,
		forecasts:  forecasts,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, ErrorCodeProductNotFound),
		sentinelHandler(domain.ErrCopyNotFound, http.StatusNotFound, ErrorCodeCopyNotFound),
		validationHandler(domain.ErrInvalidQuery, ErrorCodeValidationFailed),
		validationHandler(domain.ErrInvalidPrompt, ErrorCodeValidationFailed),
		validationHandler(domain.ErrInvalidModel, ErrorCodeInvalidModel),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, ErrorCodeCatalogDown),
		sentinelHandler(domain.ErrNotConfigured, http.StatusNotImplemented, ErrorCodeNotConfigured),
		sentinelHandler(domain.ErrCompletionProviderError, http.StatusBadGateway, ErrorCodeProviderError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeProviderError),
		sentinelHandler(domain.ErrVectorSearchFailed, http.StatusBadGateway, ErrorCodeProviderError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.ListProducts)
		r.Get("/search", s.SearchProducts)
		r.Get("/{id}", s.GetProduct)
		r.Get("/{id}/copy", s.GetCopy)
		r.Put("/{id}/copy", s.PutCopy)
		r.Post("/{id}/copy:generate", s.GenerateCopy)
	})

	r.Get("/models", s.ListModels)
	r.Post("/chat", s.Chat)

	r.Route("/forecasts", func(r chi.Router) {
		r.Get("/", s.ListForecasts)
		r.Get("/{productID}", s.GetProductForecast)
		r.Get("/{productID}/series", s.GetForecastSeries)
	})

	r.Post("/admin/catalog/refresh", s.RefreshCatalog)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrCopyNotFound,
		domain.ErrCorpusUnavailable,
		domain.ErrNotConfigured,
		domain.ErrCompletionProviderError,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler answers 400 with the full error text, which only carries caller input.
func validationHandler(sentinel error, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func notConfigured(w http.ResponseWriter, feature string) {
	writeError(w, http.StatusNotImplemented, ErrorCodeNotConfigured, feature+" is not configured")
}

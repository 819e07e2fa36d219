package chi

import (
	"time"

	"github.com/kailas-cloud/retaildex/internal/domain/chat"
	"github.com/kailas-cloud/retaildex/internal/domain/product"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeProductNotFound  ErrorCode = "product_not_found"
	ErrorCodeCopyNotFound     ErrorCode = "copy_not_found"
	ErrorCodeInvalidModel     ErrorCode = "invalid_model"
	ErrorCodeCatalogDown      ErrorCode = "catalog_unavailable"
	ErrorCodeProviderError    ErrorCode = "provider_error"
	ErrorCodeNotConfigured    ErrorCode = "not_configured"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ListResponse wraps collection endpoints.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// SearchResultItem is one fused hit.
type SearchResultItem struct {
	ID      string           `json:"id"`
	Score   float64          `json:"score"`
	Product *product.Product `json:"product,omitempty"`
}

// SearchResponse is returned by GET /products/search. Results is null when the query is empty.
type SearchResponse struct {
	Query          string             `json:"query,omitempty"`
	Results        []SearchResultItem `json:"results"`
	VectorDegraded bool               `json:"vector_degraded,omitempty"`
}

// PutCopyRequest is the body of PUT /products/{id}/copy.
type PutCopyRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// GenerateCopyRequest is the body of POST /products/{id}/copy:generate.
type GenerateCopyRequest struct {
	Model    string `json:"model,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Variants int    `json:"variants,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Model    string         `json:"model,omitempty"`
	Messages []chat.Message `json:"messages"`
}

// CatalogRefreshResponse reports the snapshot built by POST /admin/catalog/refresh.
type CatalogRefreshResponse struct {
	Products int       `json:"products"`
	Indexed  int       `json:"indexed"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

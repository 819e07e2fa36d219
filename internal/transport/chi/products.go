package chi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain/product"
	"github.com/kailas-cloud/retaildex/internal/logger"
)

// ListProducts handles GET /products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, http.StatusOK, ListResponse[product.Product]{
		Items: products,
		Total: len(products),
	})
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SearchProducts handles GET /products/search?q=&num_results=.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var numResults *int
	if err := runtime.BindQueryParameter("form", true, false, "num_results", query, &numResults); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid num_results: "+err.Error())
		return
	}
	n := 0
	if numResults != nil {
		if *numResults < 1 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "num_results must be positive")
			return
		}
		n = *numResults
	}

	q := strings.TrimSpace(query.Get("q"))
	fused, err := s.search.Search(r.Context(), q, n)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if fused == nil {
		writeJSON(w, http.StatusOK, SearchResponse{})
		return
	}

	// Hydration is best-effort: ids the catalog no longer knows are returned bare.
	snap, err := s.catalog.Snapshot(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("search hydration skipped", zap.Error(err))
	}

	entries := fused.Entries()
	items := make([]SearchResultItem, len(entries))
	for i := range entries {
		items[i] = SearchResultItem{ID: entries[i].ID(), Score: entries[i].Score()}
		if snap == nil {
			continue
		}
		if p, ok := snap.Product(entries[i].ID()); ok {
			items[i].Product = &p
		}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:          q,
		Results:        items,
		VectorDegraded: fused.VectorDegraded(),
	})
}

// RefreshCatalog handles POST /admin/catalog/refresh.
func (s *Server) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	s.catalog.Invalidate()
	snap, err := s.catalog.Snapshot(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CatalogRefreshResponse{
		Products: len(snap.Products),
		Indexed:  snap.Index.Len(),
		LoadedAt: snap.LoadedAt,
	})
}

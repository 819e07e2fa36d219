package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newMeteredRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/products", func(r chi.Router) {
		r.Get("/search", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":null}`))
		})
		r.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})
	r.Post("/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		for _, chunk := range []string{"hel", "lo"} {
			_, _ = w.Write([]byte(chunk))
			_ = http.NewResponseController(w).Flush()
		}
	})
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr
}

func TestMiddleware_RouteLabels(t *testing.T) {
	r := newMeteredRouter()

	tests := []struct {
		method, path, route, status string
	}{
		{"GET", "/products/search?q=apple", "/products/search", "200"},
		{"GET", "/products/p-123", "/products/{id}", "404"},
		{"GET", "/products/p-456", "/products/{id}", "404"},
	}
	for _, tc := range tests {
		serve(r, tc.method, tc.path)
	}

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/products/{id}", "404")); got < 2 {
		t.Errorf("expected both product lookups under one route label, got %f", got)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/products/search", "200")); got < 1 {
		t.Errorf("expected search request counted, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StreamedResponse(t *testing.T) {
	r := newMeteredRouter()
	before := testutil.ToFloat64(httpResponseBytes.WithLabelValues("/chat"))

	rr := serve(r, "POST", "/chat")
	if rr.Body.String() != "hello" {
		t.Fatalf("expected streamed body, got %q", rr.Body.String())
	}
	if !rr.Flushed {
		t.Error("expected flush to reach the underlying writer")
	}
	if got := testutil.ToFloat64(httpResponseBytes.WithLabelValues("/chat")) - before; got != 5 {
		t.Errorf("expected 5 response bytes, got %f", got)
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	serve(newMeteredRouter(), "GET", "/products/search")
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("expected no requests in flight, got %f", got)
	}
}

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "unmatched"},
		{"/", "/"},
		{"/products/", "/products"},
		{"/products/*/{id}", "/products/{id}"},
		{"/forecasts/{productID}/series", "/forecasts/{productID}/series"},
	}
	for _, tc := range tests {
		if got := normalizePattern(tc.input); got != tc.want {
			t.Errorf("normalizePattern(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

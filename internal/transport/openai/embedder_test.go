package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingBody struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// embeddingServer answers /embeddings with vec (no data when vec is nil) and records the last request.
func embeddingServer(t *testing.T, vec []float32, tokens int, lastReq *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if lastReq != nil {
			_ = json.NewDecoder(r.Body).Decode(lastReq)
		}
		body := embeddingBody{Object: "list", Model: "query-embedder"}
		if vec != nil {
			body.Data = []embeddingItem{{Object: "embedding", Embedding: vec}}
		}
		body.Usage.PromptTokens = tokens
		body.Usage.TotalTokens = tokens
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestEmbedder(url string, dims int, logger *zap.Logger) *Embedder {
	return NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "query-embedder",
		Dimensions: dims,
		User:       "retaildex",
		Provider:   "test",
		Logger:     logger,
	})
}

func TestEmbedder_Embed(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}
	var req map[string]any
	srv := embeddingServer(t, want, 7, &req)

	res, err := newTestEmbedder(srv.URL, 4, nil).Embed(context.Background(), "organic oat milk")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(res.Embedding) != len(want) {
		t.Fatalf("expected %d dimensions, got %d", len(want), len(res.Embedding))
	}
	for i, v := range res.Embedding {
		if v != want[i] {
			t.Errorf("vec[%d] = %f, want %f", i, v, want[i])
		}
	}
	if res.PromptTokens != 7 || res.TotalTokens != 7 {
		t.Errorf("unexpected usage %+v", res)
	}
	if req["model"] != "query-embedder" || req["user"] != "retaildex" {
		t.Errorf("unexpected request body %v", req)
	}
	if dims, _ := req["dimensions"].(float64); dims != 4 {
		t.Errorf("expected dimensions=4 in request, got %v", req["dimensions"])
	}
}

func TestEmbedder_DimensionMismatch(t *testing.T) {
	srv := embeddingServer(t, []float32{0.1, 0.2}, 3, nil)

	_, err := newTestEmbedder(srv.URL, 4, nil).Embed(context.Background(), "apple")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_EmptyData(t *testing.T) {
	srv := embeddingServer(t, nil, 0, nil)

	_, err := newTestEmbedder(srv.URL, 0, nil).Embed(context.Background(), "apple")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	_, err := newTestEmbedder(srv.URL, 0, zap.New(core)).Embed(context.Background(), "apple")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	entries := logs.FilterMessage("query embedding failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["model"] != "query-embedder" {
		t.Errorf("expected model field, got %v", entries[0].ContextMap())
	}
}

func TestEmbedder_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"query-embedder","object":"model"}]}`))
	}))
	defer srv.Close()

	if err := newTestEmbedder(srv.URL, 0, nil).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"bad input"}`, "bad input"},
		{`{"message":"quota"}`, "quota"},
		{`{"detail":"d","message":"m"}`, "d"},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := extractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("extractDetail(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

package vector

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/retaildex/internal/db"
	"github.com/kailas-cloud/retaildex/internal/domain"
)

type mockSearcher struct {
	result *db.SearchResult
	err    error
	last   *db.KNNQuery
}

func (m *mockSearcher) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.last = q
	return m.result, m.err
}

type mockEmbedder struct {
	vec   []float32
	err   error
	query string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.query = text
	return domain.EmbeddingResult{Embedding: m.vec}, m.err
}

func TestSearch_MapsEntriesToIDs(t *testing.T) {
	store := &mockSearcher{result: &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
		{Key: "product:p9", Fields: map[string]string{"product_id": "p9"}},
		{Key: "product:p4", Fields: map[string]string{}},
		{Key: "other:zz", Fields: map[string]string{}},
	}}}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	r := New(store, emb, Config{IndexName: "products_idx", VectorField: "embedding", KeyPrefix: "product:"})

	got, err := r.Search(context.Background(), "warm jacket", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"p9", "p4"}) {
		t.Errorf("ids = %v, want [p9 p4]", got)
	}
	if emb.query != "warm jacket" {
		t.Errorf("embedded %q", emb.query)
	}
	q := store.last
	if q.IndexName != "products_idx" || q.VectorField != "embedding" || q.K != 7 {
		t.Errorf("unexpected query %+v", q)
	}
	if !reflect.DeepEqual(q.ReturnFields, []string{DefaultIDField}) {
		t.Errorf("unexpected return fields %v", q.ReturnFields)
	}
}

func TestSearch_PassesTagFilters(t *testing.T) {
	store := &mockSearcher{result: &db.SearchResult{}}
	filters := map[string]string{"retailer": "acme"}
	r := New(store, &mockEmbedder{vec: []float32{1}}, Config{IndexName: "idx", Filters: filters})

	got, err := r.Search(context.Background(), "socks", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no ids, got %v", got)
	}
	if !reflect.DeepEqual(store.last.TagFilters, filters) {
		t.Errorf("tag filters = %v, want %v", store.last.TagFilters, filters)
	}
}

func TestSearch_EmbedError(t *testing.T) {
	store := &mockSearcher{}
	r := New(store, &mockEmbedder{err: domain.ErrEmbeddingProviderError}, Config{IndexName: "idx"})

	_, err := r.Search(context.Background(), "q", 5)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected embedding error, got %v", err)
	}
	if store.last != nil {
		t.Error("store must not be queried without a vector")
	}
}

func TestSearch_StoreError(t *testing.T) {
	store := &mockSearcher{err: &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}}
	r := New(store, &mockEmbedder{vec: []float32{1}}, Config{IndexName: "idx"})

	_, err := r.Search(context.Background(), "q", 5)
	if !errors.Is(err, domain.ErrVectorSearchFailed) || !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected vector search failure wrapping index error, got %v", err)
	}
}

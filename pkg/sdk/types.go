package retaildex

import (
	"context"

	"github.com/kailas-cloud/retaildex/internal/domain/product"
	"github.com/kailas-cloud/retaildex/internal/repository/csvfile"
)

// Product is one catalog row.
type Product = product.Product

// Hit is one fused search result. Product is nil when the ID is unknown to the catalog.
type Hit struct {
	ID      string
	Score   float64
	Product *Product
}

// ProductSource loads the full product corpus.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// VectorSearcher returns product IDs ordered by semantic similarity, best first.
type VectorSearcher interface {
	Search(ctx context.Context, query string, numResults int) ([]string, error)
}

type staticSource []Product

func (s staticSource) ListProducts(_ context.Context) ([]Product, error) {
	out := make([]Product, len(s))
	copy(out, s)
	return out, nil
}

func csvSource(path string) ProductSource {
	return csvfile.NewProducts(path, nil)
}

package catalog

import (
	"context"

	"github.com/kailas-cloud/retaildex/internal/domain/product"
)

// ProductSource loads the full product corpus, ordered by product name.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

package copywriter

import (
	"context"

	"github.com/kailas-cloud/retaildex/internal/domain/chat"
	"github.com/kailas-cloud/retaildex/internal/domain/product"
	"github.com/kailas-cloud/retaildex/internal/domain/productcopy"
)

// Completer talks to a chat completion endpoint.
type Completer interface {
	Complete(ctx context.Context, model string, messages []chat.Message) (string, error)
	Stream(ctx context.Context, model string, messages []chat.Message, onDelta func(string) error) error
}

// ProductReader resolves a product by ID (ISP: only Get from catalog).
type ProductReader interface {
	Get(ctx context.Context, id string) (product.Product, error)
}

// Store persists accepted copy.
type Store interface {
	Save(ctx context.Context, c productcopy.Copy) error
	Get(ctx context.Context, productID string) (productcopy.Copy, error)
}

package csvfile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain/product"
)

// Product export columns.
const (
	colProductID        = "RETAILER_PRODUCT_ID"
	colProductName      = "RETAILER_PRODUCT_NAME"
	colProductURL       = "RETAILER_PRODUCT_URL"
	colImage            = "RETAILER_IMAGE"
	colCategory         = "CATEGORY"
	colDescription      = "DESCRIPTION"
	colImageDescription = "IMAGE_DESCRIPTION"
	colRetailer         = "RETAILER"
	colAIDescription    = "AI_GENERATED_PRODUCT_DESCRIPTION"
)

// Products loads the catalog from a CSV export. Rows without a product ID are skipped.
type Products struct {
	path   string
	logger *zap.Logger
}

// NewProducts creates a CSV product source.
func NewProducts(path string, logger *zap.Logger) *Products {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Products{path: path, logger: logger}
}

// ListProducts reads the whole file, keeping file order.
func (p *Products) ListProducts(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	rows, err := readRows(p.path, colProductID)
	if err != nil {
		return nil, err
	}

	out := make([]product.Product, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		pr := product.Product{
			ID:               r.get(colProductID),
			Name:             r.get(colProductName),
			URL:              r.get(colProductURL),
			Image:            r.get(colImage),
			Category:         r.get(colCategory),
			Description:      r.get(colDescription),
			ImageDescription: r.get(colImageDescription),
			Retailer:         r.get(colRetailer),
			AIDescription:    r.get(colAIDescription),
		}
		if err := pr.Validate(); err != nil {
			skipped++
			continue
		}
		out = append(out, pr)
	}
	if skipped > 0 {
		p.logger.Warn("skipped invalid product rows", zap.String("path", p.path), zap.Int("skipped", skipped))
	}
	return out, nil
}

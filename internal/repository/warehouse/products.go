package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kailas-cloud/retaildex/internal/db"
	"github.com/kailas-cloud/retaildex/internal/domain/product"
)

// DefaultMaxRows caps the catalog query.
const DefaultMaxRows = 10000

func productsQuery(table string, limit int) (string, error) {
	qt, err := quoteTable(table)
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = DefaultMaxRows
	}
	return fmt.Sprintf(`SELECT retailer_product_id, retailer_product_name, retailer_product_url,
       retailer_image, category, description, image_description, retailer,
       ai_generated_product_description
FROM %s
ORDER BY retailer_product_name
LIMIT %d`, qt, limit), nil
}

// ListProducts returns the catalog ordered by product name.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	q, err := productsQuery(c.cfg.ProductsTable, c.cfg.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("products query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []product.Product
	for rows.Next() {
		var id, name, url, image, category, desc, imageDesc, retailer, aiDesc sql.NullString
		if err := rows.Scan(&id, &name, &url, &image, &category, &desc, &imageDesc, &retailer, &aiDesc); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, product.Product{
			ID:               nullString(id),
			Name:             nullString(name),
			URL:              nullString(url),
			Image:            nullString(image),
			Category:         nullString(category),
			Description:      nullString(desc),
			ImageDescription: nullString(imageDesc),
			Retailer:         nullString(retailer),
			AIDescription:    nullString(aiDesc),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kailas-cloud/retaildex/internal/db"
	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

func forecastsQuery(table string) (string, error) {
	qt, err := quoteTable(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT retailer_product_id, week, units_sold, units_on_hand, status, out_of_stock
FROM %s
ORDER BY retailer_product_id, week`, qt), nil
}

// ListForecasts returns every forecast point, grouped by product in week order.
func (c *Client) ListForecasts(ctx context.Context) ([]domfc.Point, error) {
	q, err := forecastsQuery(c.cfg.ForecastsTable)
	if err != nil {
		return nil, fmt.Errorf("forecasts query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []domfc.Point
	for rows.Next() {
		// Scanned as text so non-numeric exports degrade to nulls like the CSV path.
		var id, week, sold, onHand, status, oos sql.NullString
		if err := rows.Scan(&id, &week, &sold, &onHand, &status, &oos); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		out = append(out, domfc.Point{
			ProductID:   nullString(id),
			Week:        nullString(week),
			UnitsSold:   domfc.ParseUnits(nullString(sold)),
			UnitsOnHand: domfc.ParseUnits(nullString(onHand)),
			Status:      nullString(status),
			OutOfStock:  domfc.ParseOutOfStock(nullString(oos)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

package csvfile

import (
	"context"
	"fmt"

	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

// Forecast export columns.
const (
	colWeek        = "WEEK"
	colUnitsSold   = "UNITS_SOLD"
	colUnitsOnHand = "UNITS_ON_HAND"
	colStatus      = "STATUS"
	colOutOfStock  = "OUT_OF_STOCK"
)

// Forecasts loads weekly forecast points from a CSV export.
type Forecasts struct {
	path string
}

// NewForecasts creates a CSV forecast source.
func NewForecasts(path string) *Forecasts {
	return &Forecasts{path: path}
}

// ListForecasts reads the whole file. A row without product ID or week fails the load.
func (f *Forecasts) ListForecasts(ctx context.Context) ([]domfc.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	rows, err := readRows(f.path, colProductID, colWeek, colUnitsSold, colUnitsOnHand)
	if err != nil {
		return nil, err
	}

	out := make([]domfc.Point, 0, len(rows))
	for i, r := range rows {
		p := domfc.Point{
			ProductID:   r.get(colProductID),
			Week:        r.get(colWeek),
			UnitsSold:   domfc.ParseUnits(r.get(colUnitsSold)),
			UnitsOnHand: domfc.ParseUnits(r.get(colUnitsOnHand)),
			Status:      r.get(colStatus),
			OutOfStock:  domfc.ParseOutOfStock(r.get(colOutOfStock)),
		}
		if p.ProductID == "" || p.Week == "" {
			return nil, fmt.Errorf("%s line %d: product id and week are required", f.path, i+2)
		}
		out = append(out, p)
	}
	return out, nil
}

package forecast

import (
	"context"
	"fmt"

	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

// Service serves sales forecasts. The source is read on every call.
type Service struct {
	source Source
}

// New creates a forecast service.
func New(source Source) *Service {
	return &Service{source: source}
}

// List returns every forecast point.
func (s *Service) List(ctx context.Context) ([]domfc.Point, error) {
	points, err := s.source.ListForecasts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	return points, nil
}

// ForProduct returns the points of one product, in source order.
func (s *Service) ForProduct(ctx context.Context, productID string) ([]domfc.Point, error) {
	points, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domfc.Point, 0)
	for _, p := range points {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Series returns the chart series of one product. Unknown products yield empty lines.
func (s *Service) Series(ctx context.Context, productID string) (domfc.Series, error) {
	points, err := s.ForProduct(ctx, productID)
	if err != nil {
		return domfc.Series{}, err
	}
	return domfc.BuildSeries(productID, points), nil
}

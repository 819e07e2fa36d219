package forecast

import (
	"context"

	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

// Source loads weekly forecast points in week order.
type Source interface {
	ListForecasts(ctx context.Context) ([]domfc.Point, error)
}

package retaildex

import "github.com/kailas-cloud/retaildex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrProductNotFound    = domain.ErrProductNotFound
	ErrCorpusUnavailable  = domain.ErrCorpusUnavailable
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrVectorSearchFailed = domain.ErrVectorSearchFailed
)

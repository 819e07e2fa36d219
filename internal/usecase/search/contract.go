package search

import (
	"context"

	"github.com/kailas-cloud/retaildex/internal/domain/search/event"
	"github.com/kailas-cloud/retaildex/internal/lexical"
)

// IndexProvider returns the lexical index built from the current corpus snapshot.
// A corpus fetch failure must be returned, never replaced by an empty index.
type IndexProvider interface {
	Index(ctx context.Context) (*lexical.Index, error)
}

// VectorSearcher returns product IDs ordered best first by semantic similarity.
type VectorSearcher interface {
	Search(ctx context.Context, query string, numResults int) ([]string, error)
}

// EventPublisher receives one analytics event per executed query.
type EventPublisher interface {
	PublishSearch(ctx context.Context, e event.Search) error
}

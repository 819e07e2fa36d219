package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/retaildex/internal/db"
	"github.com/kailas-cloud/retaildex/internal/domain"
)

// DefaultIDField is the hash field holding the product ID.
const DefaultIDField = "product_id"

// searcher is the consumer interface (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config selects the Redis index to query.
type Config struct {
	IndexName   string
	VectorField string
	IDField     string // product ID field; falls back to the key suffix after KeyPrefix
	KeyPrefix   string
	Filters     map[string]string // exact TAG pre-filters
}

// Repo ranks products by embedding similarity over an existing Redis vector index.
type Repo struct {
	store searcher
	embed domain.Embedder
	cfg   Config
}

// New creates a Redis-backed vector ranker.
func New(store searcher, embed domain.Embedder, cfg Config) *Repo {
	if cfg.IDField == "" {
		cfg.IDField = DefaultIDField
	}
	return &Repo{store: store, embed: embed, cfg: cfg}
}

// Search embeds query and returns up to numResults product IDs, most similar first.
func (r *Repo) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	emb, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  r.cfg.VectorField,
		Vector:       emb.Embedding,
		K:            numResults,
		ReturnFields: []string{r.cfg.IDField},
		TagFilters:   r.cfg.Filters,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorSearchFailed, err)
	}

	ids := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		if id := r.productID(e); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Repo) productID(e db.SearchEntry) string {
	if id := e.Fields[r.cfg.IDField]; id != "" {
		return id
	}
	if r.cfg.KeyPrefix != "" {
		if id, ok := strings.CutPrefix(e.Key, r.cfg.KeyPrefix); ok {
			return id
		}
	}
	return ""
}

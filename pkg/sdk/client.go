package retaildex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kailas-cloud/retaildex/internal/domain/search/result"
	"github.com/kailas-cloud/retaildex/internal/lexical"
	"github.com/kailas-cloud/retaildex/internal/transport/databricks"
	cataloguc "github.com/kailas-cloud/retaildex/internal/usecase/catalog"
	searchuc "github.com/kailas-cloud/retaildex/internal/usecase/search"
)

// Internal interfaces for substitution in tests.
type catalogUseCase interface {
	Snapshot(ctx context.Context) (*cataloguc.Snapshot, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Invalidate()
}

type searchUseCase interface {
	Search(ctx context.Context, query string, numResults int) (*result.Fused, error)
}

// Client is the retaildex SDK entry point. It is safe for concurrent use.
type Client struct {
	catalog   catalogUseCase
	searchSvc searchUseCase
	obs       *observer
}

// New creates a Client and loads the corpus once.
// The provided context is used for the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.source == nil {
		return nil, errors.New("retaildex: product source required (use WithProductsCSV, WithProducts or WithProductSource)")
	}

	vector, err := buildVector(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	catalog := cataloguc.New(cfg.source, cfg.sourceName, nil).
		WithRefreshInterval(cfg.refreshInterval).
		WithAnalyzer(lexical.NewAnalyzer(lexical.WithStemming(cfg.stemming)))

	c := &Client{
		catalog: catalog,
		searchSvc: searchuc.New(catalog, vector, nil).WithConfig(searchuc.Config{
			RRFConstant:   cfg.rrfConstant,
			VectorTimeout: cfg.vectorTimeout,
		}),
		obs: obs,
	}

	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// buildVector returns a nil interface (not a typed nil) when no semantic ranker is configured.
func buildVector(cfg *clientConfig) (searchuc.VectorSearcher, error) {
	switch {
	case cfg.vector != nil:
		return cfg.vector, nil
	case cfg.databricks != nil:
		client, err := databricks.New(databricks.Config{
			Host:  cfg.databricks.host,
			Index: cfg.databricks.index,
			Token: cfg.databricks.token,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("retaildex: %w", err)
		}
		return client, nil
	default:
		return nil, nil
	}
}

// Close releases resources. The client holds no connections today.
func (c *Client) Close() {}

// Search returns up to numResults fused hits, best first. numResults <= 0 selects the default.
// A blank query returns (nil, nil).
func (c *Client) Search(ctx context.Context, query string, numResults int) (hits []Hit, err error) {
	start := time.Now()
	degraded := false
	defer func() {
		c.obs.observe("search", start, err,
			slog.Int("hits", len(hits)),
			slog.Bool("lexical_only", degraded),
		)
	}()

	fused, err := c.searchSvc.Search(ctx, query, numResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if fused == nil {
		return nil, nil
	}
	if degraded = fused.VectorDegraded(); degraded {
		c.obs.lexicalOnly()
	}

	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	entries := fused.Entries()
	hits = make([]Hit, len(entries))
	for i := range entries {
		hits[i] = Hit{ID: entries[i].ID(), Score: entries[i].Score()}
		if p, ok := snap.Product(entries[i].ID()); ok {
			hits[i].Product = &p
		}
	}
	return hits, nil
}

// Product returns one product by ID.
func (c *Client) Product(ctx context.Context, id string) (p Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("product", start, err) }()

	if p, err = c.catalog.Get(ctx, id); err != nil {
		return Product{}, fmt.Errorf("product: %w", err)
	}
	return p, nil
}

// Products returns the whole corpus in source order.
func (c *Client) Products(ctx context.Context) (ps []Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("products", start, err) }()

	if ps, err = c.catalog.List(ctx); err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return ps, nil
}

// Refresh reloads the corpus now and returns the number of products loaded.
func (c *Client) Refresh(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("refresh", start, err, slog.Int("products", n)) }()

	c.catalog.Invalidate()
	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh: %w", err)
	}
	return len(snap.Products), nil
}

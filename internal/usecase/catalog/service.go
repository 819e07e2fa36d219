// Package catalog serves the product corpus and its lexical index.
// Every reload builds a fresh immutable Snapshot and swaps it in atomically.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/product"
	"github.com/kailas-cloud/retaildex/internal/lexical"
	"github.com/kailas-cloud/retaildex/internal/metrics"
)

// DefaultRefreshInterval is how long a snapshot is served before the next reload.
const DefaultRefreshInterval = 5 * time.Minute

// DefaultReloadTimeout bounds one shared reload, independent of any caller's deadline.
const DefaultReloadTimeout = 30 * time.Second

const flightKey = "corpus"

// Snapshot is an immutable view of the corpus and the index built from it.
type Snapshot struct {
	Products product.Corpus
	Index    *lexical.Index
	LoadedAt time.Time

	byID map[string]*product.Product
}

// Product returns the product with the given ID.
func (s *Snapshot) Product(id string) (product.Product, bool) {
	p, ok := s.byID[id]
	if !ok {
		return product.Product{}, false
	}
	return *p, true
}

// Service caches the corpus and rebuilds the lexical index on every reload.
type Service struct {
	source     ProductSource
	sourceName string
	analyzer   lexical.Analyzer
	refresh    time.Duration
	timeout    time.Duration
	logger     *zap.Logger
	now        func() time.Time

	current atomic.Pointer[Snapshot]
	group   singleflight.Group

	// mu orders snapshot publication against Invalidate.
	// epoch counts invalidations; a reload started in an older epoch is not published.
	mu    sync.Mutex
	epoch uint64
}

// New creates a catalog service. sourceName labels errors and logs ("csv", "warehouse").
func New(source ProductSource, sourceName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:     source,
		sourceName: sourceName,
		analyzer:   lexical.NewAnalyzer(),
		refresh:    DefaultRefreshInterval,
		timeout:    DefaultReloadTimeout,
		logger:     logger,
		now:        time.Now,
	}
}

// WithRefreshInterval sets the snapshot lifetime. Zero loads once and never refreshes.
func (s *Service) WithRefreshInterval(d time.Duration) *Service {
	if d >= 0 {
		s.refresh = d
	}
	return s
}

// WithReloadTimeout bounds each source fetch. Non-positive values keep the default.
func (s *Service) WithReloadTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithAnalyzer sets the analyzer used to build the lexical index.
func (s *Service) WithAnalyzer(a lexical.Analyzer) *Service {
	s.analyzer = a
	return s
}

// Snapshot returns the current snapshot, reloading it when missing or expired.
// Concurrent callers share one reload, which is detached from every caller's
// cancellation; a caller that gives up gets its own ctx error and the reload continues.
// Load failures are returned, never masked by stale data.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil && !s.expired(snap) {
		return snap, nil
	}

	ch := s.group.DoChan(flightKey, func() (any, error) {
		if snap := s.current.Load(); snap != nil && !s.expired(snap) {
			return snap, nil
		}
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.reload(rctx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for catalog: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err //nolint:wrapcheck // reload wraps with ErrCorpusUnavailable
		}
		return res.Val.(*Snapshot), nil //nolint:forcetypeassert // only *Snapshot is stored
	}
}

// Index returns the lexical index of the current snapshot.
func (s *Service) Index(ctx context.Context) (*lexical.Index, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Index, nil
}

// List returns every product in source order.
func (s *Service) List(ctx context.Context) ([]product.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Products, nil
}

// Get returns one product by ID.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return product.Product{}, err
	}
	p, ok := snap.byID[id]
	if !ok {
		return product.Product{}, fmt.Errorf("product %q: %w", id, domain.ErrProductNotFound)
	}
	return *p, nil
}

// Lookup maps ranked IDs back to products, preserving order and skipping unknown IDs.
func (s *Service) Lookup(ctx context.Context, ids []string) ([]product.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := snap.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Invalidate drops the current snapshot so the next call reloads from the source.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.current.Store(nil)
	s.group.Forget(flightKey)
}

// publish stores snap unless Invalidate ran after its reload started.
func (s *Service) publish(snap *Snapshot, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.current.Store(snap)
	return true
}

func (s *Service) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// LoadedAt reports when the current snapshot was built, zero if none is loaded.
func (s *Service) LoadedAt() time.Time {
	if snap := s.current.Load(); snap != nil {
		return snap.LoadedAt
	}
	return time.Time{}
}

func (s *Service) expired(snap *Snapshot) bool {
	return s.refresh > 0 && s.now().Sub(snap.LoadedAt) >= s.refresh
}

func (s *Service) reload(ctx context.Context) (*Snapshot, error) {
	start := s.now()
	epoch := s.currentEpoch()

	products, err := s.source.ListProducts(ctx)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrCorpusUnavailable) {
			return nil, err //nolint:wrapcheck // already classified by the source
		}
		return nil, domain.NewCorpusUnavailable(s.sourceName, err)
	}

	corpus := product.Corpus(products)
	if err := corpus.Validate(); err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return nil, domain.NewCorpusUnavailable(s.sourceName, err)
	}

	docs := make([]lexical.Document, 0, len(corpus))
	for i := range corpus {
		docs = append(docs, lexical.Document{ID: corpus[i].ID, Text: corpus[i].SearchText()})
	}

	snap := &Snapshot{
		Products: corpus,
		Index:    lexical.Build(docs, s.analyzer),
		LoadedAt: s.now(),
		byID:     corpus.ByID(),
	}
	if !s.publish(snap, epoch) {
		s.logger.Debug("catalog reload superseded by invalidation", zap.String("source", s.sourceName))
		return snap, nil
	}

	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogProducts.Set(float64(len(corpus)))
	metrics.CatalogIndexedDocuments.Set(float64(snap.Index.Len()))

	s.logger.Info("catalog reloaded",
		zap.String("source", s.sourceName),
		zap.Int("products", len(corpus)),
		zap.Int("indexed", snap.Index.Len()),
		zap.Duration("took", s.now().Sub(start)),
	)
	return snap, nil
}

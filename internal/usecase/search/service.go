package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/search/event"
	"github.com/kailas-cloud/retaildex/internal/domain/search/ranked"
	"github.com/kailas-cloud/retaildex/internal/domain/search/result"
	"github.com/kailas-cloud/retaildex/internal/metrics"
)

const (
	// DefaultNumResults is used when the caller asks for zero or fewer results.
	DefaultNumResults = 10
	// DefaultMaxNumResults caps numResults when no explicit limit is configured.
	DefaultMaxNumResults = 100
	// DefaultVectorTimeout bounds the vector ranker call.
	DefaultVectorTimeout = 3 * time.Second
	// MaxQueryLength is the longest accepted query, in runes.
	MaxQueryLength = 1024
)

// Config tunes the hybrid ranker. Zero values fall back to the defaults above.
type Config struct {
	RRFConstant       float64
	DefaultNumResults int
	MaxNumResults     int
	VectorTimeout     time.Duration
}

// Service ranks products for a free-text query by fusing lexical and vector rankings.
type Service struct {
	index  IndexProvider
	vector VectorSearcher
	events EventPublisher
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. vector may be nil, then only the lexical ranking is fused.
func New(index IndexProvider, vector VectorSearcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		index:  index,
		vector: vector,
		logger: logger,
		cfg: Config{
			RRFConstant:       DefaultRRFConstant,
			DefaultNumResults: DefaultNumResults,
			MaxNumResults:     DefaultMaxNumResults,
			VectorTimeout:     DefaultVectorTimeout,
		},
	}
}

// WithConfig overrides ranker tuning. Non-positive fields keep their defaults.
func (s *Service) WithConfig(cfg Config) *Service {
	if cfg.RRFConstant > 0 {
		s.cfg.RRFConstant = cfg.RRFConstant
	}
	if cfg.DefaultNumResults > 0 {
		s.cfg.DefaultNumResults = cfg.DefaultNumResults
	}
	if cfg.MaxNumResults > 0 {
		s.cfg.MaxNumResults = cfg.MaxNumResults
	}
	if cfg.VectorTimeout > 0 {
		s.cfg.VectorTimeout = cfg.VectorTimeout
	}
	return s
}

// WithEvents attaches an analytics publisher. Publishing is best effort.
func (s *Service) WithEvents(p EventPublisher) *Service {
	s.events = p
	return s
}

// Search returns the fused ranking for query. A blank query yields (nil, nil)
// without touching either ranker.
func (s *Service) Search(ctx context.Context, query string, numResults int) (*result.Fused, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		metrics.SearchRequestsTotal.WithLabelValues("empty_query").Inc()
		return nil, nil
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: query exceeds %d characters", domain.ErrInvalidQuery, MaxQueryLength)
	}

	n := s.numResults(numResults)
	start := time.Now()

	var (
		lexical, vector ranked.List
		vectorDegraded  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := s.index.Index(gctx)
		if err != nil {
			return fmt.Errorf("load lexical index: %w", err)
		}
		lexical = idx.Search(q, n)
		return nil
	})
	g.Go(func() error {
		vector, vectorDegraded = s.searchVector(gctx, q, n)
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err //nolint:wrapcheck // already wrapped inside the group
	}
	if err := ctx.Err(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search: %w", err)
	}

	fused := result.NewFused(
		FuseRRF(lexical, vector, s.cfg.RRFConstant, n),
		len(lexical), len(vector), vectorDegraded,
	)

	elapsed := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	metrics.SearchResults.Observe(float64(fused.Len()))

	s.publish(ctx, event.Search{
		Query:          q,
		NumResults:     n,
		ResultCount:    fused.Len(),
		LexicalHits:    fused.LexicalHits(),
		VectorHits:     fused.VectorHits(),
		VectorDegraded: vectorDegraded,
		LatencyMs:      elapsed.Milliseconds(),
		Timestamp:      start.UTC(),
	})

	return fused, nil
}

// searchVector never fails: errors and timeouts degrade to an empty list.
func (s *Service) searchVector(ctx context.Context, q string, n int) (ranked.List, bool) {
	if s.vector == nil {
		return ranked.List{}, false
	}

	vctx, cancel := context.WithTimeout(ctx, s.cfg.VectorTimeout)
	defer cancel()

	ids, err := s.vector.Search(vctx, q, n)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.VectorSearchFailuresTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("vector search failed, using lexical ranking only",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return ranked.List{}, true
	}
	return ranked.FromIDs(ids), false
}

func (s *Service) numResults(n int) int {
	if n <= 0 {
		n = s.cfg.DefaultNumResults
	}
	if n > s.cfg.MaxNumResults {
		n = s.cfg.MaxNumResults
	}
	return n
}

func (s *Service) publish(ctx context.Context, e event.Search) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSearch(ctx, e); err != nil {
		s.logger.Warn("publish search event", zap.Error(err))
	}
}

package retaildex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type databricksConfig struct {
	host, index, token string
}

type clientConfig struct {
	source     ProductSource
	sourceName string

	vector     VectorSearcher
	databricks *databricksConfig

	refreshInterval time.Duration
	stemming        bool
	rrfConstant     float64
	vectorTimeout   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithProductsCSV loads products from a CSV export with RETAILER_PRODUCT_* headers.
func WithProductsCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = csvSource(path)
		c.sourceName = "csv"
	})
}

// WithProducts serves a fixed product list.
func WithProducts(products []Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = staticSource(products)
		c.sourceName = "static"
	})
}

// WithProductSource loads products from a custom source.
func WithProductSource(src ProductSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = src
		c.sourceName = "custom"
	})
}

// WithVectorSearcher sets the semantic ranker fused with the lexical ranking.
func WithVectorSearcher(v VectorSearcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.vector = v
		c.databricks = nil
	})
}

// WithDatabricks uses a Databricks vector search index as the semantic ranker.
func WithDatabricks(host, index, token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databricks = &databricksConfig{host: host, index: index, token: token}
		c.vector = nil
	})
}

// WithRefreshInterval reloads the corpus after d. Zero (default) loads once.
func WithRefreshInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.refreshInterval = d
	})
}

// WithStemming enables English stemming in the lexical ranker.
func WithStemming() Option {
	return optionFunc(func(c *clientConfig) {
		c.stemming = true
	})
}

// WithRRFConstant overrides the fusion constant m (default 60).
func WithRRFConstant(m float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.rrfConstant = m
	})
}

// WithVectorTimeout bounds each semantic ranker call (default 3s).
func WithVectorTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/config"
	dbRedis "github.com/kailas-cloud/retaildex/internal/db/redis"
	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
	"github.com/kailas-cloud/retaildex/internal/lexical"
	"github.com/kailas-cloud/retaildex/internal/metrics"
	"github.com/kailas-cloud/retaildex/internal/repository/copystore"
	"github.com/kailas-cloud/retaildex/internal/repository/csvfile"
	"github.com/kailas-cloud/retaildex/internal/repository/embcache"
	"github.com/kailas-cloud/retaildex/internal/repository/vector"
	"github.com/kailas-cloud/retaildex/internal/repository/warehouse"
	"github.com/kailas-cloud/retaildex/internal/transport/databricks"
	kafkaTransport "github.com/kailas-cloud/retaildex/internal/transport/kafka"
	openaiTransport "github.com/kailas-cloud/retaildex/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/retaildex/internal/usecase/catalog"
	copyuc "github.com/kailas-cloud/retaildex/internal/usecase/copywriter"
	forecastuc "github.com/kailas-cloud/retaildex/internal/usecase/forecast"
	healthuc "github.com/kailas-cloud/retaildex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/retaildex/internal/usecase/search"
)

// app is the composition root: every service plus the resources to release on exit.
type app struct {
	catalog    *cataloguc.Service
	search     *searchuc.Service
	copywriter *copyuc.Service
	forecasts  *forecastuc.Service
	health     *healthuc.Service

	closers []func()
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{health: healthuc.New()}

	store, err := a.openRedis(ctx, cfg.Redis, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	products, forecasts, err := a.openSources(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.catalog = cataloguc.New(products, cfg.Data.Driver, logger).
		WithRefreshInterval(time.Duration(cfg.Catalog.RefreshIntervalSec) * time.Second).
		WithReloadTimeout(time.Duration(cfg.Catalog.ReloadTimeoutSec) * time.Second).
		WithAnalyzer(lexical.NewAnalyzer(lexical.WithStemming(cfg.Catalog.Stemming)))

	if forecasts != nil {
		a.forecasts = forecastuc.New(forecasts)
	}

	vectorSearcher, err := a.buildVectorSearcher(cfg, store, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.search = searchuc.New(a.catalog, vectorSearcher, logger).WithConfig(searchuc.Config{
		RRFConstant:       cfg.Search.RRFConstant,
		DefaultNumResults: cfg.Search.DefaultNumResults,
		MaxNumResults:     cfg.Search.MaxNumResults,
		VectorTimeout:     time.Duration(cfg.VectorSearch.TimeoutMs) * time.Millisecond,
	})
	if cfg.Events.Driver == config.DriverKafka {
		pub := kafkaTransport.NewPublisher(kafkaTransport.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
			Async:   cfg.Events.Async,
		}, logger)
		a.search.WithEvents(pub)
		a.closers = append(a.closers, func() {
			if err := pub.Close(); err != nil {
				logger.Warn("close kafka publisher", zap.Error(err))
			}
		})
	}

	if cfg.LLM.Enabled() {
		if a.copywriter, err = a.buildCopywriter(cfg.LLM, store, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Info("Health checks registered", zap.Strings("checks", a.health.Names()))
	return a, nil
}

// openRedis connects when configured. A nil store disables copy storage and the redis vector driver.
func (a *app) openRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*dbRedis.Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	a.health.WithPinger("redis", store)
	logger.Info("Connected to redis", zap.Strings("addrs", cfg.Addrs))
	return store, nil
}

func (a *app) openSources(
	ctx context.Context, cfg config.Config, logger *zap.Logger,
) (cataloguc.ProductSource, forecastuc.Source, error) {
	switch cfg.Data.Driver {
	case config.DriverWarehouse:
		wh, err := warehouse.Open(ctx, warehouse.Config{
			DSN:             cfg.Warehouse.DSN,
			ProductsTable:   cfg.Warehouse.ProductsTable,
			ForecastsTable:  cfg.Warehouse.ForecastsTable,
			MaxRows:         cfg.Warehouse.MaxRows,
			MaxOpenConns:    cfg.Warehouse.MaxOpenConns,
			MaxIdleConns:    cfg.Warehouse.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Warehouse.ConnMaxLifetimeSec) * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open warehouse: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := wh.Close(); err != nil {
				logger.Warn("close warehouse", zap.Error(err))
			}
		})
		a.health.WithPinger("warehouse", wh)
		logger.Info("Connected to warehouse", zap.String("products_table", cfg.Warehouse.ProductsTable))
		return wh, wh, nil

	case config.DriverCSV:
		products := csvfile.NewProducts(cfg.Data.ProductsCSV, logger)
		if cfg.Data.ForecastsCSV == "" {
			return products, nil, nil
		}
		return products, csvfile.NewForecasts(cfg.Data.ForecastsCSV), nil

	default:
		return nil, nil, fmt.Errorf("unknown data driver %q", cfg.Data.Driver)
	}
}

// buildVectorSearcher returns a nil interface (not a typed nil) when vector search is off.
func (a *app) buildVectorSearcher(
	cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (searchuc.VectorSearcher, error) {
	switch cfg.VectorSearch.Driver {
	case config.DriverNone:
		logger.Warn("Vector search disabled, ranking is lexical only")
		return nil, nil

	case config.DriverDatabricks:
		dbx := cfg.VectorSearch.Databricks
		client, err := databricks.New(databricks.Config{
			Host:     dbx.Host,
			Index:    dbx.Index,
			Token:    dbx.Token,
			IDColumn: dbx.IDColumn,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create databricks client: %w", err)
		}
		return client, nil

	case config.DriverRedis:
		if store == nil {
			return nil, errors.New("redis vector driver requires redis.addrs")
		}
		embedder := a.buildQueryEmbedder(cfg.Embedding, store, logger)
		rv := cfg.VectorSearch.Redis
		return vector.New(store, embedder, vector.Config{
			IndexName:   rv.IndexName,
			VectorField: rv.VectorField,
			IDField:     rv.IDField,
			KeyPrefix:   rv.KeyPrefix,
			Filters:     rv.Filters,
		}), nil

	default:
		return nil, fmt.Errorf("unknown vector driver %q", cfg.VectorSearch.Driver)
	}
}

// buildQueryEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func (a *app) buildQueryEmbedder(
	cfg config.EmbeddingConfig, store *dbRedis.Store, logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})
	a.health.WithProvider("embedding", base)

	var embedder domain.Embedder = embcache.New(base, store, cfg.Model, metrics.EmbeddingCacheTotal, logger).
		WithL1Size(cfg.CacheSize).
		WithTTL(time.Duration(cfg.CacheTTLHours) * time.Hour)

	// Instruction prefix (outermost, cache key includes instruction)
	if cfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.QueryInstruction)
	}

	logger.Info("Query embedder created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("dimensions", cfg.Dimensions),
	)
	return embedder
}

func (a *app) buildCopywriter(
	cfg config.LLMConfig, store *dbRedis.Store, logger *zap.Logger,
) (*copyuc.Service, error) {
	tmpl, err := prompt.New(cfg.CopyPrompt)
	if err != nil {
		return nil, fmt.Errorf("llm copy_prompt: %w", err)
	}

	llm := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Logger:      logger,
	})
	a.health.WithProvider("llm", llm)

	// Pass nil interface (not typed nil pointer!) if redis is not configured.
	var copies copyuc.Store
	if store != nil {
		copies = copystore.New(store, time.Duration(cfg.CopyTTLHours)*time.Hour)
	} else {
		logger.Warn("Redis not configured, saving product copy is disabled")
	}

	return copyuc.New(llm, a.catalog, copies).
		WithModels(cfg.Models).
		WithTemplate(tmpl), nil
}

package health

import "context"

// Pinger checks a backing store (warehouse, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks a remote model provider (LLM, embeddings).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

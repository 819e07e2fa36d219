package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound signals a product id missing from the current corpus.
	ErrProductNotFound = errors.New("product not found")
	// ErrCorpusUnavailable signals that the product corpus could not be fetched.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidModel signals an unknown completion model.
	ErrInvalidModel = errors.New("invalid model")
	// ErrInvalidPrompt signals an empty or oversized prompt, copy text or chat message.
	ErrInvalidPrompt = errors.New("invalid prompt")
	// ErrCopyNotFound signals that no copy was saved for a product.
	ErrCopyNotFound = errors.New("product copy not found")
	// ErrVectorSearchFailed signals a vector search provider failure.
	ErrVectorSearchFailed = errors.New("vector search failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a chat completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrNotConfigured signals a feature whose backend is not configured.
	ErrNotConfigured = errors.New("not configured")
)

// SourceError wraps a collaborator failure with the name of the source that failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrCorpusUnavailable.Error(), e.Source, e.Err.Error())
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SourceError) Unwrap() []error { return []error{ErrCorpusUnavailable, e.Err} }

// NewCorpusUnavailable wraps a corpus fetch failure.
func NewCorpusUnavailable(source string, err error) error {
	return &SourceError{Source: source, Err: err}
}

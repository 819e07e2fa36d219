package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/chat"
	"github.com/kailas-cloud/retaildex/internal/metrics"
)

// ChatClient calls an OpenAI-compatible chat completions endpoint
// (Databricks model serving exposes one).
type ChatClient struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// ChatConfig holds chat completion settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewChatClient creates a chat completion client.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatClient{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Complete returns the first choice's content for a non-streamed completion.
func (c *ChatClient) Complete(ctx context.Context, model string, messages []chat.Message) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, c.request(model, messages, false))
	metrics.LLMRequestDuration.WithLabelValues(model, "complete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(model, "complete", "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrCompletionProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(model, "complete", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(model, "complete", "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream relays content deltas to onDelta until the completion ends.
// An onDelta error aborts the stream and is returned as is.
func (c *ChatClient) Stream(
	ctx context.Context, model string, messages []chat.Message, onDelta func(string) error,
) error {
	start := time.Now()
	defer func() {
		metrics.LLMRequestDuration.WithLabelValues(model, "stream").Observe(time.Since(start).Seconds())
	}()

	stream, err := c.client.CreateChatCompletionStream(ctx, c.request(model, messages, true))
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(model, "stream", "error").Inc()
		return parseAPIError("completion", err, domain.ErrCompletionProviderError)
	}
	defer func() { _ = stream.Close() }()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			metrics.LLMRequestsTotal.WithLabelValues(model, "stream", "success").Inc()
			return nil
		}
		if err != nil {
			metrics.LLMRequestsTotal.WithLabelValues(model, "stream", "error").Inc()
			return parseAPIError("completion", err, domain.ErrCompletionProviderError)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				metrics.LLMRequestsTotal.WithLabelValues(model, "stream", "aborted").Inc()
				return err
			}
		}
	}
}

// HealthCheck verifies API availability via ListModels.
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *ChatClient) request(model string, messages []chat.Message, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Stream:      stream,
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	return req
}

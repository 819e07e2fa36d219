// Package copywriter generates and stores AI product copy and proxies chat completions.
package copywriter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/chat"
	"github.com/kailas-cloud/retaildex/internal/domain/productcopy"
	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
	"github.com/kailas-cloud/retaildex/internal/logger"
)

// MaxVariants is the most generations one request may ask for.
const MaxVariants = 3

// Request describes one copy generation.
type Request struct {
	ProductID string
	Model     string // empty selects the first configured model
	Template  string // empty selects the configured template
}

// Generation is the outcome of GenerateVariants.
type Generation struct {
	ProductID string   `json:"product_id"`
	Model     string   `json:"model"`
	Prompt    string   `json:"prompt"`
	Variants  []string `json:"variants"`
}

// Service generates product copy with a chat completion model.
type Service struct {
	llm      Completer
	products ProductReader
	store    Store
	models   []prompt.Model
	template prompt.Template
	now      func() time.Time
}

// New creates a copywriter. store may be nil, then Save and Get return ErrNotConfigured.
func New(llm Completer, products ProductReader, store Store) *Service {
	return &Service{
		llm:      llm,
		products: products,
		store:    store,
		models:   prompt.DefaultModels(),
		template: prompt.Default(),
		now:      time.Now,
	}
}

// WithModels replaces the selectable models. An empty list keeps the defaults.
func (s *Service) WithModels(models []prompt.Model) *Service {
	if len(models) > 0 {
		s.models = models
	}
	return s
}

// WithTemplate sets the default copy prompt template.
func (s *Service) WithTemplate(t prompt.Template) *Service {
	s.template = t
	return s
}

// Models returns the selectable models, default first.
func (s *Service) Models() []prompt.Model {
	out := make([]prompt.Model, len(s.models))
	copy(out, s.models)
	return out
}

// Generate renders the prompt for a product and returns one completion.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	g, err := s.GenerateVariants(ctx, req, 1)
	if err != nil {
		return "", err
	}
	return g.Variants[0], nil
}

// GenerateVariants runs n independent completions of the same prompt concurrently.
// n is clamped to [1, MaxVariants].
func (s *Service) GenerateVariants(ctx context.Context, req Request, n int) (Generation, error) {
	if s.llm == nil {
		return Generation{}, fmt.Errorf("copy generation: %w", domain.ErrNotConfigured)
	}
	model, err := s.resolveModel(req.Model)
	if err != nil {
		return Generation{}, err
	}
	tmpl := s.template
	if req.Template != "" {
		if tmpl, err = prompt.New(req.Template); err != nil {
			return Generation{}, fmt.Errorf("%w: %w", domain.ErrInvalidPrompt, err)
		}
	}

	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return Generation{}, fmt.Errorf("get product: %w", err)
	}

	n = min(max(n, 1), MaxVariants)
	text := tmpl.Render(p.Name, p.ImageDescription, p.Category)
	messages := chat.UserPrompt(text)

	variants := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range variants {
		g.Go(func() error {
			out, err := s.llm.Complete(gctx, model, messages)
			if err != nil {
				return fmt.Errorf("generate variant %d: %w", i+1, err)
			}
			variants[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Generation{}, err //nolint:wrapcheck // wrapped per variant
	}
	logger.FromContext(ctx).Debug("product copy generated", zap.String("model", model), zap.Int("variants", n))

	return Generation{ProductID: p.ID, Model: model, Prompt: text, Variants: variants}, nil
}

// Save stores accepted copy for an existing product.
func (s *Service) Save(ctx context.Context, productID, text, model string) (productcopy.Copy, error) {
	if s.store == nil {
		return productcopy.Copy{}, fmt.Errorf("copy store: %w", domain.ErrNotConfigured)
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return productcopy.Copy{}, fmt.Errorf("get product: %w", err)
	}
	if model != "" {
		if _, err := s.resolveModel(model); err != nil {
			return productcopy.Copy{}, err
		}
	}
	c, err := productcopy.New(productID, text, model, s.now())
	if err != nil {
		return productcopy.Copy{}, fmt.Errorf("%w: %w", domain.ErrInvalidPrompt, err)
	}
	if err := s.store.Save(ctx, c); err != nil {
		return productcopy.Copy{}, fmt.Errorf("save copy: %w", err)
	}
	logger.FromContext(ctx).Info("product copy saved", zap.String("model", c.Model))
	return c, nil
}

// Get returns the stored copy of a product.
func (s *Service) Get(ctx context.Context, productID string) (productcopy.Copy, error) {
	if s.store == nil {
		return productcopy.Copy{}, fmt.Errorf("copy store: %w", domain.ErrNotConfigured)
	}
	c, err := s.store.Get(ctx, productID)
	if err != nil {
		return productcopy.Copy{}, fmt.Errorf("get copy: %w", err)
	}
	return c, nil
}

// Chat streams a completion for a client conversation, calling onDelta per text chunk.
func (s *Service) Chat(
	ctx context.Context, model string, messages []chat.Message, onDelta func(string) error,
) error {
	if s.llm == nil {
		return fmt.Errorf("chat: %w", domain.ErrNotConfigured)
	}
	resolved, err := s.resolveModel(model)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: at least one message is required", domain.ErrInvalidPrompt)
	}
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: message %d: %w", domain.ErrInvalidPrompt, i, err)
		}
	}
	if err := s.llm.Stream(ctx, resolved, messages, onDelta); err != nil {
		return fmt.Errorf("chat stream: %w", err)
	}
	return nil
}

func (s *Service) resolveModel(model string) (string, error) {
	if model == "" {
		return s.models[0].Value, nil
	}
	for _, m := range s.models {
		if m.Value == model {
			return model, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidModel, model)
}

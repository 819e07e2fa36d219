package copywriter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/chat"
	"github.com/kailas-cloud/retaildex/internal/domain/product"
	"github.com/kailas-cloud/retaildex/internal/domain/productcopy"
	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
)

// --- Mocks ---

type mockCompleter struct {
	mu        sync.Mutex
	calls     int
	lastModel string
	lastMsgs  []chat.Message
	reply     string
	err       error
	chunks    []string
}

func (m *mockCompleter) Complete(_ context.Context, model string, msgs []chat.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastModel = model
	m.lastMsgs = msgs
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompleter) Stream(
	_ context.Context, model string, msgs []chat.Message, onDelta func(string) error,
) error {
	m.mu.Lock()
	m.calls++
	m.lastModel = model
	m.lastMsgs = msgs
	m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, c := range m.chunks {
		if err := onDelta(c); err != nil {
			return err
		}
	}
	return nil
}

type mockProducts struct {
	products map[string]product.Product
}

func (m *mockProducts) Get(_ context.Context, id string) (product.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return product.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

type mockStore struct {
	saved   map[string]productcopy.Copy
	saveErr error
}

func (m *mockStore) Save(_ context.Context, c productcopy.Copy) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.saved == nil {
		m.saved = make(map[string]productcopy.Copy)
	}
	m.saved[c.ProductID] = c
	return nil
}

func (m *mockStore) Get(_ context.Context, id string) (productcopy.Copy, error) {
	c, ok := m.saved[id]
	if !ok {
		return productcopy.Copy{}, domain.ErrCopyNotFound
	}
	return c, nil
}

func testProducts() *mockProducts {
	return &mockProducts{products: map[string]product.Product{
		"p1": {ID: "p1", Name: "Trail Runner", ImageDescription: "a grey sneaker", Category: "Footwear"},
	}}
}

// --- Tests ---

func TestGenerate_RendersTemplateWithDefaultModel(t *testing.T) {
	llm := &mockCompleter{reply: "Light and grippy."}
	svc := New(llm, testProducts(), nil)

	out, err := svc.Generate(context.Background(), Request{ProductID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Light and grippy." {
		t.Errorf("unexpected output %q", out)
	}
	if llm.lastModel != prompt.DefaultModels()[0].Value {
		t.Errorf("expected default model, got %q", llm.lastModel)
	}
	content := llm.lastMsgs[0].Content
	for _, want := range []string{"Product Title: Trail Runner", "Product Caption: a grey sneaker", "Product Category: Footwear"} {
		if !strings.Contains(content, want) {
			t.Errorf("prompt %q missing %q", content, want)
		}
	}
}

func TestGenerate_CustomTemplate(t *testing.T) {
	llm := &mockCompleter{reply: "ok"}
	svc := New(llm, testProducts(), nil)

	_, err := svc.Generate(context.Background(), Request{ProductID: "p1", Template: "Sell {title} ({category})"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := llm.lastMsgs[0].Content; got != "Sell Trail Runner (Footwear)" {
		t.Errorf("unexpected prompt %q", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		llmErr  error
		wantErr error
	}{
		{"unknown model", Request{ProductID: "p1", Model: "gpt-x"}, nil, domain.ErrInvalidModel},
		{"unknown product", Request{ProductID: "zz"}, nil, domain.ErrProductNotFound},
		{"oversized template", Request{ProductID: "p1", Template: strings.Repeat("x", prompt.MaxTemplateLength+1)}, nil, domain.ErrInvalidPrompt},
		{"provider failure", Request{ProductID: "p1"}, domain.ErrCompletionProviderError, domain.ErrCompletionProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockCompleter{err: tt.llmErr}, testProducts(), nil)
			if _, err := svc.Generate(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateVariants_ClampsAndRunsEach(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1}, {2, 2}, {3, 3}, {10, MaxVariants},
	}
	for _, tt := range tests {
		llm := &mockCompleter{reply: "copy"}
		svc := New(llm, testProducts(), nil)

		g, err := svc.GenerateVariants(context.Background(), Request{ProductID: "p1", Model: "databricks-mixtral-8x7b-instruct"}, tt.n)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", tt.n, err)
		}
		if len(g.Variants) != tt.want || llm.calls != tt.want {
			t.Errorf("n=%d: variants=%d calls=%d, want %d", tt.n, len(g.Variants), llm.calls, tt.want)
		}
		if g.Model != "databricks-mixtral-8x7b-instruct" || g.ProductID != "p1" || g.Prompt == "" {
			t.Errorf("n=%d: unexpected generation %+v", tt.n, g)
		}
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	svc := New(nil, testProducts(), nil)
	if _, err := svc.Generate(context.Background(), Request{ProductID: "p1"}); !errors.Is(err, domain.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSaveAndGet(t *testing.T) {
	store := &mockStore{}
	svc := New(&mockCompleter{}, testProducts(), store)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	saved, err := svc.Save(context.Background(), "p1", " Built for trails. ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Text != "Built for trails." || !saved.UpdatedAt.Equal(svc.now()) {
		t.Errorf("unexpected saved copy %+v", saved)
	}

	got, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != saved.Text {
		t.Errorf("expected %q, got %q", saved.Text, got.Text)
	}
}

func TestSave_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		text    string
		model   string
		store   Store
		wantErr error
	}{
		{"unknown product", "zz", "x", "", &mockStore{}, domain.ErrProductNotFound},
		{"blank text", "p1", "  ", "", &mockStore{}, domain.ErrInvalidPrompt},
		{"unknown model", "p1", "x", "nope", &mockStore{}, domain.ErrInvalidModel},
		{"no store", "p1", "x", "", nil, domain.ErrNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockCompleter{}, testProducts(), tt.store)
			if _, err := svc.Save(context.Background(), tt.id, tt.text, tt.model); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockCompleter{}, testProducts(), &mockStore{})
	if _, err := svc.Get(context.Background(), "p1"); !errors.Is(err, domain.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound, got %v", err)
	}
}

func TestChat_StreamsDeltas(t *testing.T) {
	llm := &mockCompleter{chunks: []string{"Hel", "lo"}}
	svc := New(llm, testProducts(), nil)

	var sb strings.Builder
	err := svc.Chat(context.Background(), "", []chat.Message{{Role: chat.RoleUser, Content: "hi"}},
		func(d string) error {
			sb.WriteString(d)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "Hello" {
		t.Errorf("expected Hello, got %q", sb.String())
	}
}

func TestChat_Validation(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		msgs    []chat.Message
		wantErr error
	}{
		{"no messages", "", nil, domain.ErrInvalidPrompt},
		{"bad role", "", []chat.Message{{Role: "robot", Content: "x"}}, domain.ErrInvalidPrompt},
		{"bad model", "nope", []chat.Message{{Role: chat.RoleUser, Content: "x"}}, domain.ErrInvalidModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockCompleter{}
			svc := New(llm, testProducts(), nil)
			err := svc.Chat(context.Background(), tt.model, tt.msgs, func(string) error { return nil })
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if llm.calls != 0 {
				t.Error("provider must not be called for invalid input")
			}
		})
	}
}

func TestModels_CustomList(t *testing.T) {
	custom := []prompt.Model{{Label: "Small", Value: "small-1"}}
	svc := New(&mockCompleter{}, testProducts(), nil).WithModels(custom)

	got := svc.Models()
	if len(got) != 1 || got[0].Value != "small-1" {
		t.Errorf("unexpected models %+v", got)
	}
	got[0].Value = "mutated"
	if svc.Models()[0].Value != "small-1" {
		t.Error("Models must return a copy")
	}
}

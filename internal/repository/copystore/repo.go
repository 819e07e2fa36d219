package copystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/retaildex/internal/db"
	"github.com/kailas-cloud/retaildex/internal/domain"
	"github.com/kailas-cloud/retaildex/internal/domain/productcopy"
)

var keyPrefix = domain.KeyPrefix + "copy:"

// kvStore is the consumer interface (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo stores accepted product copy as JSON values, one key per product.
type Repo struct {
	store kvStore
	ttl   time.Duration
}

// New creates a copy repository. ttl <= 0 keeps copy forever.
func New(store kvStore, ttl time.Duration) *Repo {
	return &Repo{store: store, ttl: ttl}
}

// Save overwrites the copy of c.ProductID.
func (r *Repo) Save(ctx context.Context, c productcopy.Copy) error {
	data, err := json.Marshal(copyDTO{
		Text:      c.Text,
		Model:     c.Model,
		UpdatedAt: c.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal copy: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, keyPrefix+c.ProductID, data, r.ttl); err != nil {
		return fmt.Errorf("save copy: %w", err)
	}
	return nil
}

// Get returns the copy of productID or domain.ErrCopyNotFound.
func (r *Repo) Get(ctx context.Context, productID string) (productcopy.Copy, error) {
	data, err := r.store.Get(ctx, keyPrefix+productID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return productcopy.Copy{}, domain.ErrCopyNotFound
		}
		return productcopy.Copy{}, fmt.Errorf("get copy: %w", err)
	}

	var dto copyDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return productcopy.Copy{}, fmt.Errorf("unmarshal copy: %w", err)
	}
	return productcopy.Copy{
		ProductID: productID,
		Text:      dto.Text,
		Model:     dto.Model,
		UpdatedAt: time.Unix(dto.UpdatedAt, 0).UTC(),
	}, nil
}

type copyDTO struct {
	Text      string `json:"text"`
	Model     string `json:"model,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

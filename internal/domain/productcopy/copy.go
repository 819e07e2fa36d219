// Package productcopy models accepted marketing copy for a product.
package productcopy

import (
	"fmt"
	"strings"
	"time"
)

// MaxTextLength bounds stored copy.
const MaxTextLength = 8192

// Copy is the accepted description for one product.
type Copy struct {
	ProductID string    `json:"product_id"`
	Text      string    `json:"text"`
	Model     string    `json:"model,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New validates and builds a Copy.
func New(productID, text, model string, at time.Time) (Copy, error) {
	text = strings.TrimSpace(text)
	if productID == "" {
		return Copy{}, fmt.Errorf("product ID is required")
	}
	if text == "" {
		return Copy{}, fmt.Errorf("copy text is required")
	}
	if len(text) > MaxTextLength {
		return Copy{}, fmt.Errorf("copy text too long (max %d bytes)", MaxTextLength)
	}
	return Copy{ProductID: productID, Text: text, Model: model, UpdatedAt: at.UTC()}, nil
}

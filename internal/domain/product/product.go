package product

import (
	"fmt"
	"strings"
)

// Product is a retail product row from the warehouse view.
// Name is the text indexed for lexical search; it may be empty.
type Product struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	URL              string `json:"url,omitempty"`
	Image            string `json:"image,omitempty"`
	Category         string `json:"category,omitempty"`
	Description      string `json:"description,omitempty"`
	ImageDescription string `json:"image_description,omitempty"`
	Retailer         string `json:"retailer,omitempty"`
	AIDescription    string `json:"ai_generated_description,omitempty"`
}

// Validate checks the invariants every corpus row must satisfy.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product ID is required")
	}
	return nil
}

// SearchText returns the lowercased text used for lexical indexing ("" when absent).
func (p *Product) SearchText() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

// Corpus is an ordered snapshot of products.
type Corpus []Product

// Validate rejects rows without an ID and duplicate IDs.
func (c Corpus) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if _, dup := seen[c[i].ID]; dup {
			return fmt.Errorf("row %d: duplicate product ID %q", i, c[i].ID)
		}
		seen[c[i].ID] = struct{}{}
	}
	return nil
}

// ByID indexes the corpus by product ID.
func (c Corpus) ByID() map[string]*Product {
	m := make(map[string]*Product, len(c))
	for i := range c {
		m[c[i].ID] = &c[i]
	}
	return m
}

package productcopy

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	c, err := New("p1", "  Soft cotton tee.  ", "dbrx", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "Soft cotton tee." {
		t.Errorf("expected trimmed text, got %q", c.Text)
	}
	if c.UpdatedAt.Location() != time.UTC {
		t.Error("expected UTC timestamp")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name, id, text string
	}{
		{"missing id", "", "text"},
		{"blank text", "p1", "   "},
		{"too long", "p1", strings.Repeat("x", MaxTextLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.id, tt.text, "", time.Now()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// Package lexical implements the in-process TF-IDF product index.
//
// An Index is built once from a corpus snapshot and never mutated afterwards;
// a corpus refresh builds a new Index and the caller swaps the pointer.
package lexical

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Analyzer turns text into index terms. The same Analyzer must be used at build and query time.
type Analyzer struct {
	stem bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStemming enables English Snowball stemming of every token.
func WithStemming(enabled bool) Option {
	return func(a *Analyzer) { a.stem = enabled }
}

// NewAnalyzer creates an analyzer. By default tokens are only lowercased.
func NewAnalyzer(opts ...Option) Analyzer {
	var a Analyzer
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Tokens lowercases text and splits it on every rune that is not a letter or digit.
func (a Analyzer) Tokens(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if !a.stem {
		return words
	}
	out := words[:0]
	for _, w := range words {
		if s := english.Stem(w, true); s != "" {
			out = append(out, s)
		}
	}
	return out
}

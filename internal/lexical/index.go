package lexical

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/retaildex/internal/domain/search/ranked"
)

// DefaultK is the number of hits returned when the caller passes k < 1.
const DefaultK = 10

// Document is one indexable item: an identifier and its text field.
type Document struct {
	ID   string
	Text string
}

type posting struct {
	doc int // position in Index.ids
	tf  int
}

// Index holds term statistics for TF-IDF scoring. Safe for concurrent reads.
type Index struct {
	analyzer Analyzer
	ids      []string
	postings map[string][]posting
}

// Build indexes every document with non-empty text, in input order.
// Text is lowercased before tokenizing; documents with empty text or a repeated ID are skipped.
func Build(docs []Document, analyzer Analyzer) *Index {
	idx := &Index{
		analyzer: analyzer,
		ids:      make([]string, 0, len(docs)),
		postings: make(map[string][]posting),
	}
	seen := make(map[string]struct{}, len(docs))

	for _, d := range docs {
		text := strings.ToLower(strings.TrimSpace(d.Text))
		if text == "" || d.ID == "" {
			continue
		}
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}

		pos := len(idx.ids)
		idx.ids = append(idx.ids, d.ID)

		tf := make(map[string]int)
		order := make([]string, 0, 8)
		for _, term := range analyzer.Tokens(text) {
			if tf[term] == 0 {
				order = append(order, term)
			}
			tf[term]++
		}
		for _, term := range order {
			idx.postings[term] = append(idx.postings[term], posting{doc: pos, tf: tf[term]})
		}
	}
	return idx
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.ids)
}

// Terms returns the number of distinct terms.
func (x *Index) Terms() int {
	if x == nil {
		return 0
	}
	return len(x.postings)
}

// idf is 1 + ln(N / (1 + df)); always positive for df <= N.
func (x *Index) idf(df int) float64 {
	return 1 + math.Log(float64(len(x.ids))/float64(1+df))
}

// Search scores every indexed document against query and returns the top k
// with a positive score, descending, ties in index insertion order.
// score(d) = sum over query tokens t of tf(t, d) * idf(t).
func (x *Index) Search(query string, k int) ranked.List {
	if x == nil || len(x.ids) == 0 {
		return ranked.List{}
	}
	if k < 1 {
		k = DefaultK
	}

	scores := make([]float64, len(x.ids))
	for _, term := range x.analyzer.Tokens(query) {
		plist, ok := x.postings[term]
		if !ok {
			continue
		}
		w := x.idf(len(plist))
		for _, p := range plist {
			scores[p.doc] += float64(p.tf) * w
		}
	}

	hits := make(ranked.List, 0, 16)
	for i, s := range scores {
		if s > 0 {
			hits = append(hits, ranked.Entry{ID: x.ids[i], Score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

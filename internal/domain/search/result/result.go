package result

// Entry is a single fused hit.
type Entry struct {
	id    string
	score float64
}

// New creates a fused entry.
func New(id string, score float64) Entry {
	return Entry{id: id, score: score}
}

// ID returns the product identifier.
func (e *Entry) ID() string { return e.id }

// Score returns the fused RRF score.
func (e *Entry) Score() float64 { return e.score }

// Fused is the outcome of one hybrid query, ordered by descending fused score.
type Fused struct {
	entries        []Entry
	lexicalHits    int
	vectorHits     int
	vectorDegraded bool
}

// NewFused wraps fused entries with per-source diagnostics.
func NewFused(entries []Entry, lexicalHits, vectorHits int, vectorDegraded bool) *Fused {
	if entries == nil {
		entries = []Entry{}
	}
	return &Fused{
		entries:        entries,
		lexicalHits:    lexicalHits,
		vectorHits:     vectorHits,
		vectorDegraded: vectorDegraded,
	}
}

// Entries returns the fused entries, best first.
func (f *Fused) Entries() []Entry { return f.entries }

// Len returns the number of fused entries.
func (f *Fused) Len() int { return len(f.entries) }

// IDs returns the fused identifiers, best first.
func (f *Fused) IDs() []string {
	ids := make([]string, len(f.entries))
	for i := range f.entries {
		ids[i] = f.entries[i].id
	}
	return ids
}

// LexicalHits returns how many candidates the lexical ranker produced.
func (f *Fused) LexicalHits() int { return f.lexicalHits }

// VectorHits returns how many candidates the vector ranker produced.
func (f *Fused) VectorHits() int { return f.vectorHits }

// VectorDegraded reports whether the vector ranker failed and was replaced by an empty list.
func (f *Fused) VectorDegraded() bool { return f.vectorDegraded }

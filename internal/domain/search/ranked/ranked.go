// Package ranked holds the per-source ranked lists that feed rank fusion.
package ranked

// Entry is one ranked identifier. Score is informational; vector sources leave it at 0.
type Entry struct {
	ID    string
	Score float64
}

// List is ordered best first and holds no duplicate IDs.
type List []Entry

// FromIDs builds a List from best-first IDs, dropping empty and repeated IDs.
func FromIDs(ids []string) List {
	l := make(List, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		l = append(l, Entry{ID: id})
	}
	return l
}

// Dedup returns l without repeated IDs, keeping the first (best) occurrence.
func Dedup(l List) List {
	out := make(List, 0, len(l))
	seen := make(map[string]struct{}, len(l))
	for _, e := range l {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// IDs returns the identifiers in rank order.
func (l List) IDs() []string {
	ids := make([]string, len(l))
	for i, e := range l {
		ids[i] = e.ID
	}
	return ids
}

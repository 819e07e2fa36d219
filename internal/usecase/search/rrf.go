package search

import (
	"sort"

	"github.com/kailas-cloud/retaildex/internal/domain/search/ranked"
	"github.com/kailas-cloud/retaildex/internal/domain/search/result"
)

// DefaultRRFConstant is the Reciprocal Rank Fusion damping constant (Cormack et al. 2009).
const DefaultRRFConstant = 60.0

// FuseRRF merges the lexical and vector rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(rank_i(d) + m) over the lists containing d, rank starting at 1.
// Lexical contributions are accumulated first, so at equal fused score an ID first seen
// in the lexical list sorts ahead of one first seen in the vector list.
// m <= 0 falls back to DefaultRRFConstant and numResults <= 0 to DefaultNumResults.
func FuseRRF(lexical, vector ranked.List, m float64, numResults int) []result.Entry {
	if m <= 0 {
		m = DefaultRRFConstant
	}
	if numResults <= 0 {
		numResults = DefaultNumResults
	}

	order := make([]string, 0, len(lexical)+len(vector))
	scores := make(map[string]float64, len(lexical)+len(vector))

	accumulate := func(list ranked.List) {
		for i, e := range ranked.Dedup(list) {
			if _, ok := scores[e.ID]; !ok {
				order = append(order, e.ID)
			}
			scores[e.ID] += 1.0 / (float64(i+1) + m)
		}
	}
	accumulate(lexical)
	accumulate(vector)

	fused := make([]result.Entry, len(order))
	for i, id := range order {
		fused[i] = result.New(id, scores[id])
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score() > fused[j].Score()
	})

	if len(fused) > numResults {
		fused = fused[:numResults]
	}
	return fused
}

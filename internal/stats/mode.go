package stats

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// tally counts occurrences of values, remembering first-occurrence order
type tally[K comparable] struct {
	order  []K
	counts map[K]int
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(k K) {
	if _, seen := t.counts[k]; !seen {
		t.order = append(t.order, k)
	}
	t.counts[k]++
}

func (t *tally[K]) len() int { return len(t.order) }

func (t *tally[K]) max() int {
	best := 0
	for _, n := range t.counts {
		if n > best {
			best = n
		}
	}
	return best
}

// modes returns every value sharing the highest count, in first-occurrence order
func (t *tally[K]) modes() []K {
	best := t.max()
	if best == 0 {
		return nil
	}
	var out []K
	for _, k := range t.order {
		if t.counts[k] == best {
			out = append(out, k)
		}
	}
	return out
}

// firstMode returns the most frequent value; ties go to the earliest seen
func (t *tally[K]) firstMode() (K, int) {
	var best K
	bestN := 0
	for _, k := range t.order {
		if n := t.counts[k]; n > bestN {
			best, bestN = k, n
		}
	}
	return best, bestN
}

// smallestMode returns the most frequent value; ties go to the smallest
func smallestMode[K constraints.Ordered](t *tally[K]) (K, int) {
	var best K
	bestN := 0
	for _, k := range t.order {
		n := t.counts[k]
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best, bestN
}

// descending lists values by count, highest first; ties keep first-occurrence order
func (t *tally[K]) descending() []K {
	out := append([]K(nil), t.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return t.counts[out[i]] > t.counts[out[j]]
	})
	return out
}

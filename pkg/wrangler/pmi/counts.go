package pmi

import "sort"

// Counter maintains document and pair co-occurrence counts over term ids.
// When built with a tracked set only those ids are counted, which keeps the
// pair table bounded by the top terms of a model rather than the vocabulary.
type Counter struct {
	N     int64            // total number of documents
	Nx    map[int]int64    // document frequency per term
	Nxy   map[Pair]int64   // co-occurrence count per term pair
	track map[int]struct{} // nil means every term is counted
}

// Pair is an ordered pair of term ids (T1 < T2).
type Pair struct {
	T1, T2 int
}

// MakePair returns the canonical pair for two ids.
func MakePair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{T1: a, T2: b}
}

// NewCounter creates a counter that tracks every term.
func NewCounter() *Counter {
	return &Counter{
		Nx:  make(map[int]int64),
		Nxy: make(map[Pair]int64),
	}
}

// NewCounterFor creates a counter restricted to the given term ids.
func NewCounterFor(ids []int) *Counter {
	c := NewCounter()
	c.track = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		c.track[id] = struct{}{}
	}
	return c
}

// Tracks reports whether id is counted.
func (c *Counter) Tracks(id int) bool {
	if c.track == nil {
		return true
	}
	_, ok := c.track[id]
	return ok
}

// AddDocument updates counts for one document. Repeated ids within the
// document count once.
func (c *Counter) AddDocument(ids []int) {
	c.N++

	seen := make(map[int]struct{}, len(ids))
	uniq := make([]int, 0, len(ids))
	for _, id := range ids {
		if !c.Tracks(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Ints(uniq)

	for i, a := range uniq {
		c.Nx[a]++
		for _, b := range uniq[i+1:] {
			c.Nxy[Pair{T1: a, T2: b}]++
		}
	}
}

// PairCount returns the number of documents containing both ids.
func (c *Counter) PairCount(a, b int) int64 {
	return c.Nxy[MakePair(a, b)]
}

// TermCount returns the document frequency of id.
func (c *Counter) TermCount(id int) int64 {
	return c.Nx[id]
}

// TotalDocs returns the number of documents seen.
func (c *Counter) TotalDocs() int64 {
	return c.N
}

// UniqueTerms returns the number of distinct counted terms.
func (c *Counter) UniqueTerms() int {
	return len(c.Nx)
}

// UniquePairs returns the number of distinct co-occurring pairs.
func (c *Counter) UniquePairs() int {
	return len(c.Nxy)
}

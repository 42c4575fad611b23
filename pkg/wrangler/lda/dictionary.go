package lda

import "sort"

// Pruning defaults applied before training.
const (
	DefaultNoBelow = 5
	DefaultNoAbove = 0.5
	DefaultKeepN   = 1000
)

// Dictionary maps tokens to integer ids and tracks how many documents each
// token appears in. It is never modified after construction; FilterExtremes
// returns a new Dictionary.
type Dictionary struct {
	tokens  []string // id -> token
	ids     map[string]int
	df      []int // id -> document frequency
	numDocs int
}

// NewDictionary assigns ids in first-seen order across docs.
func NewDictionary(docs [][]string) *Dictionary {
	d := &Dictionary{ids: make(map[string]int)}
	for _, doc := range docs {
		d.numDocs++
		seen := make(map[int]struct{}, len(doc))
		for _, tok := range doc {
			id, ok := d.ids[tok]
			if !ok {
				id = len(d.tokens)
				d.ids[tok] = id
				d.tokens = append(d.tokens, tok)
				d.df = append(d.df, 0)
			}
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				d.df[id]++
			}
		}
	}
	return d
}

// Len returns the vocabulary size.
func (d *Dictionary) Len() int { return len(d.tokens) }

// NumDocs returns the number of documents the dictionary was built from.
func (d *Dictionary) NumDocs() int { return d.numDocs }

// Token returns the token for id.
func (d *Dictionary) Token(id int) string { return d.tokens[id] }

// ID returns the id for token.
func (d *Dictionary) ID(token string) (int, bool) {
	id, ok := d.ids[token]
	return id, ok
}

// DocFreq returns the number of documents containing id.
func (d *Dictionary) DocFreq(id int) int { return d.df[id] }

// Tokens returns the vocabulary in id order.
func (d *Dictionary) Tokens() []string {
	out := make([]string, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// FilterExtremes keeps tokens found in at least noBelow documents and in no
// more than int(noAbove*NumDocs) documents, then keeps the keepN most
// frequent of those (ties broken by id). keepN <= 0 keeps them all.
// Surviving tokens get compact ids in their original order.
func (d *Dictionary) FilterExtremes(noBelow int, noAbove float64, keepN int) *Dictionary {
	noAboveAbs := int(noAbove * float64(d.numDocs))

	good := make([]int, 0, len(d.tokens))
	for id, df := range d.df {
		if df >= noBelow && df <= noAboveAbs {
			good = append(good, id)
		}
	}

	if keepN > 0 && len(good) > keepN {
		sort.SliceStable(good, func(i, j int) bool {
			return d.df[good[i]] > d.df[good[j]]
		})
		good = good[:keepN]
		sort.Ints(good)
	}

	out := &Dictionary{
		tokens:  make([]string, 0, len(good)),
		ids:     make(map[string]int, len(good)),
		df:      make([]int, 0, len(good)),
		numDocs: d.numDocs,
	}
	for _, old := range good {
		out.ids[d.tokens[old]] = len(out.tokens)
		out.tokens = append(out.tokens, d.tokens[old])
		out.df = append(out.df, d.df[old])
	}
	return out
}

// TermCount is one entry of a bag of words.
type TermCount struct {
	ID    int
	Count int
}

// Bow is a document as term counts sorted by id.
type Bow []TermCount

// Len returns the total number of tokens in the bag.
func (b Bow) Len() int {
	n := 0
	for _, tc := range b {
		n += tc.Count
	}
	return n
}

// IDs returns the distinct term ids of the bag.
func (b Bow) IDs() []int {
	out := make([]int, len(b))
	for i, tc := range b {
		out[i] = tc.ID
	}
	return out
}

// BowCorpus is the training corpus, one Bow per document.
type BowCorpus []Bow

// Doc2Bow converts tokens to a bag of words. Unknown tokens are ignored.
func (d *Dictionary) Doc2Bow(tokens []string) Bow {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if id, ok := d.ids[tok]; ok {
			counts[id]++
		}
	}
	bow := make(Bow, 0, len(counts))
	for id, n := range counts {
		bow = append(bow, TermCount{ID: id, Count: n})
	}
	sort.Slice(bow, func(i, j int) bool { return bow[i].ID < bow[j].ID })
	return bow
}

// FilterOptions controls dictionary pruning.
type FilterOptions struct {
	NoBelow int
	NoAbove float64
	KeepN   int
}

// DefaultFilterOptions returns the usual pruning thresholds.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{NoBelow: DefaultNoBelow, NoAbove: DefaultNoAbove, KeepN: DefaultKeepN}
}

// Prepare builds a pruned dictionary over docs and converts every document
// to a bag of words. Documents keep their positions even when empty.
func Prepare(docs [][]string, opts FilterOptions) (*Dictionary, BowCorpus) {
	dict := NewDictionary(docs).FilterExtremes(opts.NoBelow, opts.NoAbove, opts.KeepN)
	corpus := make(BowCorpus, len(docs))
	for i, doc := range docs {
		corpus[i] = dict.Doc2Bow(doc)
	}
	return dict, corpus
}

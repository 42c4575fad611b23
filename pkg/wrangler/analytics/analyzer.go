// Package analytics profiles tokenized documents before vocabulary pruning:
// how many documents carry each term, how strongly a term associates with
// anything else, and which adjacent pairs behave like fixed phrases.
//
// The profile feeds the stoplist and phrase files: terms spread evenly over
// the corpus with no strong partner are stoplist candidates, and pairs that
// keep turning up side by side are phrase candidates.
package analytics

import (
	"math"
	"sort"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/pmi"
)

// Thresholds decide which terms and pairs a Report suggests.
type Thresholds struct {
	// StopwordMinDF is the document frequency, in percent, a term needs
	// before it can be a stoplist candidate.
	StopwordMinDF float64
	// StopwordMaxNPMI caps the strongest association of a stoplist candidate.
	StopwordMaxNPMI float64
	// PhraseMinCount is how often a pair must appear side by side.
	PhraseMinCount int64
	// PhraseMinNPMI is the weakest document association a phrase may have.
	PhraseMinNPMI float64
}

// DefaultThresholds are used by the wrangler unless configured otherwise.
var DefaultThresholds = Thresholds{
	StopwordMinDF:   50,
	StopwordMaxNPMI: 0.2,
	PhraseMinCount:  2,
	PhraseMinNPMI:   0.5,
}

// TermStat describes one term across the corpus.
type TermStat struct {
	Term      string  `json:"term"`
	DF        int64   `json:"df"`
	DFPercent float64 `json:"df_percent"`
	IDF       float64 `json:"idf"`
	// NPMIMax is the term's strongest normalized PMI with any other term,
	// or -1 when it never shares a document.
	NPMIMax float64 `json:"npmi_max"`
}

// PairStat describes an adjacent pair of terms.
type PairStat struct {
	First    string  `json:"first"`
	Second   string  `json:"second"`
	Adjacent int64   `json:"adjacent"` // occurrences with Second right after First
	NPMI     float64 `json:"npmi"`     // document-level association
	Score    float64 `json:"score"`    // Adjacent weighted by NPMI
}

type bigram struct {
	first, second int
}

// Analyzer accumulates statistics one document at a time. It is not safe for
// concurrent use.
type Analyzer struct {
	ids     map[string]int
	terms   []string
	counter *pmi.Counter
	bigrams map[bigram]int64
	tokens  int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		ids:     make(map[string]int),
		counter: pmi.NewCounter(),
		bigrams: make(map[bigram]int64),
	}
}

// Process consumes one document. Empty tokens are ignored.
func (a *Analyzer) Process(tokens []string) {
	ids := make([]int, 0, len(tokens))
	prev := -1
	for _, tok := range tokens {
		if tok == "" {
			prev = -1
			continue
		}
		id := a.id(tok)
		ids = append(ids, id)
		a.tokens++
		if prev >= 0 && prev != id {
			a.bigrams[bigram{first: prev, second: id}]++
		}
		prev = id
	}
	a.counter.AddDocument(ids)
}

func (a *Analyzer) id(tok string) int {
	if id, ok := a.ids[tok]; ok {
		return id
	}
	id := len(a.terms)
	a.ids[tok] = id
	a.terms = append(a.terms, tok)
	return id
}

// Report is a frozen view of the analyzer's counts.
type Report struct {
	Documents int64      `json:"documents"`
	Tokens    int64      `json:"tokens"`
	Terms     []TermStat `json:"terms"` // by DF descending, then term
	pairs     []PairStat
}

// Report computes term and pair statistics over everything processed so far.
func (a *Analyzer) Report() Report {
	n := a.counter.TotalDocs()
	rep := Report{Documents: n, Tokens: a.tokens}
	if n == 0 {
		return rep
	}

	calc := pmi.NewCalculator(0)
	npmiMax := make([]float64, len(a.terms))
	for i := range npmiMax {
		npmiMax[i] = -1
	}
	for p, nab := range a.counter.Nxy {
		v := calc.NPMI(nab, a.counter.TermCount(p.T1), a.counter.TermCount(p.T2), n)
		npmiMax[p.T1] = max(npmiMax[p.T1], v)
		npmiMax[p.T2] = max(npmiMax[p.T2], v)
	}

	rep.Terms = make([]TermStat, 0, len(a.terms))
	for id, term := range a.terms {
		df := a.counter.TermCount(id)
		rep.Terms = append(rep.Terms, TermStat{
			Term:      term,
			DF:        df,
			DFPercent: 100 * float64(df) / float64(n),
			IDF:       math.Log(float64(n) / float64(df)),
			NPMIMax:   npmiMax[id],
		})
	}
	sort.Slice(rep.Terms, func(i, j int) bool {
		if rep.Terms[i].DF != rep.Terms[j].DF {
			return rep.Terms[i].DF > rep.Terms[j].DF
		}
		return rep.Terms[i].Term < rep.Terms[j].Term
	})

	for bg, count := range a.bigrams {
		nab := a.counter.PairCount(bg.first, bg.second)
		v := calc.NPMI(nab, a.counter.TermCount(bg.first), a.counter.TermCount(bg.second), n)
		rep.pairs = append(rep.pairs, PairStat{
			First:    a.terms[bg.first],
			Second:   a.terms[bg.second],
			Adjacent: count,
			NPMI:     v,
			Score:    float64(count) * v,
		})
	}
	sort.Slice(rep.pairs, func(i, j int) bool {
		pi, pj := rep.pairs[i], rep.pairs[j]
		if pi.Score != pj.Score {
			return pi.Score > pj.Score
		}
		if pi.First != pj.First {
			return pi.First < pj.First
		}
		return pi.Second < pj.Second
	})
	return rep
}

// Vocabulary returns the number of distinct terms.
func (r Report) Vocabulary() int { return len(r.Terms) }

// Top returns the n most widespread terms.
func (r Report) Top(n int) []TermStat {
	n = min(max(n, 0), len(r.Terms))
	return r.Terms[:n:n]
}

// StopwordCandidates returns terms that appear in many documents yet never
// associate strongly with another term, most widespread first.
func (r Report) StopwordCandidates(th Thresholds) []TermStat {
	var out []TermStat
	for _, t := range r.Terms {
		if t.DFPercent >= th.StopwordMinDF && t.NPMIMax <= th.StopwordMaxNPMI {
			out = append(out, t)
		}
	}
	return out
}

// Phrases returns adjacent pairs that recur and associate strongly, best
// scoring first. limit <= 0 returns them all.
func (r Report) Phrases(th Thresholds, limit int) []PairStat {
	var out []PairStat
	for _, p := range r.pairs {
		if p.Adjacent < th.PhraseMinCount || p.NPMI < th.PhraseMinNPMI {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Profile runs a fresh analyzer over docs.
func Profile(docs [][]string) Report {
	a := NewAnalyzer()
	for _, d := range docs {
		a.Process(d)
	}
	return a.Report()
}

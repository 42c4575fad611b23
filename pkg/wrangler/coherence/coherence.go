// Package coherence scores how interpretable the topics of a fitted model are.
package coherence

import (
	"context"
	"errors"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/pmi"
)

// DefaultTopN is the number of top terms per topic that are compared.
const DefaultTopN = 10

// Scorer rates a model against the corpus it was trained on. Higher is better.
type Scorer interface {
	Score(ctx context.Context, model lda.Model, corpus lda.BowCorpus, dict *lda.Dictionary) (float64, error)
}

// NPMI averages normalized pointwise mutual information over every pair of
// a topic's top terms, using document co-occurrence, then averages over
// topics. Scores fall in [-1, 1].
type NPMI struct {
	TopN int
}

var _ Scorer = NPMI{}

// Score implements Scorer.
func (s NPMI) Score(ctx context.Context, model lda.Model, corpus lda.BowCorpus, dict *lda.Dictionary) (float64, error) {
	per, err := s.TopicScores(ctx, model, corpus, dict)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, v := range per {
		sum += v
	}
	return sum / float64(len(per)), nil
}

// TopicScores returns one score per topic. Topics with fewer than two
// terms score 0.
func (s NPMI) TopicScores(ctx context.Context, model lda.Model, corpus lda.BowCorpus, dict *lda.Dictionary) ([]float64, error) {
	if model == nil || model.NumTopics() == 0 {
		return nil, internalerr.New(internalerr.ErrTraining, "score coherence", "", errors.New("model has no topics"))
	}
	if len(corpus) == 0 {
		return nil, internalerr.New(internalerr.ErrTraining, "score coherence", "", errors.New("empty corpus"))
	}

	n := s.TopN
	if n <= 0 {
		n = DefaultTopN
	}

	tops := make([][]int, model.NumTopics())
	var tracked []int
	for k := range tops {
		tops[k] = model.TopTerms(k, n)
		tracked = append(tracked, tops[k]...)
	}

	counter := pmi.NewCounterFor(tracked)
	for i, bow := range corpus {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		counter.AddDocument(bow.IDs())
	}

	calc := pmi.NewCalculator(0)
	scores := make([]float64, len(tops))
	for k, terms := range tops {
		scores[k] = topicNPMI(calc, counter, terms)
	}
	return scores, nil
}

func topicNPMI(calc *pmi.Calculator, c *pmi.Counter, terms []int) float64 {
	if len(terms) < 2 {
		return 0
	}
	sum, pairs := 0.0, 0
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			a, b := terms[i], terms[j]
			sum += calc.NPMI(c.PairCount(a, b), c.TermCount(a), c.TermCount(b), c.TotalDocs())
			pairs++
		}
	}
	return sum / float64(pairs)
}

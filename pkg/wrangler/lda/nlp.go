package lda

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/e-gun/nlp"
	"github.com/e-gun/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// NLPEngine fits models with the online variational LDA of github.com/e-gun/nlp.
//
// Passes map to the engine's passes over the corpus and Iterations to the
// inference loops run on each document while fitting. A fit already running
// is not interrupted by ctx; cancellation is observed before and after.
type NLPEngine struct{}

var _ Engine = NLPEngine{}

// Fit implements Engine.
func (NLPEngine) Fit(ctx context.Context, corpus BowCorpus, dict *Dictionary, params Params, seed uint64) (model Model, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, docs := termDocMatrix(corpus, dict.Len())
	if docs == 0 {
		return nil, internalerr.New(internalerr.ErrTraining, "fit", "", errors.New("no document has a term in the vocabulary"))
	}

	lda := newLDA(params, seed)

	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = internalerr.New(internalerr.ErrTraining, "fit", "", fmt.Errorf("engine panic: %v", r))
		}
	}()

	if _, err := lda.FitTransform(m); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newMatrixModel(lda.Components()), nil
}

// newLDA configures the engine. FitTransform only runs the per document
// burn-in loop, so that is where Iterations goes; TransformationPasses is
// kept in step for later Transform calls.
func newLDA(params Params, seed uint64) *nlp.LatentDirichletAllocation {
	lda := nlp.NewLatentDirichletAllocation(params.Topics)
	lda.Iterations = params.Passes
	lda.BurnInPasses = params.Iterations
	lda.TransformationPasses = params.Iterations
	lda.Processes = params.Workers
	lda.Rnd = rand.New(rand.NewSource(seed))
	return lda
}

// termDocMatrix lays the corpus out as terms x documents, skipping empty
// documents. It returns the matrix and the number of columns.
func termDocMatrix(corpus BowCorpus, terms int) (mat.Matrix, int) {
	nonEmpty := 0
	for _, bow := range corpus {
		if len(bow) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 || terms == 0 {
		return nil, 0
	}

	dok := sparse.NewDOK(terms, nonEmpty)
	col := 0
	for _, bow := range corpus {
		if len(bow) == 0 {
			continue
		}
		for _, tc := range bow {
			dok.Set(tc.ID, col, float64(tc.Count))
		}
		col++
	}
	return dok.ToCSR(), nonEmpty
}

// matrixModel holds topic-term weights copied out of the engine.
type matrixModel struct {
	weights [][]float64 // topic -> term weights
}

func newMatrixModel(components mat.Matrix) *matrixModel {
	topics, terms := components.Dims()
	w := make([][]float64, topics)
	for k := 0; k < topics; k++ {
		w[k] = make([]float64, terms)
		for t := 0; t < terms; t++ {
			w[k][t] = components.At(k, t)
		}
	}
	return &matrixModel{weights: w}
}

// NewStaticModel builds a Model from explicit topic-term weights.
func NewStaticModel(weights [][]float64) Model {
	return &matrixModel{weights: weights}
}

func (m *matrixModel) NumTopics() int { return len(m.weights) }

func (m *matrixModel) TopTerms(topic, n int) []int {
	if topic < 0 || topic >= len(m.weights) || n <= 0 {
		return nil
	}
	row := m.weights[topic]
	ids := make([]int, len(row))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(i, j int) bool { return row[ids[i]] > row[ids[j]] })
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}

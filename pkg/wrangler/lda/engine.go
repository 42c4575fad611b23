package lda

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Model is a fitted topic model.
type Model interface {
	NumTopics() int
	// TopTerms returns up to n term ids of topic ordered by descending weight.
	TopTerms(topic, n int) []int
}

// Engine fits a topic model. Implementations must be safe for concurrent
// Fit calls; corpus and dict are shared read-only.
type Engine interface {
	Fit(ctx context.Context, corpus BowCorpus, dict *Dictionary, params Params, seed uint64) (Model, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, corpus BowCorpus, dict *Dictionary, params Params, seed uint64) (Model, error)

func (f EngineFunc) Fit(ctx context.Context, corpus BowCorpus, dict *Dictionary, params Params, seed uint64) (Model, error) {
	return f(ctx, corpus, dict, params, seed)
}

// NewSeed draws a fresh seed uniformly from [0, 2^32).
func NewSeed() uint64 {
	return uint64(rand.Uint32())
}

// Trainer validates parameters and runs an Engine with a fresh seed per call,
// so repeated runs on the same input may differ.
type Trainer struct {
	engine Engine
	logger *zap.Logger
	seed   func() uint64
}

// NewTrainer creates a trainer. A nil logger disables logging.
func NewTrainer(engine Engine, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{engine: engine, logger: logger, seed: NewSeed}
}

// Train fits one model.
func (t *Trainer) Train(ctx context.Context, corpus BowCorpus, dict *Dictionary, params Params) (Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if dict == nil || dict.Len() == 0 {
		return nil, internalerr.New(internalerr.ErrTraining, "train", "", errors.New("empty vocabulary"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := t.seed()
	t.logger.Debug("training topic model",
		zap.Int("topics", params.Topics),
		zap.Int("iterations", params.Iterations),
		zap.Int("passes", params.Passes),
		zap.Int("workers", params.Workers),
		zap.Uint64("seed", seed))

	model, err := t.engine.Fit(ctx, corpus, dict, params, seed)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, internalerr.ErrTraining) {
			return nil, err
		}
		return nil, internalerr.New(internalerr.ErrTraining, fmt.Sprintf("train %d topics", params.Topics), "", err)
	}
	return model, nil
}

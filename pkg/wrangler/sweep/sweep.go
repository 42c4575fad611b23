// Package sweep trains one topic model per candidate topic count and records
// the coherence of each, so the best count can be picked afterwards.
package sweep

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/internal/workpool"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/coherence"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
)

// StageSweep is the stage name reported to an Observer.
const StageSweep = "sweep"

// DefaultTermsPerTopic is how many top words are kept per topic in an Entry.
const DefaultTermsPerTopic = 10

// Observer receives progress from the goroutine running the sweep.
type Observer interface {
	OnProgress(stage string, current, total int)
}

// Range is an inclusive span of topic counts.
type Range struct {
	Min int
	Max int
}

// Validate requires 1 <= Min <= Max.
func (r Range) Validate() error {
	if r.Min < 1 || r.Max < r.Min {
		return internalerr.New(internalerr.ErrValidation, "sweep range", "",
			fmt.Errorf("need 1 <= min <= max, got %d..%d", r.Min, r.Max))
	}
	return nil
}

// Counts lists every topic count in the range, ascending.
func (r Range) Counts() []int {
	out := make([]int, 0, r.Max-r.Min+1)
	for k := r.Min; k <= r.Max; k++ {
		out = append(out, k)
	}
	return out
}

// Entry is the outcome for one topic count.
type Entry struct {
	Topics    int        `json:"topics"`
	Coherence float64    `json:"coherence"`
	Terms     [][]string `json:"terms,omitempty"`
}

// Result is one complete sweep.
type Result struct {
	RunID     ulid.ULID     `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Entries   []Entry       `json:"entries"`
}

// TopN returns up to n entries by descending coherence, fewer topics first on
// ties. Entries itself is left in topic order.
func (r Result) TopN(n int) []Entry {
	ranked := make([]Entry, len(r.Entries))
	copy(ranked, r.Entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Coherence != ranked[j].Coherence {
			return ranked[i].Coherence > ranked[j].Coherence
		}
		return ranked[i].Topics < ranked[j].Topics
	})
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Best returns the highest scoring entry.
func (r Result) Best() (Entry, bool) {
	top := r.TopN(1)
	if len(top) == 0 {
		return Entry{}, false
	}
	return top[0], true
}

// Options configures a Sweeper.
type Options struct {
	Trainer *lda.Trainer
	// Scorer defaults to NPMI over the top DefaultTopN terms.
	Scorer coherence.Scorer
	// Parallelism caps concurrent trainings. Zero derives it from GOMAXPROCS
	// and the engine's worker count.
	Parallelism   int
	TermsPerTopic int
	Logger        *zap.Logger
	Observer      Observer
}

// Sweeper runs topic-count sweeps.
type Sweeper struct {
	trainer     *lda.Trainer
	scorer      coherence.Scorer
	parallelism int
	terms       int
	logger      *zap.Logger
	observer    Observer

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a Sweeper.
func New(opts Options) *Sweeper {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = coherence.NPMI{TopN: coherence.DefaultTopN}
	}
	terms := opts.TermsPerTopic
	if terms <= 0 {
		terms = DefaultTermsPerTopic
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		trainer:     opts.Trainer,
		scorer:      scorer,
		parallelism: opts.Parallelism,
		terms:       terms,
		logger:      logger,
		observer:    opts.Observer,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
}

// Parallelism returns how many trainings run at once for the given engine
// worker count and number of topic counts, keeping the total goroutine
// fan-out within GOMAXPROCS.
func (s *Sweeper) Parallelism(workers, counts int) int {
	p := s.parallelism
	if p <= 0 {
		if workers < 1 {
			workers = 1
		}
		p = max(1, runtime.GOMAXPROCS(0)/workers)
	}
	return max(1, min(p, counts))
}

// Run trains and scores one model per topic count in rng. params supplies
// everything but the topic count. The first failure cancels the remaining
// trainings and no partial result is returned.
func (s *Sweeper) Run(ctx context.Context, corpus lda.BowCorpus, dict *lda.Dictionary, rng Range, params lda.Params) (Result, error) {
	if s.trainer == nil {
		return Result{}, internalerr.New(internalerr.ErrInvalidConfig, "sweep", "", errors.New("no trainer"))
	}
	if err := rng.Validate(); err != nil {
		return Result{}, err
	}
	params.Topics = rng.Min
	if err := params.Validate(); err != nil {
		return Result{}, err
	}

	counts := rng.Counts()
	parallel := s.Parallelism(params.Workers, len(counts))
	res := Result{RunID: s.newID(), StartedAt: time.Now()}

	s.logger.Info("starting topic sweep",
		zap.String("run_id", res.RunID.String()),
		zap.Int("min_topics", rng.Min),
		zap.Int("max_topics", rng.Max),
		zap.Int("parallelism", parallel),
		zap.Int("documents", len(corpus)),
		zap.Int("vocabulary", dict.Len()))

	entries := make([]Entry, 0, len(counts))
	err := workpool.Run(ctx, parallel, counts,
		func(ctx context.Context, _ int, k int) (Entry, error) {
			return s.evaluate(ctx, corpus, dict, params, k)
		},
		func(_ int, e Entry) {
			entries = append(entries, e)
			s.logger.Debug("topic count scored",
				zap.Int("topics", e.Topics),
				zap.Float64("coherence", e.Coherence))
			if s.observer != nil {
				s.observer.OnProgress(StageSweep, len(entries), len(counts))
			}
		})
	if err != nil {
		s.logger.Warn("topic sweep aborted", zap.String("run_id", res.RunID.String()), zap.Error(err))
		return Result{}, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Topics < entries[j].Topics })
	res.Entries = entries
	res.Duration = time.Since(res.StartedAt)

	s.logger.Info("topic sweep finished",
		zap.String("run_id", res.RunID.String()),
		zap.Int("entries", len(entries)),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (s *Sweeper) evaluate(ctx context.Context, corpus lda.BowCorpus, dict *lda.Dictionary, params lda.Params, topics int) (Entry, error) {
	params.Topics = topics
	model, err := s.trainer.Train(ctx, corpus, dict, params)
	if err != nil {
		return Entry{}, wrapFailure(topics, err)
	}
	score, err := s.scorer.Score(ctx, model, corpus, dict)
	if err != nil {
		return Entry{}, wrapFailure(topics, err)
	}
	return Entry{Topics: topics, Coherence: score, Terms: topTerms(model, dict, s.terms)}, nil
}

func wrapFailure(topics int, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return internalerr.New(internalerr.ErrTraining, fmt.Sprintf("sweep %d topics", topics), "", err)
}

func topTerms(model lda.Model, dict *lda.Dictionary, n int) [][]string {
	out := make([][]string, model.NumTopics())
	for t := range out {
		for _, id := range model.TopTerms(t, n) {
			out[t] = append(out[t], dict.Token(id))
		}
	}
	return out
}

func (s *Sweeper) newID() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy)
}

package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
)

func vocabulary() (*lda.Dictionary, lda.BowCorpus) {
	docs := [][]string{
		{"printer", "paper", "jam"},
		{"printer", "toner"},
		{"vpn", "network", "drop"},
		{"network", "wifi"},
	}
	dict := lda.NewDictionary(docs)
	corpus := make(lda.BowCorpus, len(docs))
	for i, d := range docs {
		corpus[i] = dict.Doc2Bow(d)
	}
	return dict, corpus
}

// uniformEngine returns a model with k identical topics ranking terms by id.
func uniformEngine(dict *lda.Dictionary) lda.Engine {
	return lda.EngineFunc(func(ctx context.Context, _ lda.BowCorpus, _ *lda.Dictionary, p lda.Params, _ uint64) (lda.Model, error) {
		weights := make([][]float64, p.Topics)
		for t := range weights {
			weights[t] = make([]float64, dict.Len())
			for i := range weights[t] {
				weights[t][i] = float64(dict.Len() - i)
			}
		}
		return lda.NewStaticModel(weights), nil
	})
}

// scoreByTopics scores a model from a table keyed by its topic count.
type scoreByTopics map[int]float64

func (s scoreByTopics) Score(_ context.Context, m lda.Model, _ lda.BowCorpus, _ *lda.Dictionary) (float64, error) {
	return s[m.NumTopics()], nil
}

func params() lda.Params {
	return lda.Params{Iterations: 10, Passes: 2, Workers: 1}
}

func TestRunReturnsOneEntryPerCountAscending(t *testing.T) {
	dict, corpus := vocabulary()
	s := New(Options{
		Trainer:     lda.NewTrainer(uniformEngine(dict), nil),
		Scorer:      scoreByTopics{1: 0.1, 2: 0.5, 3: 0.3, 4: 0.5, 5: -0.2},
		Parallelism: 3,
	})

	res, err := s.Run(context.Background(), corpus, dict, Range{Min: 1, Max: 5}, params())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(res.Entries))
	}
	for i, e := range res.Entries {
		if e.Topics != i+1 {
			t.Errorf("entry %d has %d topics", i, e.Topics)
		}
		if len(e.Terms) != e.Topics {
			t.Errorf("entry %d: expected terms for %d topics, got %d", i, e.Topics, len(e.Terms))
		}
	}
	if res.Entries[0].Terms[0][0] != "printer" {
		t.Errorf("top term = %q", res.Entries[0].Terms[0][0])
	}
	if res.RunID == (ulid.ULID{}) {
		t.Error("run id should be set")
	}
	if res.StartedAt.IsZero() || res.Duration < 0 {
		t.Errorf("timing not recorded: %v %v", res.StartedAt, res.Duration)
	}
}

func TestTopNOrdering(t *testing.T) {
	res := Result{Entries: []Entry{
		{Topics: 1, Coherence: 0.1},
		{Topics: 2, Coherence: 0.5},
		{Topics: 3, Coherence: 0.3},
		{Topics: 4, Coherence: 0.5},
		{Topics: 5, Coherence: -0.2},
	}}

	top := res.TopN(3)
	want := []int{2, 4, 3}
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	for i, e := range top {
		if e.Topics != want[i] {
			t.Errorf("rank %d: %d topics, want %d", i, e.Topics, want[i])
		}
	}
	if res.Entries[1].Topics != 2 || res.Entries[4].Topics != 5 {
		t.Error("TopN must not reorder Entries")
	}
	if len(res.TopN(10)) != 5 || len(res.TopN(-1)) != 0 {
		t.Error("TopN should clamp n")
	}

	best, ok := res.Best()
	if !ok || best.Topics != 2 {
		t.Errorf("Best = %+v %v", best, ok)
	}
	if _, ok := (Result{}).Best(); ok {
		t.Error("empty result has no best entry")
	}
}

func TestRunAbortsOnFailure(t *testing.T) {
	dict, corpus := vocabulary()
	var calls atomic.Int32
	engine := lda.EngineFunc(func(ctx context.Context, c lda.BowCorpus, d *lda.Dictionary, p lda.Params, seed uint64) (lda.Model, error) {
		calls.Add(1)
		if p.Topics == 3 {
			return nil, errors.New("engine exploded")
		}
		return uniformEngine(dict).Fit(ctx, c, d, p, seed)
	})
	s := New(Options{Trainer: lda.NewTrainer(engine, nil), Scorer: scoreByTopics{}, Parallelism: 1})

	res, err := s.Run(context.Background(), corpus, dict, Range{Min: 1, Max: 8}, params())
	if !errors.Is(err, internalerr.ErrTraining) {
		t.Fatalf("expected ErrTraining, got %v", err)
	}
	var ie *internalerr.Error
	if !errors.As(err, &ie) || ie.Op != "sweep 3 topics" {
		t.Errorf("error should name the failing count: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Error("no partial result expected")
	}
	if n := calls.Load(); n >= 8 {
		t.Errorf("later counts should not train after the failure, got %d calls", n)
	}
}

func TestRunValidates(t *testing.T) {
	dict, corpus := vocabulary()
	s := New(Options{Trainer: lda.NewTrainer(uniformEngine(dict), nil)})
	ctx := context.Background()

	if _, err := s.Run(ctx, corpus, dict, Range{Min: 0, Max: 3}, params()); !errors.Is(err, internalerr.ErrValidation) {
		t.Errorf("min 0: %v", err)
	}
	if _, err := s.Run(ctx, corpus, dict, Range{Min: 4, Max: 3}, params()); !errors.Is(err, internalerr.ErrValidation) {
		t.Errorf("max < min: %v", err)
	}
	p := params()
	p.Passes = 20
	if _, err := s.Run(ctx, corpus, dict, Range{Min: 1, Max: 3}, p); !errors.Is(err, internalerr.ErrValidation) {
		t.Errorf("passes 20: %v", err)
	}
	if _, err := New(Options{}).Run(ctx, corpus, dict, Range{Min: 1, Max: 1}, params()); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("no trainer: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	dict, corpus := vocabulary()
	engine := lda.EngineFunc(func(ctx context.Context, _ lda.BowCorpus, _ *lda.Dictionary, _ lda.Params, _ uint64) (lda.Model, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := New(Options{Trainer: lda.NewTrainer(engine, nil), Parallelism: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Run(ctx, corpus, dict, Range{Min: 1, Max: 4}, params())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestParallelismBounded(t *testing.T) {
	s := New(Options{})
	if got := s.Parallelism(1<<20, 10); got != 1 {
		t.Errorf("many engine workers should leave one training at a time, got %d", got)
	}
	if got := s.Parallelism(1, 1); got != 1 {
		t.Errorf("a single count needs one training, got %d", got)
	}
	s = New(Options{Parallelism: 8})
	if got := s.Parallelism(4, 3); got != 3 {
		t.Errorf("parallelism should be capped by counts, got %d", got)
	}
}

type progressCounter struct{ last, total int }

func (p *progressCounter) OnProgress(_ string, current, total int) {
	p.last, p.total = current, total
}

func TestRunReportsProgress(t *testing.T) {
	dict, corpus := vocabulary()
	obs := &progressCounter{}
	s := New(Options{Trainer: lda.NewTrainer(uniformEngine(dict), nil), Scorer: scoreByTopics{}, Observer: obs})
	if _, err := s.Run(context.Background(), corpus, dict, Range{Min: 2, Max: 4}, params()); err != nil {
		t.Fatal(err)
	}
	if obs.last != 3 || obs.total != 3 {
		t.Errorf("progress ended at %d/%d", obs.last, obs.total)
	}
}

package lda

import (
	"context"
	"errors"
	"testing"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

func smallVocabulary() (*Dictionary, BowCorpus) {
	return Prepare([][]string{
		{"vpn", "timeout", "tunnel"},
		{"printer", "jam", "toner"},
		{"vpn", "tunnel"},
		{"printer", "toner"},
	}, FilterOptions{NoBelow: 1, NoAbove: 1.0})
}

func TestNewSeedRange(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		s := NewSeed()
		if s >= 1<<32 {
			t.Fatalf("seed %d outside [0, 2^32)", s)
		}
		seen[s] = true
	}
	if len(seen) < 2 {
		t.Error("seeds should vary between calls")
	}
}

func TestTrainerPassesFreshSeeds(t *testing.T) {
	dict, corpus := smallVocabulary()
	var seeds []uint64
	engine := EngineFunc(func(_ context.Context, _ BowCorpus, _ *Dictionary, p Params, seed uint64) (Model, error) {
		seeds = append(seeds, seed)
		return NewStaticModel(make([][]float64, p.Topics)), nil
	})

	trainer := NewTrainer(engine, nil)
	next := uint64(0)
	trainer.seed = func() uint64 { next++; return next }

	for i := 0; i < 3; i++ {
		model, err := trainer.Train(context.Background(), corpus, dict, DefaultParams(2))
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		if model.NumTopics() != 2 {
			t.Errorf("expected 2 topics, got %d", model.NumTopics())
		}
	}
	if len(seeds) != 3 || seeds[0] == seeds[1] || seeds[1] == seeds[2] {
		t.Errorf("each call should get its own seed, got %v", seeds)
	}
}

func TestTrainerRejectsInvalidParams(t *testing.T) {
	dict, corpus := smallVocabulary()
	called := false
	engine := EngineFunc(func(context.Context, BowCorpus, *Dictionary, Params, uint64) (Model, error) {
		called = true
		return nil, nil
	})

	_, err := NewTrainer(engine, nil).Train(context.Background(), corpus, dict,
		Params{Topics: 2, Iterations: 200, Passes: 10, Workers: 1})
	if !errors.Is(err, internalerr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if called {
		t.Error("engine must not run with invalid params")
	}
}

func TestTrainerEmptyVocabulary(t *testing.T) {
	dict, corpus := Prepare([][]string{{"once"}}, DefaultFilterOptions())
	engine := EngineFunc(func(context.Context, BowCorpus, *Dictionary, Params, uint64) (Model, error) {
		t.Fatal("engine should not be called")
		return nil, nil
	})

	_, err := NewTrainer(engine, nil).Train(context.Background(), corpus, dict, DefaultParams(2))
	if !errors.Is(err, internalerr.ErrTraining) {
		t.Errorf("expected ErrTraining, got %v", err)
	}
}

func TestTrainerWrapsEngineErrors(t *testing.T) {
	dict, corpus := smallVocabulary()
	boom := errors.New("boom")
	engine := EngineFunc(func(context.Context, BowCorpus, *Dictionary, Params, uint64) (Model, error) {
		return nil, boom
	})

	_, err := NewTrainer(engine, nil).Train(context.Background(), corpus, dict, DefaultParams(3))
	if !errors.Is(err, internalerr.ErrTraining) || !errors.Is(err, boom) {
		t.Errorf("expected ErrTraining wrapping the cause, got %v", err)
	}
}

func TestTrainerCancelled(t *testing.T) {
	dict, corpus := smallVocabulary()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := EngineFunc(func(ctx context.Context, _ BowCorpus, _ *Dictionary, _ Params, _ uint64) (Model, error) {
		return nil, ctx.Err()
	})
	if _, err := NewTrainer(engine, nil).Train(ctx, corpus, dict, DefaultParams(2)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStaticModelTopTerms(t *testing.T) {
	m := NewStaticModel([][]float64{
		{0.1, 0.5, 0.2, 0.5},
		{0.9, 0.0, 0.0, 0.1},
	})

	got := m.TopTerms(0, 3)
	want := []int{1, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TopTerms(0, 3) = %v, want %v", got, want)
		}
	}
	if len(m.TopTerms(1, 10)) != 4 {
		t.Error("n larger than the vocabulary should return every term")
	}
	if m.TopTerms(5, 3) != nil || m.TopTerms(0, 0) != nil {
		t.Error("out of range requests should return nil")
	}
}

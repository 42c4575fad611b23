package coherence

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
)

// two clean themes: vpn/tunnel always together, printer/toner always together
func themedCorpus() (*lda.Dictionary, lda.BowCorpus) {
	return lda.Prepare([][]string{
		{"vpn", "tunnel"},
		{"printer", "toner"},
		{"vpn", "tunnel"},
		{"printer", "toner"},
	}, lda.FilterOptions{NoBelow: 1, NoAbove: 1.0})
}

func ids(t *testing.T, dict *lda.Dictionary, tokens ...string) []float64 {
	t.Helper()
	row := make([]float64, dict.Len())
	for i, tok := range tokens {
		id, ok := dict.ID(tok)
		if !ok {
			t.Fatalf("unknown token %q", tok)
		}
		row[id] = float64(len(tokens) - i)
	}
	return row
}

func TestNPMIRewardsCoherentTopics(t *testing.T) {
	dict, corpus := themedCorpus()

	good := lda.NewStaticModel([][]float64{
		ids(t, dict, "vpn", "tunnel"),
		ids(t, dict, "printer", "toner"),
	})
	bad := lda.NewStaticModel([][]float64{
		ids(t, dict, "vpn", "printer"),
		ids(t, dict, "tunnel", "toner"),
	})

	scorer := NPMI{TopN: 2}
	goodScore, err := scorer.Score(context.Background(), good, corpus, dict)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	badScore, err := scorer.Score(context.Background(), bad, corpus, dict)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if math.Abs(goodScore-1) > 1e-6 {
		t.Errorf("always co-occurring pairs should score 1, got %f", goodScore)
	}
	if math.Abs(badScore+1) > 1e-6 {
		t.Errorf("never co-occurring pairs should score -1, got %f", badScore)
	}
}

func TestNPMIRange(t *testing.T) {
	dict, corpus := lda.Prepare([][]string{
		{"vpn", "tunnel", "printer"},
		{"printer", "toner"},
		{"vpn", "toner", "tunnel"},
		{"printer"},
		{"lunch"},
	}, lda.FilterOptions{NoBelow: 1, NoAbove: 1.0})

	model := lda.NewStaticModel([][]float64{
		{5, 4, 3, 2, 1},
		{1, 2, 3, 4, 5},
		{0, 0, 0, 0, 0},
	})
	scores, err := NPMI{}.TopicScores(context.Background(), model, corpus, dict)
	if err != nil {
		t.Fatalf("TopicScores: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for k, s := range scores {
		if s < -1 || s > 1 || math.IsNaN(s) {
			t.Errorf("topic %d score %f outside [-1, 1]", k, s)
		}
	}
}

func TestNPMISingleTermTopic(t *testing.T) {
	dict, corpus := themedCorpus()
	model := lda.NewStaticModel([][]float64{{1}})

	score, err := NPMI{TopN: 5}.Score(context.Background(), model, corpus, dict)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0 {
		t.Errorf("a one-term topic should score 0, got %f", score)
	}
}

func TestNPMIErrors(t *testing.T) {
	dict, corpus := themedCorpus()

	if _, err := (NPMI{}).Score(context.Background(), lda.NewStaticModel(nil), corpus, dict); !errors.Is(err, internalerr.ErrTraining) {
		t.Errorf("model without topics: expected ErrTraining, got %v", err)
	}
	model := lda.NewStaticModel([][]float64{{1, 2}})
	if _, err := (NPMI{}).Score(context.Background(), model, nil, dict); !errors.Is(err, internalerr.ErrTraining) {
		t.Errorf("empty corpus: expected ErrTraining, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (NPMI{}).Score(ctx, model, corpus, dict); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

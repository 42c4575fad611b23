// Package wrangler is the entry point for front ends: a Session selects the
// exports, builds the corpus, prepares tokens and runs the topic sweep,
// reporting each outcome as a Status rather than a raw error.
package wrangler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/analytics"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/cleanse"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/coherence"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/config"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/corpus"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/sweep"
)

// StageTokenize is reported once the corpus has been tokenized.
const StageTokenize = "tokenize"

// Options configures a Session.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Components are built from Config.NLP when nil.
	Components *config.Components
	// Engine defaults to the LDA engine.
	Engine lda.Engine
	// Scorer defaults to NPMI over Config.Sweep.CoherenceTopN terms.
	Scorer   coherence.Scorer
	Logger   *zap.Logger
	Observer Observer
	Now      func() time.Time
}

// Session holds the state of one front end. It is driven from a single
// goroutine.
type Session struct {
	cfg      *config.Config
	comps    *config.Components
	cleanser *cleanse.Cleanser
	format   corpus.Format
	sweeper  *sweep.Sweeper
	logger   *zap.Logger
	observer Observer
	now      func() time.Time

	ticketFile  string
	commentsDir string

	tickets   int
	corpus    *corpus.Corpus
	snapshots corpus.SnapshotPaths
	profile   *analytics.Report
	dict      *lda.Dictionary
	bow       lda.BowCorpus
	result    *sweep.Result
}

// New validates the configuration and builds a Session.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	comps := opts.Components
	if comps == nil {
		var err error
		comps, err = config.NewLoader(cfg.NLP, logger).Load()
		if err != nil {
			return nil, err
		}
	}

	cleanseOpts, err := cfg.CleanseOptions()
	if err != nil {
		return nil, err
	}
	format, err := corpus.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	engine := opts.Engine
	if engine == nil {
		engine = lda.NLPEngine{}
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = coherence.NPMI{TopN: cfg.Sweep.CoherenceTopN}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		cfg:      cfg,
		comps:    comps,
		cleanser: cleanse.New(cleanseOpts),
		format:   format,
		sweeper: sweep.New(sweep.Options{
			Trainer:       lda.NewTrainer(engine, logger),
			Scorer:        scorer,
			Parallelism:   cfg.Sweep.Parallelism,
			TermsPerTopic: cfg.Sweep.TermsPerTopic,
			Logger:        logger,
			Observer:      observer,
		}),
		logger:      logger,
		observer:    observer,
		now:         now,
		ticketFile:  cfg.Input.TicketFile,
		commentsDir: cfg.Input.CommentsDir,
	}, nil
}

// SelectTicketFile chooses the ticket export.
func (s *Session) SelectTicketFile(path string) Status {
	info, err := os.Stat(path)
	if err != nil {
		return s.fail(internalerr.New(internalerr.ErrFileNotFound, "select ticket file", path, err))
	}
	if info.IsDir() {
		return s.fail(internalerr.New(internalerr.ErrInvalidInput, "select ticket file", path, errors.New("is a directory")))
	}
	s.ticketFile = path
	s.clear()
	return s.ok(fmt.Sprintf("Ticket file selected: %s", path))
}

// SelectCommentsDir chooses the directory of per-ticket comment files.
func (s *Session) SelectCommentsDir(path string) Status {
	info, err := os.Stat(path)
	if err != nil {
		return s.fail(internalerr.New(internalerr.ErrFileNotFound, "select comments directory", path, err))
	}
	if !info.IsDir() {
		return s.fail(internalerr.New(internalerr.ErrInvalidInput, "select comments directory", path, errors.New("not a directory")))
	}
	s.commentsDir = path
	s.clear()
	return s.ok(fmt.Sprintf("Comments directory selected: %s", path))
}

// RunPipeline builds the corpus, tokenizes it and sweeps the configured
// topic counts.
func (s *Session) RunPipeline(ctx context.Context) Status {
	if s.ticketFile == "" {
		return s.fail(internalerr.New(internalerr.ErrStageOrder, "run pipeline", "", errors.New("no ticket file selected")))
	}
	if s.commentsDir == "" {
		return s.fail(internalerr.New(internalerr.ErrStageOrder, "run pipeline", "", errors.New("no comments directory selected")))
	}
	s.clear()

	builder := corpus.NewBuilder(corpus.Options{
		TicketFile:  s.ticketFile,
		CommentsDir: s.commentsDir,
		OutputDir:   s.cfg.Output.Dir,
		Cleanser:    s.cleanser,
		Fields:      corpus.FieldMap{TypeID: s.cfg.Input.TypeFieldID, OutcomeID: s.cfg.Input.OutcomeFieldID},
		Workers:     s.cfg.Input.Workers,
		Format:      s.format,
		Now:         s.now,
		Logger:      s.logger,
		Observer:    s.observer,
	})
	c, err := builder.Build(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.tickets = builder.Store().Len()
	s.corpus = c
	s.snapshots = builder.Snapshots()
	s.status(fmt.Sprintf("Corpus built: %d tickets, %d documents", s.tickets, c.Len()))

	tokens, err := s.comps.Pipeline.ProcessAll(ctx, c.Documents)
	if err != nil {
		return s.fail(err)
	}
	profile := analytics.Profile(tokens)
	s.profile = &profile
	s.dict, s.bow = lda.Prepare(tokens, s.cfg.FilterOptions())
	s.observer.OnProgress(StageTokenize, len(tokens), len(tokens))
	s.status(fmt.Sprintf("Vocabulary prepared: %d terms", s.dict.Len()))

	return s.runSweep(ctx, s.cfg.Range(), s.cfg.Params(s.cfg.Sweep.MinTopics))
}

// Train re-runs the sweep on the prepared corpus with the requested
// settings, from the configured minimum up to req.Topics.
func (s *Session) Train(ctx context.Context, req TrainRequest) Status {
	if s.dict == nil {
		return s.fail(internalerr.New(internalerr.ErrStageOrder, "train", "", errors.New("run the pipeline first")))
	}
	params := s.cfg.Params(s.cfg.Sweep.MinTopics)
	params.Iterations = req.Iterations
	params.Passes = req.Passes
	if req.Workers > 0 {
		params.Workers = req.Workers
	}
	s.result = nil
	return s.runSweep(ctx, sweep.Range{Min: min(s.cfg.Sweep.MinTopics, req.Topics), Max: req.Topics}, params)
}

func (s *Session) runSweep(ctx context.Context, rng sweep.Range, params lda.Params) Status {
	res, err := s.sweeper.Run(ctx, s.bow, s.dict, rng, params)
	if err != nil {
		return s.fail(err)
	}
	s.result = &res

	best, _ := res.Best()
	return s.ok(fmt.Sprintf("Sweep finished: %d topic counts, best %d (coherence %.4f)",
		len(res.Entries), best.Topics, best.Coherence))
}

// SweepResults returns the last completed sweep.
func (s *Session) SweepResults() (sweep.Result, bool) {
	if s.result == nil {
		return sweep.Result{}, false
	}
	return *s.result, true
}

// TopTopics returns the n best topic counts of the last sweep.
func (s *Session) TopTopics(n int) []sweep.Entry {
	if s.result == nil {
		return nil
	}
	return s.result.TopN(n)
}

// Corpus returns the last assembled corpus, or nil.
func (s *Session) Corpus() *corpus.Corpus { return s.corpus }

// Snapshots returns the files written by the last pipeline run.
func (s *Session) Snapshots() corpus.SnapshotPaths { return s.snapshots }

// Tickets returns how many tickets the last pipeline run kept.
func (s *Session) Tickets() int { return s.tickets }

// Profile returns term statistics of the last tokenized corpus, taken
// before pruning, or nil.
func (s *Session) Profile() *analytics.Report { return s.profile }

// Suggestions returns the stoplist and phrase candidates of the last
// tokenized corpus under the configured thresholds.
func (s *Session) Suggestions(phrases int) ([]analytics.TermStat, []analytics.PairStat) {
	if s.profile == nil {
		return nil, nil
	}
	th := s.cfg.Thresholds()
	return s.profile.StopwordCandidates(th), s.profile.Phrases(th, phrases)
}

// Vocabulary returns the pruned dictionary of the last pipeline run, or nil.
func (s *Session) Vocabulary() *lda.Dictionary { return s.dict }

func (s *Session) clear() {
	s.tickets = 0
	s.corpus = nil
	s.snapshots = corpus.SnapshotPaths{}
	s.profile = nil
	s.dict = nil
	s.bow = nil
	s.result = nil
}

func (s *Session) ok(msg string) Status {
	s.status(msg)
	return Status{OK: true, Message: msg}
}

func (s *Session) fail(err error) Status {
	msg := Describe(err)
	s.logger.Error("operation failed", zap.Error(err))
	s.status(msg)
	return Status{OK: false, Message: msg}
}

func (s *Session) status(msg string) {
	s.observer.OnStatus(msg)
}

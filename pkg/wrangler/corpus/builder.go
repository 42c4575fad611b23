package corpus

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/internal/records"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/internal/workpool"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/cleanse"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ticket"
)

// Stage names reported to an Observer.
const (
	StageReshape  = "reshape"
	StageBind     = "bind"
	StageAssemble = "assemble"
)

// Observer receives progress from the goroutine driving the build.
type Observer interface {
	OnProgress(stage string, current, total int)
}

// Options configures a Builder.
type Options struct {
	TicketFile  string
	CommentsDir string
	OutputDir   string

	// Cleanser defaults to dropping URLs along with other identifiers.
	Cleanser *cleanse.Cleanser
	Fields   FieldMap
	// Workers bounds concurrent comment parsing. Zero means GOMAXPROCS.
	Workers int
	Format  Format

	Now      func() time.Time
	Logger   *zap.Logger
	Observer Observer
}

// Builder runs the three corpus stages against one ticket store. Stages
// must run in order but each may be repeated. A Builder is driven from one
// goroutine.
type Builder struct {
	opts   Options
	store  *ticket.Store
	corpus *Corpus
	paths  SnapshotPaths
	done   int // last completed stage, 0 for none
	logger *zap.Logger
}

// NewBuilder creates a builder.
func NewBuilder(opts Options) *Builder {
	if opts.Cleanser == nil {
		opts.Cleanser = cleanse.New(cleanse.Options{})
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, store: ticket.NewStore(), logger: logger}
}

// Store returns the tickets built so far.
func (b *Builder) Store() *ticket.Store { return b.store }

// Corpus returns the last assembled corpus, or nil.
func (b *Builder) Corpus() *Corpus { return b.corpus }

// Snapshots returns the files written by the last Assemble.
func (b *Builder) Snapshots() SnapshotPaths { return b.paths }

// Build runs every stage and returns the assembled corpus.
func (b *Builder) Build(ctx context.Context) (*Corpus, error) {
	if err := b.ReshapeTickets(ctx); err != nil {
		return nil, err
	}
	if err := b.BindComments(ctx); err != nil {
		return nil, err
	}
	return b.Assemble(ctx)
}

// ReshapeTickets loads the ticket export into a fresh store. Records that
// fail to reshape are logged and skipped; only a missing or unreadable file
// fails the stage.
func (b *Builder) ReshapeTickets(ctx context.Context) error {
	recs, err := records.Load(b.opts.TicketFile, b.logger)
	if err != nil {
		return err
	}

	b.store.Reset()
	b.corpus = nil
	b.done = 0

	skipped := 0
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.progress(StageReshape, i+1, len(recs))
		t, err := reshapeTicket(rec.Raw, b.opts.Fields)
		if err != nil {
			skipped++
			b.logger.Warn("skipping ticket record",
				zap.String("file", b.opts.TicketFile),
				zap.Int("line", rec.Line),
				zap.Error(err))
			continue
		}
		if !b.store.Append(t) {
			b.logger.Warn("duplicate ticket id, keeping both records",
				zap.Int64("ticket_id", t.ID),
				zap.Int("line", rec.Line))
		}
	}

	b.done = 1
	b.logger.Info("tickets reshaped",
		zap.Int("tickets", b.store.Len()),
		zap.Int("skipped", skipped))
	return nil
}

// BindComments attaches each ticket's comment files. Files are parsed
// concurrently, one unit per ticket; results are attached here in ticket
// order. Re-binding replaces comments from an earlier pass.
func (b *Builder) BindComments(ctx context.Context) error {
	if b.done < 1 {
		return internalerr.New(internalerr.ErrStageOrder, "bind comments", "", errors.New("tickets not reshaped"))
	}

	idx, ignored, err := indexComments(b.opts.CommentsDir)
	if err != nil {
		return err
	}
	for _, path := range ignored {
		b.logger.Debug("ignoring comment file without a ticket id", zap.String("file", path))
	}

	tickets := b.store.All()
	results := make([]boundComments, len(tickets))
	completed := 0
	err = workpool.Run(ctx, b.opts.Workers, tickets,
		func(_ context.Context, _ int, t *ticket.Ticket) (boundComments, error) {
			return readComments(t.ID, idx[t.ID], b.opts.Cleanser), nil
		},
		func(i int, bc boundComments) {
			results[i] = bc
			completed++
			b.progress(StageBind, completed, len(tickets))
		})
	if err != nil {
		return err
	}

	bound := 0
	for i, t := range tickets {
		if dropped := t.ResetComments(); dropped > 0 {
			b.logger.Warn("ticket already bound, clearing and re-binding",
				zap.Int64("ticket_id", t.ID),
				zap.Int("dropped", dropped))
		}
		bc := results[i]
		b.report(t.ID, bc)
		t.AddComments(bc.Comments...)
		bound += len(bc.Comments)
	}

	b.corpus = nil
	b.done = 2
	b.logger.Info("comments bound",
		zap.Int("tickets", len(tickets)),
		zap.Int("comments", bound))
	return nil
}

func (b *Builder) report(id int64, bc boundComments) {
	if bc.Files == 0 && len(bc.Problems) == 0 {
		b.logger.Info("no comment file for ticket", zap.Int64("ticket_id", id))
	}
	for _, key := range bc.Foreign {
		b.logger.Debug("ignoring comments keyed to another ticket",
			zap.Int64("ticket_id", id), zap.String("key", key))
	}
	for _, p := range bc.Problems {
		fields := []zap.Field{zap.Int64("ticket_id", id), zap.String("file", p.File), zap.Error(p.Err)}
		if p.Index >= 0 {
			b.logger.Warn("skipping comment record", append(fields, zap.Int("record", p.Index))...)
		} else {
			b.logger.Warn("skipping comment file", fields...)
		}
	}
}

// Assemble collects every comment body, in ticket then comment order, into
// the corpus and writes the dated ticket and corpus snapshots.
func (b *Builder) Assemble(ctx context.Context) (*Corpus, error) {
	if b.done < 2 {
		return nil, internalerr.New(internalerr.ErrStageOrder, "assemble corpus", "", errors.New("comments not bound"))
	}

	c := &Corpus{}
	tickets := b.store.All()
	for i, t := range tickets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := range t.Comments {
			cm := &t.Comments[j]
			if !cm.Cleansed {
				cm.Body = b.opts.Cleanser.Cleanse(cm.Body)
				cm.Cleansed = true
			}
			if cm.Body != "" {
				c.Documents = append(c.Documents, cm.Body)
			}
		}
		b.progress(StageAssemble, i+1, len(tickets))
	}

	paths, err := writeSnapshots(b.opts.OutputDir, b.opts.Now(), tickets, c, b.opts.Format)
	if err != nil {
		return nil, err
	}

	b.corpus = c
	b.paths = paths
	b.done = 3
	b.logger.Info("corpus assembled",
		zap.Int("documents", c.Len()),
		zap.String("tickets_file", paths.Tickets),
		zap.String("corpus_file", paths.Corpus))
	return c, nil
}

func (b *Builder) progress(stage string, current, total int) {
	if b.opts.Observer != nil {
		b.opts.Observer.OnProgress(stage, current, total)
	}
}

// Command wrangler builds a cleansed corpus from a ticket export and its
// comment files, then sweeps LDA topic counts and prints the most coherent.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/internal/observability"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/analytics"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/config"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	tickets    string
	comments   string
	output     string
	topicsMin  int
	topicsMax  int
	iterations int
	passes     int
	workers    int
	top        int
	phrases    int
	json       bool
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("wrangler", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.tickets, "tickets", "", "Ticket export (JSON array or JSON lines)")
	fs.StringVar(&o.comments, "comments", "", "Directory of per-ticket comment files")
	fs.StringVar(&o.output, "output", "", "Directory for the dated snapshots")
	fs.IntVar(&o.topicsMin, "topics-min", 0, "Smallest topic count to try")
	fs.IntVar(&o.topicsMax, "topics-max", 0, "Largest topic count to try")
	fs.IntVar(&o.iterations, "iterations", 0, "Inference iterations per document (below 200)")
	fs.IntVar(&o.passes, "passes", 0, "Passes over the corpus (below 20)")
	fs.IntVar(&o.workers, "workers", 0, "Goroutines per model")
	fs.IntVar(&o.top, "top", 5, "How many topic counts to print")
	fs.IntVar(&o.phrases, "phrases", 10, "How many phrase candidates to suggest")
	fs.BoolVar(&o.json, "json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// apply overrides config values with flags the user actually passed.
func (o options) apply(cfg *config.Config, set map[string]bool) {
	if set["tickets"] {
		cfg.Input.TicketFile = o.tickets
	}
	if set["comments"] {
		cfg.Input.CommentsDir = o.comments
	}
	if set["output"] {
		cfg.Output.Dir = o.output
	}
	if set["topics-min"] {
		cfg.Sweep.MinTopics = o.topicsMin
	}
	if set["topics-max"] {
		cfg.Sweep.MaxTopics = o.topicsMax
	}
	if set["iterations"] {
		cfg.Training.Iterations = o.iterations
	}
	if set["passes"] {
		cfg.Training.Passes = o.passes
	}
	if set["workers"] {
		cfg.Training.Workers = o.workers
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(stderr, wrangler.Describe(err))
		return 1
	}
	opts.apply(cfg, set)
	if cfg.Input.TicketFile == "" || cfg.Input.CommentsDir == "" {
		fmt.Fprintln(stderr, "both -tickets and -comments are required (or input.ticket_file and input.comments_dir)")
		return 2
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	session, err := wrangler.New(wrangler.Options{
		Config:   cfg,
		Logger:   logger,
		Observer: wrangler.LogObserver{Logger: logger},
	})
	if err != nil {
		fmt.Fprintln(stderr, wrangler.Describe(err))
		return 1
	}

	start := time.Now()
	for _, st := range []wrangler.Status{
		session.SelectTicketFile(cfg.Input.TicketFile),
		session.SelectCommentsDir(cfg.Input.CommentsDir),
	} {
		if !st.OK {
			fmt.Fprintln(stderr, st.Message)
			return 1
		}
	}
	if st := session.RunPipeline(ctx); !st.OK {
		fmt.Fprintln(stderr, st.Message)
		return 1
	}

	res, _ := session.SweepResults()
	logger.Info("run complete", zap.Duration("elapsed", time.Since(start)))

	if opts.json {
		err = printJSON(stdout, session, res, opts)
	} else {
		err = printText(stdout, session, res, opts, start)
	}
	if err != nil {
		fmt.Fprintf(stderr, "write result: %v\n", err)
		return 1
	}
	return 0
}

type report struct {
	RunID      string               `json:"run_id"`
	Tickets    int                  `json:"tickets"`
	Documents  int                  `json:"documents"`
	Vocabulary int                  `json:"vocabulary"`
	Duration   string               `json:"duration"`
	Entries    []sweep.Entry        `json:"entries"`
	Top        []sweep.Entry        `json:"top"`
	Stopwords  []analytics.TermStat `json:"stoplist_candidates"`
	Phrases    []analytics.PairStat `json:"phrase_candidates"`
}

func printJSON(w io.Writer, s *wrangler.Session, res sweep.Result, o options) error {
	stops, phrases := s.Suggestions(o.phrases)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		RunID:      res.RunID.String(),
		Tickets:    s.Tickets(),
		Documents:  s.Corpus().Len(),
		Vocabulary: s.Vocabulary().Len(),
		Duration:   res.Duration.String(),
		Entries:    res.Entries,
		Top:        s.TopTopics(o.top),
		Stopwords:  stops,
		Phrases:    phrases,
	})
}

func printText(w io.Writer, s *wrangler.Session, res sweep.Result, o options, start time.Time) error {
	snap := s.Snapshots()
	size := "unknown size"
	if info, err := os.Stat(snap.Corpus); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}

	fmt.Fprintf(w, "Run %s started %s\n", res.RunID, humanize.Time(start))
	fmt.Fprintf(w, "Corpus: %s tickets, %s documents, %s terms kept (%s, %s)\n",
		humanize.Comma(int64(s.Tickets())),
		humanize.Comma(int64(s.Corpus().Len())),
		humanize.Comma(int64(s.Vocabulary().Len())),
		filepath.Base(snap.Corpus), size)
	fmt.Fprintf(w, "Swept %d topic counts in %s\n\n", len(res.Entries), res.Duration.Round(time.Millisecond))

	for i, e := range s.TopTopics(o.top) {
		fmt.Fprintf(w, "%s  %2d topics  coherence %.4f\n", humanize.Ordinal(i+1), e.Topics, e.Coherence)
		for t, terms := range e.Terms {
			if len(terms) == 0 {
				continue
			}
			fmt.Fprintf(w, "      topic %d: %v\n", t+1, terms)
		}
	}

	stops, phrases := s.Suggestions(o.phrases)
	if len(stops) > 0 {
		fmt.Fprintln(w, "\nStoplist candidates:")
		for _, t := range stops {
			fmt.Fprintf(w, "  %-20s in %.0f%% of documents\n", t.Term, t.DFPercent)
		}
	}
	if len(phrases) > 0 {
		fmt.Fprintln(w, "\nPhrase candidates:")
		for _, p := range phrases {
			fmt.Fprintf(w, "  %s %s (%s times)\n", p.First, p.Second, humanize.Comma(p.Adjacent))
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

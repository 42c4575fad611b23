package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ingest"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lexicon"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/stoplist"
)

// Loader loads the NLP word lists and constructs the token pipeline.
// Empty paths fall back to the built-in lists.
type Loader struct {
	StoplistPath string
	DictPath     string
	LexiconPath  string
	ExcludePOS   []string
	AlphaOnly    bool
	Stem         bool
	Logger       *zap.Logger
}

// NewLoader creates a loader from the nlp section.
func NewLoader(cfg NLPConfig, logger *zap.Logger) *Loader {
	return &Loader{
		StoplistPath: cfg.StoplistPath,
		DictPath:     cfg.DictPath,
		LexiconPath:  cfg.LexiconPath,
		ExcludePOS:   cfg.ExcludePOS,
		AlphaOnly:    cfg.AlphaOnly,
		Stem:         cfg.Stem,
		Logger:       logger,
	}
}

// Components holds all loaded configuration components
type Components struct {
	Stoplist   *stoplist.Manager
	Lexicon    *lexicon.Lexicon
	Tokenizer  *ingest.Tokenizer
	Parser     *ingest.MultiTokenParser
	Lemmatizer *ingest.Lemmatizer
	Pipeline   *ingest.Pipeline
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	comp := &Components{}

	comp.Stoplist = stoplist.NewEnglish()
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist.AddAll(sl.Terms, stoplist.SourceFile)
	}
	comp.Tokenizer = ingest.NewTokenizer(comp.Stoplist.All())

	var entries []ingest.DictEntry
	if l.DictPath != "" {
		dict, err := LoadDict(l.DictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		entries = make([]ingest.DictEntry, len(dict.Entries))
		for i, e := range dict.Entries {
			entries[i] = ingest.DictEntry{
				Canonical: e.Canonical,
				Variants:  e.Variants,
				Category:  e.Category,
			}
		}
	}
	comp.Parser = ingest.NewMultiTokenParser(entries)

	comp.Lexicon = lexicon.English()
	if l.LexiconPath != "" {
		extra, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon.Merge(extra)
	}
	comp.Lemmatizer = ingest.NewLemmatizer(comp.Lexicon, l.Stem)

	exclude, err := ingest.ParsePOSList(l.ExcludePOS)
	if err != nil {
		return nil, err
	}
	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer, comp.Parser, ingest.Options{
		ExcludePOS: exclude,
		AlphaOnly:  l.AlphaOnly,
		Lemmatizer: comp.Lemmatizer,
		Logger:     logger,
	})

	stats := comp.Lexicon.Stats()
	logger.Debug("nlp components loaded",
		zap.Int("stopwords", comp.Stoplist.Len()),
		zap.Int("phrases", comp.Parser.Len()),
		zap.Int("lemmas", stats.Lemmas),
		zap.Int("forms", stats.Forms))
	return comp, nil
}

package ingest

import (
	"context"
	"fmt"
	"unicode"

	"go.uber.org/zap"
)

// Options configures the filters applied after tokenization.
type Options struct {
	// ExcludePOS lists tags whose words are dropped. Nil drops nothing.
	ExcludePOS []POS
	// AlphaOnly drops tokens containing anything but letters and hyphens.
	AlphaOnly bool
	// Lemmatizer reduces surviving tokens to base forms. Nil keeps them as is.
	Lemmatizer *Lemmatizer
	Logger     *zap.Logger
}

// DefaultOptions mirrors the usual topic-modeling preparation: alphabetic
// tokens only, function words and numbers removed, English stemming.
func DefaultOptions() Options {
	return Options{
		ExcludePOS: DefaultExcludePOS,
		AlphaOnly:  true,
		Lemmatizer: NewLemmatizer(nil, true),
	}
}

// Pipeline orchestrates the full ingestion flow:
// text → tokenization → multi-token recognition → POS/alpha filters → lemmas
//
// A Pipeline is read-only once built and safe for concurrent Process calls.
type Pipeline struct {
	tokenizer  *Tokenizer
	parser     *MultiTokenParser
	exclude    map[POS]struct{}
	alphaOnly  bool
	lemmatizer *Lemmatizer
	logger     *zap.Logger
}

// NewPipeline creates an ingestion pipeline with the given components.
// parser may be nil.
func NewPipeline(tokenizer *Tokenizer, parser *MultiTokenParser, opts Options) *Pipeline {
	exclude := make(map[POS]struct{}, len(opts.ExcludePOS))
	for _, tag := range opts.ExcludePOS {
		exclude[tag] = struct{}{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		tokenizer:  tokenizer,
		parser:     parser,
		exclude:    exclude,
		alphaOnly:  opts.AlphaOnly,
		lemmatizer: opts.Lemmatizer,
		logger:     logger,
	}
}

// Process runs one document through the pipeline and returns its tokens.
func (p *Pipeline) Process(text string) []string {
	tokens := p.tokenizer.Tokenize(text)
	tokens = p.parser.Parse(tokens)

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsPhrase(tok) {
			out = append(out, tok)
			continue
		}
		if p.alphaOnly && !isAlpha(tok) {
			continue
		}
		if p.excluded(tok) {
			continue
		}
		lemma := p.lemmatizer.Lemma(tok)
		if len([]rune(lemma)) <= 1 || p.tokenizer.IsStopword(lemma) {
			continue
		}
		out = append(out, lemma)
	}
	return out
}

// ProcessAll tokenizes every document in order. The context is checked
// between documents.
func (p *Pipeline) ProcessAll(ctx context.Context, docs []string) ([][]string, error) {
	out := make([][]string, len(docs))
	total := 0
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("tokenize document %d: %w", i, err)
		}
		out[i] = p.Process(doc)
		total += len(out[i])
	}
	p.logger.Debug("tokenized corpus",
		zap.Int("documents", len(docs)),
		zap.Int("tokens", total))
	return out, nil
}

func (p *Pipeline) excluded(tok string) bool {
	if len(p.exclude) == 0 {
		return false
	}
	for _, tag := range Tags(tok) {
		if _, ok := p.exclude[tag]; ok {
			return true
		}
	}
	return false
}

func isAlpha(tok string) bool {
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

package ingest

import (
	"strings"

	"github.com/kljensen/snowball/english"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lexicon"
)

// Lemmatizer reduces a word to its base form. Lexicon entries win; other
// words fall back to the Snowball English stemmer when stemming is enabled.
type Lemmatizer struct {
	lex  *lexicon.Lexicon
	stem bool
}

// NewLemmatizer creates a lemmatizer. lex may be nil.
func NewLemmatizer(lex *lexicon.Lexicon, stem bool) *Lemmatizer {
	return &Lemmatizer{lex: lex, stem: stem}
}

// Lemma returns the base form of word. Phrase and hyphenated tokens are
// returned unchanged.
func (l *Lemmatizer) Lemma(word string) string {
	if l == nil {
		return word
	}
	if l.lex != nil {
		if lemma, ok := l.lex.Lemma(word); ok {
			return lemma
		}
	}
	if !l.stem || IsPhrase(word) || strings.Contains(word, "-") {
		return word
	}
	return english.Stem(word, false)
}


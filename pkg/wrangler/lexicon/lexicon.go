package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Lexicon maps inflected forms to their lemma:
//   - Irregular inflections the stemmer cannot reach (went → go, broken → break)
//   - Domain vocabulary that should collapse to one term (logins → login)
//
// Lookups are case-insensitive. A form belongs to exactly one lemma; adding a
// group for an existing lemma replaces its forms.
type Lexicon struct {
	// lemma -> all forms (lemma first)
	// Example: "break" -> ["break", "broke", "broken"]
	groups map[string][]string

	// form -> lemma
	// Example: "broke" -> "break"
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// English returns a lexicon seeded with common irregular English forms.
func English() *Lexicon {
	lex := New()
	for _, g := range irregular {
		lex.AddGroup(g[0], g[1:])
	}
	return lex
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: login
//	    forms: [logins, logon, logons]
//	  - lemma: reset
//	    forms: [resets, resetting, reseted]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internalerr.New(internalerr.ErrFileNotFound, "load lexicon", path, err)
		}
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}

	var file struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, internalerr.New(internalerr.ErrParse, "load lexicon", path, err)
	}

	lex := New()
	for _, entry := range file.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			continue
		}
		lex.AddGroup(entry.Lemma, entry.Forms)
	}
	return lex, nil
}

// Merge copies every group of other into l. Groups in other win on conflict.
func (l *Lexicon) Merge(other *Lexicon) {
	if other == nil {
		return
	}
	for lemma, forms := range other.groups {
		l.AddGroup(lemma, forms)
	}
}

// AddGroup registers forms for a lemma. The lemma is always its own first form.
// If the lemma already exists, its old reverse index entries are removed first.
func (l *Lexicon) AddGroup(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))

	if old, exists := l.groups[lemma]; exists {
		for _, f := range old {
			if l.reverseIndex[f] == lemma {
				delete(l.reverseIndex, f)
			}
		}
	}

	normalized := make([]string, 0, len(forms)+1)
	seen := map[string]bool{lemma: true}
	normalized = append(normalized, lemma)
	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		normalized = append(normalized, f)
	}

	l.groups[lemma] = normalized
	for _, f := range normalized {
		l.reverseIndex[f] = lemma
	}
}

// Lemma returns the lemma of a form and whether the lexicon knew it.
func (l *Lexicon) Lemma(form string) (string, bool) {
	form = strings.ToLower(form)
	lemma, ok := l.reverseIndex[form]
	if !ok {
		return form, false
	}
	return lemma, true
}

// Normalize returns the lemma of a form, or the lowercased form itself.
func (l *Lexicon) Normalize(form string) string {
	lemma, _ := l.Lemma(form)
	return lemma
}

// Forms returns every form sharing a lemma with the given word.
// Unknown words return a slice holding only the word.
func (l *Lexicon) Forms(word string) []string {
	lemma := l.Normalize(word)
	if forms, ok := l.groups[lemma]; ok {
		return forms
	}
	return []string{lemma}
}

// Lemmas returns all lemmas in sorted order.
func (l *Lexicon) Lemmas() []string {
	out := make([]string, 0, len(l.groups))
	for lemma := range l.groups {
		out = append(out, lemma)
	}
	sort.Strings(out)
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	total := 0
	for _, forms := range l.groups {
		total += len(forms)
	}
	return Stats{Lemmas: len(l.groups), Forms: total}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Lemmas int // number of lemma groups
	Forms  int // total forms across all groups, lemmas included
}

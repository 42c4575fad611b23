// Package corpus turns a ticket export and its comment files into a cleansed
// text corpus, persisting both alongside each other as dated JSON snapshots.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Format selects how the corpus snapshot is serialised.
type Format int

const (
	// FormatText writes the corpus as one JSON string.
	FormatText Format = iota
	// FormatTokens writes the corpus as a JSON array of words.
	FormatTokens
)

// ParseFormat maps "text" or "tokens" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "tokens":
		return FormatTokens, nil
	}
	return 0, fmt.Errorf("%w: corpus format %q", internalerr.ErrInvalidConfig, s)
}

func (f Format) String() string {
	if f == FormatTokens {
		return "tokens"
	}
	return "text"
}

// Corpus holds one cleansed document per comment, ordered by ticket and then
// by comment.
type Corpus struct {
	Documents []string
}

// Text joins every document with a single space.
func (c *Corpus) Text() string {
	return strings.Join(c.Documents, " ")
}

// Tokens returns every word of every document in order.
func (c *Corpus) Tokens() []string {
	var out []string
	for _, doc := range c.Documents {
		out = append(out, strings.Fields(doc)...)
	}
	return out
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.Documents) }

func (c *Corpus) encode(f Format) ([]byte, error) {
	var v any = c.Text()
	if f == FormatTokens {
		tokens := c.Tokens()
		if tokens == nil {
			tokens = []string{}
		}
		v = tokens
	}
	return encodeJSON(v, false)
}

// encodeJSON renders v with HTML characters left as is and a trailing newline.
func encodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

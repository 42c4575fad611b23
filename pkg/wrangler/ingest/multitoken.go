package ingest

import "strings"

// PhraseSeparator joins the words of a recognised phrase into one token, so
// "password reset" becomes "password_reset".
const PhraseSeparator = "_"

// MultiTokenParser merges known multi-word phrases into single tokens
type MultiTokenParser struct {
	dict   map[string]DictEntry // phrase or variant -> entry
	maxLen int
}

// DictEntry represents a dictionary entry for a multi-token phrase
type DictEntry struct {
	Canonical string
	Category  string
	Variants  []string
}

// NewMultiTokenParser creates a new parser with the given dictionary
func NewMultiTokenParser(entries []DictEntry) *MultiTokenParser {
	p := &MultiTokenParser{dict: make(map[string]DictEntry), maxLen: 1}
	for _, e := range entries {
		p.add(e.Canonical, e)
		for _, v := range e.Variants {
			p.add(v, e)
		}
	}
	return p
}

func (p *MultiTokenParser) add(phrase string, e DictEntry) {
	key := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	if key == "" {
		return
	}
	p.dict[key] = e
	if n := len(strings.Fields(key)); n > p.maxLen {
		p.maxLen = n
	}
}

// Len returns the number of phrases and variants known to the parser.
func (p *MultiTokenParser) Len() int { return len(p.dict) }

// Parse replaces the longest known phrase starting at each position with
// its canonical token. Single-word variants map to their canonical form too.
func (p *MultiTokenParser) Parse(tokens []string) []string {
	if p == nil || len(p.dict) == 0 {
		return tokens
	}

	result := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		n, entry, ok := p.longestMatch(tokens[i:])
		if ok {
			result = append(result, canonicalToken(entry.Canonical))
			i += n
			continue
		}
		result = append(result, tokens[i])
		i++
	}
	return result
}

func (p *MultiTokenParser) longestMatch(tokens []string) (int, DictEntry, bool) {
	limit := p.maxLen
	if limit > len(tokens) {
		limit = len(tokens)
	}
	for n := limit; n >= 1; n-- {
		key := strings.ToLower(strings.Join(tokens[:n], " "))
		if entry, ok := p.dict[key]; ok {
			return n, entry, true
		}
	}
	return 0, DictEntry{}, false
}

func canonicalToken(canonical string) string {
	return strings.Join(strings.Fields(strings.ToLower(canonical)), PhraseSeparator)
}

// IsPhrase reports whether a token was produced by phrase merging.
func IsPhrase(token string) bool {
	return strings.Contains(token, PhraseSeparator)
}

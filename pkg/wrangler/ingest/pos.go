package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// POS is a universal part-of-speech tag.
type POS string

const (
	ADJ   POS = "ADJ"
	ADP   POS = "ADP"
	ADV   POS = "ADV"
	AUX   POS = "AUX"
	CCONJ POS = "CCONJ"
	DET   POS = "DET"
	INTJ  POS = "INTJ"
	NOUN  POS = "NOUN"
	NUM   POS = "NUM"
	PART  POS = "PART"
	PRON  POS = "PRON"
	PROPN POS = "PROPN"
	PUNCT POS = "PUNCT"
	SCONJ POS = "SCONJ"
	SYM   POS = "SYM"
	VERB  POS = "VERB"
	X     POS = "X"
	SPACE POS = "SPACE"
)

var knownPOS = map[POS]struct{}{
	ADJ: {}, ADP: {}, ADV: {}, AUX: {}, CCONJ: {}, DET: {}, INTJ: {}, NOUN: {}, NUM: {},
	PART: {}, PRON: {}, PROPN: {}, PUNCT: {}, SCONJ: {}, SYM: {}, VERB: {}, X: {}, SPACE: {},
}

// DefaultExcludePOS drops function words, adverbs and numbers before modeling.
var DefaultExcludePOS = []POS{ADV, PRON, PUNCT, PART, DET, ADP, SPACE, NUM, SYM}

// ParsePOS parses a tag name case-insensitively.
func ParsePOS(raw string) (POS, error) {
	tag := POS(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownPOS[tag]; !ok {
		return "", fmt.Errorf("part of speech %q: %w", raw, internalerr.ErrInvalidConfig)
	}
	return tag, nil
}

// ParsePOSList parses every tag in raw.
func ParsePOSList(raw []string) ([]POS, error) {
	out := make([]POS, 0, len(raw))
	for _, r := range raw {
		tag, err := ParsePOS(r)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

// closedClass maps closed-class words to every tag they commonly take.
var closedClass = buildClosedClass(map[POS][]string{
	PRON: {
		"i", "me", "my", "mine", "myself", "we", "us", "our", "ours", "ourselves",
		"you", "your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself", "they",
		"them", "their", "theirs", "themselves", "who", "whom", "whose", "what",
		"which", "that", "this", "these", "those", "someone", "something",
		"somebody", "anyone", "anything", "anybody", "everyone", "everything",
		"everybody", "nobody", "nothing", "none", "whoever", "whatever",
	},
	DET: {
		"a", "an", "the", "this", "that", "these", "those", "some", "any", "each",
		"every", "no", "all", "both", "either", "neither", "another", "such",
		"what", "which", "whatever", "whichever", "my", "your", "his", "her",
		"its", "our", "their",
	},
	ADP: {
		"in", "on", "at", "by", "for", "with", "about", "against", "between",
		"into", "through", "during", "before", "after", "above", "below", "to",
		"from", "up", "down", "out", "off", "over", "under", "of", "onto", "upon",
		"within", "without", "along", "across", "among", "around", "behind",
		"beyond", "near", "toward", "towards", "via", "per", "despite", "except",
		"inside", "outside", "since", "until", "till", "throughout", "unlike",
	},
	CCONJ: {"and", "or", "but", "nor", "yet", "so", "plus"},
	SCONJ: {
		"if", "because", "although", "though", "while", "whereas", "unless",
		"whether", "since", "than", "that", "as", "once", "whenever", "wherever",
	},
	PART: {"not", "to", "s", "nt"},
	AUX: {
		"be", "am", "is", "are", "was", "were", "been", "being", "have", "has",
		"had", "having", "do", "does", "did", "will", "would", "shall", "should",
		"can", "could", "may", "might", "must", "ought",
	},
	INTJ: {
		"oh", "hey", "hi", "hello", "ok", "okay", "yes", "yeah", "please",
		"thanks", "wow", "oops", "uh", "um", "ah", "hmm", "bye",
	},
	ADV: {
		"very", "really", "just", "also", "quite", "too", "then", "now", "here",
		"there", "always", "never", "often", "sometimes", "soon", "already",
		"still", "again", "ever", "even", "almost", "rather", "else", "however",
		"perhaps", "maybe", "instead", "anyway", "back", "away", "together",
		"only", "well", "when", "where", "why", "how", "yet", "today",
		"tomorrow", "yesterday", "once", "twice", "asap",
	},
	NUM: {
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
		"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
		"sixteen", "seventeen", "eighteen", "nineteen", "twenty", "thirty",
		"forty", "fifty", "sixty", "seventy", "eighty", "ninety", "hundred",
		"thousand", "million", "billion", "dozen",
	},
})

// words ending in -ly that are not adverbs
var lyExceptions = map[string]struct{}{
	"apply": {}, "reply": {}, "supply": {}, "comply": {}, "multiply": {}, "imply": {},
	"family": {}, "assembly": {}, "anomaly": {}, "italy": {}, "july": {}, "holy": {},
	"ugly": {}, "silly": {}, "friendly": {}, "lovely": {}, "likely": {}, "lonely": {},
	"early": {}, "daily": {}, "weekly": {}, "monthly": {}, "yearly": {}, "hourly": {},
	"belly": {}, "rally": {}, "jelly": {}, "bully": {}, "ally": {}, "fly": {},
	"butterfly": {}, "monopoly": {}, "poly": {}, "rely": {}, "costly": {},
}

func buildClosedClass(lists map[POS][]string) map[string][]POS {
	out := make(map[string][]POS)
	for tag, words := range lists {
		for _, w := range words {
			out[w] = append(out[w], tag)
		}
	}
	return out
}

// Tags returns the closed-class tags a word can take. Words outside the
// closed classes are tagged ADV by the -ly rule, NUM when numeric, or X.
func Tags(word string) []POS {
	if tags, ok := closedClass[word]; ok {
		return tags
	}
	if isNumber(word) {
		return []POS{NUM}
	}
	if isLyAdverb(word) {
		return []POS{ADV}
	}
	return []POS{X}
}

func isNumber(word string) bool {
	if !strings.ContainsAny(word, "0123456789") {
		return false
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(word, ",", ""), 64); err == nil {
		return true
	}
	return isNumericOnly(word)
}

func isLyAdverb(word string) bool {
	if len(word) < 5 || !strings.HasSuffix(word, "ly") {
		return false
	}
	_, exception := lyExceptions[word]
	return !exception
}

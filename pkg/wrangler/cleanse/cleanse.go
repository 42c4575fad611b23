// Package cleanse normalises raw comment text and strips words that carry
// identifiers rather than meaning: email addresses, URLs, UUIDs, MD5 digests
// and IPv4 addresses.
//
// A Cleanser holds no mutable state and may be shared between goroutines.
package cleanse

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// URLPolicy decides what happens to URLs found in text.
type URLPolicy int

const (
	// DropURLs removes URLs like every other identifier.
	DropURLs URLPolicy = iota
	// ReplaceURLs swaps each URL for the placeholder token.
	ReplaceURLs
)

// DefaultPlaceholder stands in for a URL under ReplaceURLs.
const DefaultPlaceholder = "URL"

// punctuation trimmed from a word before it is classified
const edgePunct = "()[]{}<>\"'.,;:!?"

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^(?i)((https?|ftp)://|www\.)\S+$`)
	md5Pattern   = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
)

// Kind labels what a word was recognised as.
type Kind int

const (
	KindWord Kind = iota
	KindEmail
	KindURL
	KindUUID
	KindMD5
	KindIPv4
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindURL:
		return "url"
	case KindUUID:
		return "uuid"
	case KindMD5:
		return "md5"
	case KindIPv4:
		return "ipv4"
	default:
		return "word"
	}
}

// Options configures a Cleanser.
type Options struct {
	URLPolicy   URLPolicy
	Placeholder string
}

// Cleanser turns raw text into a whitespace-separated run of kept words.
type Cleanser struct {
	policy      URLPolicy
	placeholder string
}

// New creates a Cleanser. An empty placeholder falls back to DefaultPlaceholder.
func New(opts Options) *Cleanser {
	// the placeholder must survive a second pass untouched
	ph := strings.TrimSpace(opts.Placeholder)
	if len(strings.Fields(ph)) != 1 || normalise(ph) != ph || Classify(ph) != KindWord {
		ph = DefaultPlaceholder
	}
	return &Cleanser{policy: opts.URLPolicy, placeholder: ph}
}

var defaultCleanser = New(Options{})

// Cleanse runs text through the default cleanser (URLs dropped).
func Cleanse(raw string) string { return defaultCleanser.Cleanse(raw) }

// Words runs text through the default cleanser and returns the kept words.
func Words(raw string) []string { return defaultCleanser.Words(raw) }

// Policy reports the URL policy in force.
func (c *Cleanser) Policy() URLPolicy { return c.policy }

// Cleanse returns the kept words joined by single spaces.
func (c *Cleanser) Cleanse(raw string) string {
	return strings.Join(c.Words(raw), " ")
}

// Words returns the kept words in their original order.
func (c *Cleanser) Words(raw string) []string {
	text := normalise(raw)
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)

	fields := strings.Fields(text)
	out := fields[:0]
	for _, w := range fields {
		switch Classify(w) {
		case KindWord:
			out = append(out, w)
		case KindURL:
			if c.policy == ReplaceURLs {
				out = append(out, c.placeholder)
			}
		}
	}
	return out
}

// Classify reports what a single word looks like. Surrounding punctuation is
// ignored, so "(user@example.com)," is still an email.
func Classify(word string) Kind {
	w := strings.Trim(word, edgePunct)
	if w == "" {
		return KindWord
	}

	switch {
	case urlPattern.MatchString(w):
		return KindURL
	case strings.Contains(w, "@") && emailPattern.MatchString(w):
		return KindEmail
	case md5Pattern.MatchString(w):
		return KindMD5
	case isUUID(w):
		return KindUUID
	case isIPv4(w):
		return KindIPv4
	}
	return KindWord
}

func isUUID(w string) bool {
	// uuid.Parse also takes 32 bare hex digits and urn:uuid: prefixes; require the
	// hyphenated form so ordinary hex-ish words are left alone.
	if len(w) != 36 && !strings.HasPrefix(strings.ToLower(w), "urn:uuid:") {
		return false
	}
	_, err := uuid.Parse(w)
	return err == nil
}

func isIPv4(w string) bool {
	if addr, err := netip.ParseAddr(w); err == nil {
		return addr.Is4()
	}
	if ap, err := netip.ParseAddrPort(w); err == nil {
		return ap.Addr().Is4()
	}
	return false
}

// normalise applies NFKC and HTML unescaping until the text stops changing,
// however deeply escapes like &amp;lt; are nested. Every changing pass
// replaces an entity with the shorter text it encodes, so the loop ends.
func normalise(s string) string {
	for {
		next := norm.NFKC.String(html.UnescapeString(s))
		if next == s {
			return s
		}
		s = next
	}
}

// StripMarkup extracts the text nodes of an HTML fragment, skipping script and
// style content. Input that fails to parse is returned unchanged.
func StripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var parts []string
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(parts, " ")
}

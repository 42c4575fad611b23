package cleanse

import (
	"strings"
	"sync"
	"testing"
)

const identifierSentence = "Contact user@example.com or see http://example.com/path for " +
	"ticket 123e4567-e89b-12d3-a456-426614174000 digest 5d41402abc4b2a76b9719d911017c592 " +
	"from 192.168.1.10 thanks"

func TestCleanseDropsOneOfEachIdentifier(t *testing.T) {
	raw := strings.Fields(identifierSentence)
	got := Words(identifierSentence)

	if len(raw)-len(got) != 5 {
		t.Fatalf("expected exactly 5 words dropped, raw=%d cleansed=%d (%v)", len(raw), len(got), got)
	}
	joined := strings.Join(got, " ")
	for _, gone := range []string{"user@example.com", "http://", "123e4567", "5d41402a", "192.168"} {
		if strings.Contains(joined, gone) {
			t.Errorf("%q should have been removed: %q", gone, joined)
		}
	}
	if joined != "Contact or see for ticket digest from thanks" {
		t.Errorf("unexpected result %q", joined)
	}
}

func TestCleanseIdempotent(t *testing.T) {
	inputs := []string{
		identifierSentence,
		"Hello world",
		"line one\r\nline two\nline three\rline four",
		"&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt; text",
		"caf&eacute; &amp; cr&egrave;me",
		"ﬁle ｆｕｌｌｗｉｄｔｈ Ｈｅｌｌｏ",
		"non breaking spaces",
		"(see https://docs.example.com/a?b=c), thanks!",
		"a &" + strings.Repeat("amp;", 9) + "lt;b",
		"&" + strings.Repeat("amp;", 40) + "quot;deep&" + strings.Repeat("amp;", 40) + "quot;",
		"   ",
		"",
	}
	for _, in := range inputs {
		once := Cleanse(in)
		twice := Cleanse(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestCleanseUnwrapsDeeplyNestedEntities(t *testing.T) {
	in := "a &" + strings.Repeat("amp;", 9) + "lt;b"
	if got := Cleanse(in); got != "a <b" {
		t.Errorf("got %q", got)
	}
}

func TestCleanseReplacePolicy(t *testing.T) {
	c := New(Options{URLPolicy: ReplaceURLs})
	got := c.Cleanse("visit https://example.com/help and www.example.org today")
	if got != "visit URL and URL today" {
		t.Errorf("got %q", got)
	}
	if again := c.Cleanse(got); again != got {
		t.Errorf("replace policy not idempotent: %q -> %q", got, again)
	}

	// emails are still dropped under the replace policy
	if got := c.Cleanse("mail bob@example.com now"); got != "mail now" {
		t.Errorf("got %q", got)
	}
}

func TestCleanseCustomPlaceholder(t *testing.T) {
	c := New(Options{URLPolicy: ReplaceURLs, Placeholder: "<link>"})
	if got := c.Cleanse("go to http://x.io"); got != "go to <link>" {
		t.Errorf("got %q", got)
	}

	// a placeholder that would itself be stripped falls back to the default
	c = New(Options{URLPolicy: ReplaceURLs, Placeholder: "http://placeholder"})
	if got := c.Cleanse("go to http://x.io"); got != "go to URL" {
		t.Errorf("got %q", got)
	}
	c = New(Options{URLPolicy: ReplaceURLs, Placeholder: "two words"})
	if got := c.Cleanse("go to http://x.io"); got != "go to URL" {
		t.Errorf("got %q", got)
	}
}

func TestCleanseNormalisesText(t *testing.T) {
	cases := map[string]string{
		"Ｈｅｌｌｏ":                   "Hello",
		"ﬁle":                     "file",
		"a &amp; b":               "a & b",
		"&lt;p&gt;":               "<p>",
		"tab\tseparated  words":   "tab separated words",
		"one\ntwo\r\nthree\rfour": "one two three four",
	}
	for in, want := range cases {
		if got := Cleanse(in); got != want {
			t.Errorf("Cleanse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanseMalformedInputPassesThrough(t *testing.T) {
	// invalid UTF-8 and stray entities must not panic or vanish
	in := "broken \xff\xfe bytes &zzq; @ user@ http:/half"
	got := Words(in)
	if len(got) == 0 {
		t.Fatal("unclassifiable words should pass through")
	}
	joined := strings.Join(got, " ")
	for _, keep := range []string{"broken", "&zzq;", "user@", "http:/half"} {
		if !strings.Contains(joined, keep) {
			t.Errorf("%q should pass through, got %q", keep, joined)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"user@example.com":                       KindEmail,
		"first.last+tag@mail.example.co.uk":      KindEmail,
		"(user@example.com),":                    KindEmail,
		"http://example.com/path":                KindURL,
		"HTTPS://EXAMPLE.COM":                    KindURL,
		"www.example.org":                        KindURL,
		"ftp://files.example.com/a.zip":          KindURL,
		"123e4567-e89b-12d3-a456-426614174000":   KindUUID,
		"{123e4567-e89b-12d3-a456-426614174000}": KindUUID,
		"5d41402abc4b2a76b9719d911017c592":       KindMD5,
		"192.168.1.10":                           KindIPv4,
		"10.0.0.1:8080":                          KindIPv4,
		"hello":                                  KindWord,
		"v1.2.3":                                 KindWord,
		"::1":                                    KindWord,
		"deadbeef":                               KindWord,
		"user@":                                  KindWord,
		"":                                       KindWord,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCleanserConcurrentUse(t *testing.T) {
	c := New(Options{URLPolicy: ReplaceURLs})
	want := c.Cleanse(identifierSentence)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Cleanse(identifierSentence); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent result differs: %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	in := `<p>Hello <b>world</b></p><script>alert(1)</script><style>p{}</style><div>again</div>`
	if got := StripMarkup(in); got != "Hello world again" {
		t.Errorf("got %q", got)
	}
	if got := StripMarkup("plain text"); got != "plain text" {
		t.Errorf("got %q", got)
	}
}

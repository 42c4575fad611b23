package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the", "a", "and", "of"})

	tokens := tokenizer.Tokenize("The quick brown fox jumps over the lazy dog")

	expected := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerHyphens(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	cases := map[string][]string{
		"e-mail and single-sign-on": {"e-mail", "and", "single-sign-on"},
		"--leading trailing--":      {"leading", "trailing"},
		"double--hyphen":            {"double-hyphen"},
		"- -- ---":                  nil,
	}
	for in, want := range cases {
		if got := tokenizer.Tokenize(in); !reflect.DeepEqual(got, want) {
			t.Errorf("Tokenize(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	for _, tok := range tokenizer.Tokenize("VPN Outlook MacBook") {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestTokenizerPunctuationSeparates(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	got := tokenizer.Tokenize("error: disk/full! (again)... don't retry; $100 #tag")
	want := []string{"error", "disk", "full", "again", "don", "retry", "tag"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizerNumbersFiltered(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	got := tokenizer.Tokenize("ticket 2024 range 10-20 utf-8 win10")
	want := []string{"ticket", "range", "utf-8", "win10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizerSingleCharacterFiltering(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	if got := tokenizer.Tokenize("a b c ok"); !reflect.DeepEqual(got, []string{"ok"}) {
		t.Errorf("single characters should be dropped, got %v", got)
	}
}

func TestTokenizerUnicodeCharacters(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	got := tokenizer.Tokenize("Café naïve Straße")
	want := []string{"café", "naïve", "straße"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the"})
	for _, in := range []string{"", "   \t\n", "the the"} {
		if got := tokenizer.Tokenize(in); len(got) != 0 {
			t.Errorf("Tokenize(%q) should be empty, got %v", in, got)
		}
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tokenizer := NewTokenizer([]string{"The"})

	if got := tokenizer.Tokenize("the cat"); len(got) != 1 || got[0] != "cat" {
		t.Errorf("stopwords should be case-insensitive, got %v", got)
	}

	tokenizer.AddStopword("Cat")
	if got := tokenizer.Tokenize("the cat"); len(got) != 0 {
		t.Errorf("'cat' should now be filtered, got %v", got)
	}

	tokenizer.RemoveStopword("the")
	if got := tokenizer.Tokenize("the cat"); len(got) != 1 || got[0] != "the" {
		t.Errorf("'the' should pass after removal, got %v", got)
	}
}

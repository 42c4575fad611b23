package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/cleanse"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Sweep.MinTopics != 1 || cfg.Sweep.MaxTopics != 19 {
		t.Errorf("default sweep range %d..%d", cfg.Sweep.MinTopics, cfg.Sweep.MaxTopics)
	}
	p := cfg.Params(3)
	if p.Topics != 3 || p.Iterations != 50 || p.Passes != 10 || p.Workers != 4 {
		t.Errorf("default params %+v", p)
	}
	if f := cfg.FilterOptions(); f.NoBelow != 5 || f.NoAbove != 0.5 || f.KeepN != 1000 {
		t.Errorf("default filter %+v", f)
	}
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, "wrangler.yaml", `
input:
  ticket_file: exports/tickets.json
  comments_dir: exports/comments
  type_field_id: 360001
training:
  iterations: 100
sweep:
  max_topics: 5
nlp:
  exclude_pos: [adv, num]
cleanse:
  url_policy: replace
profile:
  stopword_min_df_percent: 80
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.TicketFile != "exports/tickets.json" || cfg.Input.TypeFieldID != 360001 {
		t.Errorf("input section %+v", cfg.Input)
	}
	if cfg.Training.Iterations != 100 || cfg.Training.Passes != 10 {
		t.Errorf("training should merge with defaults: %+v", cfg.Training)
	}
	if r := cfg.Range(); r.Min != 1 || r.Max != 5 {
		t.Errorf("range %+v", r)
	}
	if len(cfg.NLP.ExcludePOS) != 2 || !cfg.NLP.AlphaOnly {
		t.Errorf("nlp section %+v", cfg.NLP)
	}
	if th := cfg.Thresholds(); th.StopwordMinDF != 80 || th.PhraseMinCount != 2 {
		t.Errorf("profile thresholds %+v", th)
	}
	opts, err := cfg.CleanseOptions()
	if err != nil || opts.URLPolicy != cleanse.ReplaceURLs {
		t.Errorf("cleanse options %+v %v", opts, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, internalerr.ErrFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	bad := writeConfig(t, "bad.yaml", "training: [unclosed\n")
	if _, err := Load(bad); !errors.Is(err, internalerr.ErrParse) {
		t.Errorf("malformed file: %v", err)
	}
	if _, err := Load("", filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("explicit env file that does not exist should fail")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "wrangler.yaml", "training:\n  passes: 5\ninput:\n  ticket_file: from-yaml.json\n")
	t.Setenv("WRANGLER_PASSES", "7")
	t.Setenv("WRANGLER_TICKET_FILE", "from-env.json")
	t.Setenv("WRANGLER_WORKERS", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Training.Passes != 7 {
		t.Errorf("passes = %d, want 7", cfg.Training.Passes)
	}
	if cfg.Input.TicketFile != "from-env.json" {
		t.Errorf("ticket file = %q", cfg.Input.TicketFile)
	}
	if cfg.Training.Workers != 4 {
		t.Errorf("unparseable env value should keep the previous value, got %d", cfg.Training.Workers)
	}
}

func TestEnvFile(t *testing.T) {
	const key = "WRANGLER_TOPICS_MAX"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	env := writeConfig(t, "test.env", key+"=9\n")
	cfg, err := Load("", env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sweep.MaxTopics != 9 {
		t.Errorf("max topics = %d, want 9", cfg.Sweep.MaxTopics)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Training.Passes = 20
	cfg.Output.Format = "xml"
	cfg.Cleanse.URLPolicy = "mask"
	cfg.Sweep.MinTopics = 0
	cfg.NLP.ExcludePOS = []string{"NOUNISH"}
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if !errors.Is(err, internalerr.ErrValidation) {
		t.Errorf("expected ErrValidation in %v", err)
	}
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig in %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 6 {
		t.Errorf("expected 6 problems, got %v", err)
	}
}

func TestLoadStoplist(t *testing.T) {
	path := writeConfig(t, "stoplist.yaml", "terms:\n  - printer\n  - ticket\n  - thanks\n")

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}
	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}
}

func TestLoadDict(t *testing.T) {
	path := writeConfig(t, "phrases.txt", `# phrases
password reset|pw reset|pwd reset|account

malformed line
blue screen|bsod|hardware
`)
	dict, err := LoadDict(path)
	if err != nil {
		t.Fatalf("LoadDict: %v", err)
	}
	if len(dict.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(dict.Entries))
	}
	e := dict.Entries[0]
	if e.Canonical != "password reset" || len(e.Variants) != 2 || e.Category != "account" {
		t.Errorf("unexpected entry %+v", e)
	}
	if len(dict.Entries[1].Variants) != 1 {
		t.Errorf("unexpected entry %+v", dict.Entries[1])
	}
}

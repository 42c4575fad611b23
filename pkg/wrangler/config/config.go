// Package config holds the wrangler's settings: a YAML file layered over
// defaults, then WRANGLER_* environment variables on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/analytics"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/cleanse"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/corpus"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ingest"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/sweep"
)

// Config aggregates every setting of a wrangling run.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Cleanse    CleanseConfig    `yaml:"cleanse"`
	NLP        NLPConfig        `yaml:"nlp"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Training   TrainingConfig   `yaml:"training"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Profile    ProfileConfig    `yaml:"profile"`
	Log        LoggerConfig     `yaml:"log"`
}

// InputConfig locates the exports.
type InputConfig struct {
	TicketFile  string `yaml:"ticket_file"`
	CommentsDir string `yaml:"comments_dir"`
	// Custom field ids for type and outcome; zero reads fields by position.
	TypeFieldID    int64 `yaml:"type_field_id"`
	OutcomeFieldID int64 `yaml:"outcome_field_id"`
	// Workers bounds concurrent comment parsing; zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// OutputConfig controls the snapshot files.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // text or tokens
}

// CleanseConfig controls identifier stripping.
type CleanseConfig struct {
	URLPolicy   string `yaml:"url_policy"` // drop or replace
	Placeholder string `yaml:"placeholder"`
}

// NLPConfig points at the tokenizer's word lists and sets its filters.
type NLPConfig struct {
	StoplistPath string   `yaml:"stoplist"`
	DictPath     string   `yaml:"phrases"`
	LexiconPath  string   `yaml:"lexicon"`
	ExcludePOS   []string `yaml:"exclude_pos"`
	AlphaOnly    bool     `yaml:"alpha_only"`
	Stem         bool     `yaml:"stem"`
}

// DictionaryConfig sets vocabulary pruning.
type DictionaryConfig struct {
	NoBelow int     `yaml:"no_below"`
	NoAbove float64 `yaml:"no_above"`
	KeepN   int     `yaml:"keep_n"`
}

// TrainingConfig sets per-model training effort.
type TrainingConfig struct {
	Iterations int `yaml:"iterations"`
	Passes     int `yaml:"passes"`
	Workers    int `yaml:"workers"`
}

// SweepConfig sets the topic counts to compare.
type SweepConfig struct {
	MinTopics     int `yaml:"min_topics"`
	MaxTopics     int `yaml:"max_topics"`
	Parallelism   int `yaml:"parallelism"`
	CoherenceTopN int `yaml:"coherence_top_n"`
	TermsPerTopic int `yaml:"terms_per_topic"`
}

// ProfileConfig sets when the vocabulary profile suggests stoplist terms
// and phrases.
type ProfileConfig struct {
	StopwordMinDF   float64 `yaml:"stopword_min_df_percent"`
	StopwordMaxNPMI float64 `yaml:"stopword_max_npmi"`
	PhraseMinCount  int64   `yaml:"phrase_min_count"`
	PhraseMinNPMI   float64 `yaml:"phrase_min_npmi"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // json or console
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	exclude := make([]string, len(ingest.DefaultExcludePOS))
	for i, p := range ingest.DefaultExcludePOS {
		exclude[i] = string(p)
	}
	params := lda.DefaultParams(1)
	return &Config{
		Output:  OutputConfig{Dir: "output", Format: corpus.FormatText.String()},
		Cleanse: CleanseConfig{URLPolicy: "drop", Placeholder: cleanse.DefaultPlaceholder},
		NLP: NLPConfig{
			ExcludePOS: exclude,
			AlphaOnly:  true,
			Stem:       true,
		},
		Dictionary: DictionaryConfig{
			NoBelow: lda.DefaultNoBelow,
			NoAbove: lda.DefaultNoAbove,
			KeepN:   lda.DefaultKeepN,
		},
		Training: TrainingConfig{
			Iterations: params.Iterations,
			Passes:     params.Passes,
			Workers:    params.Workers,
		},
		Sweep: SweepConfig{
			MinTopics:     1,
			MaxTopics:     19,
			CoherenceTopN: 10,
			TermsPerTopic: sweep.DefaultTermsPerTopic,
		},
		Profile: ProfileConfig{
			StopwordMinDF:   analytics.DefaultThresholds.StopwordMinDF,
			StopwordMaxNPMI: analytics.DefaultThresholds.StopwordMaxNPMI,
			PhraseMinCount:  analytics.DefaultThresholds.PhraseMinCount,
			PhraseMinNPMI:   analytics.DefaultThresholds.PhraseMinNPMI,
		},
		Log: LoggerConfig{Level: "info", Encoding: "json"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), then the environment. envFiles are loaded first with godotenv;
// with none given a .env in the working directory is tried.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, internalerr.New(internalerr.ErrFileNotFound, "load config", path, err)
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, internalerr.New(internalerr.ErrParse, "load config", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Input.TicketFile = getEnv("WRANGLER_TICKET_FILE", c.Input.TicketFile)
	c.Input.CommentsDir = getEnv("WRANGLER_COMMENTS_DIR", c.Input.CommentsDir)
	c.Output.Dir = getEnv("WRANGLER_OUTPUT_DIR", c.Output.Dir)
	c.Output.Format = getEnv("WRANGLER_OUTPUT_FORMAT", c.Output.Format)
	c.Cleanse.URLPolicy = getEnv("WRANGLER_URL_POLICY", c.Cleanse.URLPolicy)
	c.Training.Iterations = getEnvAsInt("WRANGLER_ITERATIONS", c.Training.Iterations)
	c.Training.Passes = getEnvAsInt("WRANGLER_PASSES", c.Training.Passes)
	c.Training.Workers = getEnvAsInt("WRANGLER_WORKERS", c.Training.Workers)
	c.Sweep.MinTopics = getEnvAsInt("WRANGLER_TOPICS_MIN", c.Sweep.MinTopics)
	c.Sweep.MaxTopics = getEnvAsInt("WRANGLER_TOPICS_MAX", c.Sweep.MaxTopics)
	c.Log.Level = getEnv("WRANGLER_LOG_LEVEL", c.Log.Level)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := corpus.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.CleanseOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ingest.ParsePOSList(c.NLP.ExcludePOS); err != nil {
		errs = append(errs, err)
	}
	if c.Dictionary.NoBelow < 0 {
		errs = append(errs, fmt.Errorf("%w: dictionary.no_below must not be negative", internalerr.ErrInvalidConfig))
	}
	if c.Dictionary.NoAbove <= 0 || c.Dictionary.NoAbove > 1 {
		errs = append(errs, fmt.Errorf("%w: dictionary.no_above must be in (0, 1]", internalerr.ErrInvalidConfig))
	}
	if err := c.Params(c.Sweep.MinTopics).Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Range().Validate(); err != nil {
		errs = append(errs, err)
	}
	if p := c.Profile.StopwordMinDF; p < 0 || p > 100 {
		errs = append(errs, fmt.Errorf("%w: profile.stopword_min_df_percent must be in [0, 100]", internalerr.ErrInvalidConfig))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %v", internalerr.ErrInvalidConfig, err))
	}
	if enc := c.Log.Encoding; enc != "json" && enc != "console" {
		errs = append(errs, fmt.Errorf("%w: log.encoding %q", internalerr.ErrInvalidConfig, enc))
	}
	return errors.Join(errs...)
}

// CleanseOptions converts the cleanse section.
func (c *Config) CleanseOptions() (cleanse.Options, error) {
	opts := cleanse.Options{Placeholder: c.Cleanse.Placeholder}
	switch strings.ToLower(strings.TrimSpace(c.Cleanse.URLPolicy)) {
	case "", "drop":
		opts.URLPolicy = cleanse.DropURLs
	case "replace":
		opts.URLPolicy = cleanse.ReplaceURLs
	default:
		return opts, fmt.Errorf("%w: cleanse.url_policy %q", internalerr.ErrInvalidConfig, c.Cleanse.URLPolicy)
	}
	return opts, nil
}

// Params returns training parameters for the given topic count.
func (c *Config) Params(topics int) lda.Params {
	return lda.Params{
		Topics:     topics,
		Iterations: c.Training.Iterations,
		Passes:     c.Training.Passes,
		Workers:    c.Training.Workers,
	}
}

// Thresholds converts the profile section.
func (c *Config) Thresholds() analytics.Thresholds {
	return analytics.Thresholds{
		StopwordMinDF:   c.Profile.StopwordMinDF,
		StopwordMaxNPMI: c.Profile.StopwordMaxNPMI,
		PhraseMinCount:  c.Profile.PhraseMinCount,
		PhraseMinNPMI:   c.Profile.PhraseMinNPMI,
	}
}

// Range returns the topic counts to sweep.
func (c *Config) Range() sweep.Range {
	return sweep.Range{Min: c.Sweep.MinTopics, Max: c.Sweep.MaxTopics}
}

// FilterOptions returns the vocabulary pruning settings.
func (c *Config) FilterOptions() lda.FilterOptions {
	return lda.FilterOptions{
		NoBelow: c.Dictionary.NoBelow,
		NoAbove: c.Dictionary.NoAbove,
		KeepN:   c.Dictionary.KeepN,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

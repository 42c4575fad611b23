package lda

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Training bounds. Both limits are exclusive.
const (
	MaxIterations = 200
	MaxPasses     = 20
)

// Params are the knobs of one training run.
type Params struct {
	Topics     int // number of topics to fit
	Iterations int // inference iterations per document
	Passes     int // passes over the corpus
	Workers    int // engine goroutines
}

// DefaultParams returns the usual training settings for the given topic count.
func DefaultParams(topics int) Params {
	return Params{Topics: topics, Iterations: 50, Passes: 10, Workers: 4}
}

// Validate checks every bound and reports all violations at once.
func (p Params) Validate() error {
	var problems []string
	if p.Topics < 1 {
		problems = append(problems, "topics must be at least 1")
	}
	if p.Iterations < 1 || p.Iterations >= MaxIterations {
		problems = append(problems, fmt.Sprintf("iterations must be between 1 and %d", MaxIterations-1))
	}
	if p.Passes < 1 || p.Passes >= MaxPasses {
		problems = append(problems, fmt.Sprintf("passes must be between 1 and %d", MaxPasses-1))
	}
	if p.Workers < 1 {
		problems = append(problems, "workers must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// ParseCount parses a non-negative decimal count as typed by a user.
func ParseCount(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", internalerr.ErrValidation, name)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %s must be a whole number, got %q", internalerr.ErrValidation, name, raw)
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s out of range: %v", internalerr.ErrValidation, name, err)
	}
	return n, nil
}

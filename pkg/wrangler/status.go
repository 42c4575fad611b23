package wrangler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/lda"
)

// Status is the outcome of a Session operation as shown to a user.
type Status struct {
	OK      bool
	Message string
}

// Observer is told about progress and status changes. Calls come from the
// goroutine driving the Session.
type Observer interface {
	OnProgress(stage string, current, total int)
	OnStatus(message string)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnProgress(string, int, int) {}
func (NopObserver) OnStatus(string)             {}

// LogObserver writes progress at debug level and status at info level.
type LogObserver struct {
	Logger *zap.Logger
}

func (o LogObserver) OnProgress(stage string, current, total int) {
	o.Logger.Debug("progress", zap.String("stage", stage), zap.Int("current", current), zap.Int("total", total))
}

func (o LogObserver) OnStatus(message string) {
	o.Logger.Info(message)
}

// TrainRequest holds the settings a user asks a sweep to run with.
type TrainRequest struct {
	Topics     int // highest topic count to try
	Iterations int
	Passes     int
	Workers    int // zero keeps the configured value
}

// ParseTrainRequest reads the values as typed into a form. Each must be a
// whole number; iterations and passes must also be in range.
func ParseTrainRequest(topics, iterations, passes string) (TrainRequest, error) {
	var req TrainRequest
	var errs []error
	var err error
	if req.Topics, err = lda.ParseCount("number of topics", topics); err != nil {
		errs = append(errs, err)
	}
	if req.Iterations, err = lda.ParseCount("iterations", iterations); err != nil {
		errs = append(errs, err)
	}
	if req.Passes, err = lda.ParseCount("passes", passes); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return TrainRequest{}, errors.Join(errs...)
	}

	p := lda.Params{Topics: req.Topics, Iterations: req.Iterations, Passes: req.Passes, Workers: 1}
	if err := p.Validate(); err != nil {
		return TrainRequest{}, err
	}
	return req, nil
}

// Describe turns an error into a message for the user, led by what kind of
// failure it was.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var prefix string
	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out"
	case errors.Is(err, internalerr.ErrFileNotFound):
		prefix = "File not found"
	case errors.Is(err, internalerr.ErrParse):
		prefix = "Malformed JSON"
	case errors.Is(err, internalerr.ErrFormat):
		prefix = "Unexpected format"
	case errors.Is(err, internalerr.ErrUnknownStatus):
		prefix = "Unknown ticket status"
	case errors.Is(err, internalerr.ErrValidation):
		prefix = "Invalid input"
	case errors.Is(err, internalerr.ErrTraining):
		prefix = "Training failed"
	case errors.Is(err, internalerr.ErrStageOrder):
		prefix = "Not ready"
	case errors.Is(err, internalerr.ErrInvalidConfig), errors.Is(err, internalerr.ErrInvalidInput):
		prefix = "Invalid settings"
	default:
		prefix = "Unexpected error"
	}
	return prefix + ": " + err.Error()
}

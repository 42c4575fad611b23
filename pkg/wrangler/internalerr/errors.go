package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Pipeline taxonomy
	ErrFileNotFound  = errors.New("file not found")
	ErrParse         = errors.New("malformed json")
	ErrFormat        = errors.New("unexpected format")
	ErrUnknownStatus = errors.New("unknown ticket status")
	ErrValidation    = errors.New("validation failed")
	ErrTraining      = errors.New("training failed")
	ErrStageOrder    = errors.New("stage run out of order")
)

// Error attaches the failing operation and, when there is one, the file it
// was working on. Kind is one of the sentinels above and is what errors.Is
// matches against.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Kind)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds an *Error of the given kind.
func New(kind error, op, path string, cause error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: cause}
}

// Kind reports which taxonomy sentinel err carries, or nil.
func Kind(err error) error {
	for _, k := range []error{
		ErrFileNotFound, ErrParse, ErrFormat, ErrUnknownStatus,
		ErrValidation, ErrTraining, ErrStageOrder,
		ErrNotFound, ErrInvalidInput, ErrInvalidConfig,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

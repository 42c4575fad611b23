// Package records reads export files holding JSON objects, either as one
// JSON array or as JSON lines.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Record is one undecoded JSON value and the line it starts on.
type Record struct {
	Line int
	Raw  json.RawMessage
}

// Load reads every record in path.
//
// A file starting with '[' must be a well-formed array; any syntax error fails
// the whole file. Otherwise each non-blank line is one record and malformed
// lines are logged and skipped. A file yielding nothing usable is a parse error.
func Load(path string, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, internalerr.New(internalerr.ErrFileNotFound, "load records", path, err)
		}
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, internalerr.New(internalerr.ErrParse, "load records", path, errors.New("empty file"))
	}
	if trimmed[0] == '[' {
		return loadArray(path, data)
	}
	return loadLines(path, data, logger)
}

func loadArray(path string, data []byte) ([]Record, error) {
	fail := func(err error) ([]Record, error) {
		return nil, internalerr.New(internalerr.ErrParse, "load records", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fail(err)
	}
	var out []Record
	for dec.More() {
		start := dec.InputOffset()
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fail(err)
		}
		out = append(out, Record{Line: lineAt(data, start), Raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return fail(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fail(errors.New("trailing data after array"))
	}
	return out, nil
}

func loadLines(path string, data []byte, logger *zap.Logger) ([]Record, error) {
	var out []Record
	skipped := 0
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			logger.Warn("skipping malformed json line",
				zap.String("file", path),
				zap.Int("line", i+1))
			skipped++
			continue
		}
		out = append(out, Record{Line: i + 1, Raw: json.RawMessage(line)})
	}

	if len(out) == 0 {
		return nil, internalerr.New(internalerr.ErrParse, "load records", path,
			fmt.Errorf("no valid records (%d malformed lines)", skipped))
	}
	return out, nil
}

// lineAt returns the 1-based line of the first value byte at or after offset.
// The decoder's offset sits before any separating comma and whitespace.
func lineAt(data []byte, offset int64) int {
	i := int(offset)
	for i < len(data) && strings.ContainsRune(", \t\r\n", rune(data[i])) {
		i++
	}
	return bytes.Count(data[:i], []byte("\n")) + 1
}

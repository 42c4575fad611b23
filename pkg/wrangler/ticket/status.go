package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// Status enumerates lifecycle states for tickets.
type Status int

const (
	StatusOpen Status = iota + 1
	StatusHold
	StatusPending
	StatusSolved
	StatusClosed
)

var statusNames = map[Status]string{
	StatusOpen:    "OPEN",
	StatusHold:    "HOLD",
	StatusPending: "PENDING",
	StatusSolved:  "SOLVED",
	StatusClosed:  "CLOSED",
}

// String returns the upper-case status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the enumerated states.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus maps a status name to a Status, ignoring case.
func ParseStatus(raw string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", internalerr.ErrUnknownStatus, raw)
}

type statusJSON struct {
	Status string `json:"status"`
}

// MarshalJSON encodes the status as {"status": "<NAME>"}.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrUnknownStatus, int(s))
	}
	return json.Marshal(statusJSON{Status: s.String()})
}

// UnmarshalJSON accepts the object form written by MarshalJSON as well as a
// bare status string.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var name string
	if len(data) > 0 && data[0] == '{' {
		var obj statusJSON
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		name = obj.Status
	} else if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ticket"
)

// Positions of the custom fields read when no field ids are configured.
const (
	typeFieldIndex    = 0
	outcomeFieldIndex = 2
)

// FieldMap names the custom fields holding the ticket type and outcome.
// A zero id falls back to the field's position in the export.
type FieldMap struct {
	TypeID    int64
	OutcomeID int64
}

type rawField struct {
	ID    json.RawMessage `json:"id"`
	Value json.RawMessage `json:"value"`
}

type rawTicket struct {
	ID          int64      `json:"id"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
	Subject     string     `json:"subject"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	Fields      []rawField `json:"fields"`
	Description string     `json:"description"`
}

// reshapeTicket decodes one exported ticket record.
func reshapeTicket(raw json.RawMessage, fm FieldMap) (*ticket.Ticket, error) {
	var rec rawTicket
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrParse, err)
	}

	created, err := ticket.ParseTime(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	updated, err := ticket.ParseTime(rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	status, err := ticket.ParseStatus(rec.Status)
	if err != nil {
		return nil, err
	}

	t := ticket.New(ticket.Fields{
		ID:          rec.ID,
		CreatedAt:   created,
		UpdatedAt:   updated,
		Status:      status,
		Subject:     rec.Subject,
		Tags:        rec.Tags,
		Type:        fieldValue(rec.Fields, fm.TypeID, typeFieldIndex),
		Outcome:     fieldValue(rec.Fields, fm.OutcomeID, outcomeFieldIndex),
		Description: rec.Description,
	})
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// fieldValue finds a custom field by id, or by position when id is zero.
// Missing fields and null values are empty.
func fieldValue(fields []rawField, id int64, index int) string {
	if id != 0 {
		want := strconv.FormatInt(id, 10)
		for _, f := range fields {
			if string(bytes.Trim(f.ID, `"`)) == want {
				return renderValue(f.Value)
			}
		}
		return ""
	}
	if index < len(fields) {
		return renderValue(fields[index].Value)
	}
	return ""
}

func renderValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

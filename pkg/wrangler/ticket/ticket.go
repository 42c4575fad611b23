package ticket

import (
	"fmt"
	"time"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
)

// TimeLayout is the only timestamp layout accepted in ticket and comment exports.
const TimeLayout = "2006-01-02T15:04:05Z"

// DescriptionCommentID is the placeholder id given to the comment synthesised
// from a ticket's description.
const DescriptionCommentID int64 = 0

// ParseTime parses an export timestamp. Anything but TimeLayout is a format error.
func ParseTime(raw string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", internalerr.ErrFormat, raw, err)
	}
	return t, nil
}

// Comment is a single entry in a ticket's discussion.
type Comment struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`

	// Cleansed is set once Body has been through the text cleanser.
	Cleansed bool `json:"-"`
}

// Ticket is a support request together with its comments. The first comment
// is always the ticket description.
type Ticket struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    Status    `json:"status"`
	Subject   string    `json:"subject"`
	Tags      []string  `json:"tags"`
	Outcome   string    `json:"outcome,omitempty"`
	Type      string    `json:"type,omitempty"`
	Comments  []Comment `json:"comments"`
}

// Fields holds everything needed to build a Ticket.
type Fields struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Status      Status
	Subject     string
	Tags        []string
	Outcome     string
	Type        string
	Description string
}

// New builds a ticket whose first comment is the description.
func New(f Fields) *Ticket {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Ticket{
		ID:        f.ID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Status:    f.Status,
		Subject:   f.Subject,
		Tags:      tags,
		Outcome:   f.Outcome,
		Type:      f.Type,
		Comments: []Comment{{
			ID:        DescriptionCommentID,
			CreatedAt: f.CreatedAt,
			Body:      f.Description,
		}},
	}
}

// AddComments appends comments after any already bound.
func (t *Ticket) AddComments(cs ...Comment) {
	t.Comments = append(t.Comments, cs...)
}

// ResetComments drops everything but the description comment.
func (t *Ticket) ResetComments() int {
	if len(t.Comments) <= 1 {
		return 0
	}
	dropped := len(t.Comments) - 1
	t.Comments = t.Comments[:1:1]
	return dropped
}

// Description returns the body of the synthesised first comment.
func (t *Ticket) Description() string {
	if len(t.Comments) == 0 {
		return ""
	}
	return t.Comments[0].Body
}

// Validate checks that the ticket has an id, a creation time, a known
// status and its description comment.
func (t *Ticket) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: ticket id must be positive, got %d", internalerr.ErrInvalidInput, t.ID)
	}

	if t.CreatedAt.IsZero() {
		return fmt.Errorf("%w: ticket %d has no created_at", internalerr.ErrInvalidInput, t.ID)
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w: %d", internalerr.ErrUnknownStatus, int(t.Status))
	}

	if len(t.Comments) == 0 {
		return fmt.Errorf("%w: ticket %d must carry its description comment", internalerr.ErrInvalidInput, t.ID)
	}

	return nil
}

package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/cleanse"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/internalerr"
	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ticket"
)

// commentIndex maps a ticket id to its comment files in lexical walk order.
type commentIndex map[int64][]string

// indexComments walks dir and groups *.json files by the ticket id leading
// their file name: "42.json", "42_comments.json" and "42 (1).json" all
// belong to ticket 42.
func indexComments(dir string) (commentIndex, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, internalerr.New(internalerr.ErrFileNotFound, "index comments", dir, err)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, internalerr.New(internalerr.ErrInvalidInput, "index comments", dir, errors.New("not a directory"))
	}

	idx := make(commentIndex)
	var ignored []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		id, ok := ticketIDFromName(d.Name())
		if !ok {
			ignored = append(ignored, path)
			return nil
		}
		idx[id] = append(idx[id], path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return idx, ignored, nil
}

// ticketIDFromName returns the numeric segment that starts a file stem.
func ticketIDFromName(name string) (int64, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.IndexAny(stem, " _-."); i >= 0 {
		stem = stem[:i]
	}
	if stem == "" {
		return 0, false
	}
	for _, r := range stem {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type rawComment struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"created_at"`
	PlainBody *string `json:"plain_body"`
	HTMLBody  string  `json:"html_body"`
}

// problem is a skipped file or record, reported back to the orchestrator.
type problem struct {
	File  string
	Index int // record position in the file, -1 for the whole file
	Err   error
}

// boundComments is what a worker hands back for one ticket.
type boundComments struct {
	Comments []ticket.Comment
	Files    int
	Foreign  []string // keys in the ticket's files naming other tickets
	Problems []problem
}

// readComments parses every file for one ticket. It touches no shared state.
func readComments(id int64, files []string, c *cleanse.Cleanser) boundComments {
	var out boundComments
	key := strconv.FormatInt(id, 10)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			out.Problems = append(out.Problems, problem{File: path, Index: -1, Err: err})
			continue
		}
		var byTicket map[string]json.RawMessage
		if err := json.Unmarshal(data, &byTicket); err != nil {
			out.Problems = append(out.Problems, problem{
				File: path, Index: -1,
				Err: internalerr.New(internalerr.ErrParse, "read comments", path, err),
			})
			continue
		}
		out.Files++

		for k := range byTicket {
			if k != key {
				out.Foreign = append(out.Foreign, path+":"+k)
			}
		}
		raw, ok := byTicket[key]
		if !ok {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			out.Problems = append(out.Problems, problem{
				File: path, Index: -1,
				Err: internalerr.New(internalerr.ErrParse, "read comments", path, err),
			})
			continue
		}
		for i, rec := range records {
			cm, err := reshapeComment(rec, c)
			if err != nil {
				out.Problems = append(out.Problems, problem{File: path, Index: i, Err: err})
				continue
			}
			out.Comments = append(out.Comments, cm)
		}
	}
	sort.Strings(out.Foreign)
	return out
}

func reshapeComment(raw json.RawMessage, c *cleanse.Cleanser) (ticket.Comment, error) {
	var rec rawComment
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ticket.Comment{}, fmt.Errorf("%w: %v", internalerr.ErrParse, err)
	}
	created, err := ticket.ParseTime(rec.CreatedAt)
	if err != nil {
		return ticket.Comment{}, fmt.Errorf("created_at: %w", err)
	}

	var body string
	switch {
	case rec.PlainBody != nil:
		body = *rec.PlainBody
	case rec.HTMLBody != "":
		body = cleanse.StripMarkup(rec.HTMLBody)
	default:
		return ticket.Comment{}, fmt.Errorf("%w: comment %d has no body", internalerr.ErrFormat, rec.ID)
	}

	return ticket.Comment{
		ID:        rec.ID,
		CreatedAt: created,
		Body:      c.Cleanse(body),
		Cleansed:  true,
	}, nil
}

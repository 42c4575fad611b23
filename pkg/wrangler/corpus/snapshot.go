package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Terry-BrooksJr/ML-Data-Wrangler/pkg/wrangler/ticket"
)

const dateLayout = "2006-01-02"

// SnapshotPaths names the files written by one Assemble.
type SnapshotPaths struct {
	Tickets string
	Corpus  string
}

// SnapshotNames returns the snapshot file names for a day. Runs on the same
// day overwrite each other.
func SnapshotNames(dir string, day time.Time) SnapshotPaths {
	date := day.Format(dateLayout)
	return SnapshotPaths{
		Tickets: filepath.Join(dir, "tickets-"+date+".json"),
		Corpus:  filepath.Join(dir, "corpus-"+date+".json"),
	}
}

func writeSnapshots(dir string, now time.Time, tickets []*ticket.Ticket, c *Corpus, f Format) (SnapshotPaths, error) {
	paths := SnapshotNames(dir, now)

	if tickets == nil {
		tickets = []*ticket.Ticket{}
	}
	ticketData, err := encodeJSON(tickets, true)
	if err != nil {
		return paths, fmt.Errorf("encode tickets: %w", err)
	}
	corpusData, err := c.encode(f)
	if err != nil {
		return paths, fmt.Errorf("encode corpus: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	if err := writeFileAtomic(paths.Tickets, ticketData); err != nil {
		return paths, err
	}
	if err := writeFileAtomic(paths.Corpus, corpusData); err != nil {
		return paths, err
	}
	return paths, nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// reader never sees a partial snapshot.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

package evidence

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Submission is one uploaded piece of evidence tied to a train run.
type Submission struct {
	Content     io.Reader
	Size        int64
	ContentType string
	RunNumber   string
	GPS         string // opaque client-reported position, never parsed
	TakenAt     time.Time
}

// Receipt points at the stored evidence.
type Receipt struct {
	Key       string // storage key relative to the backend root/bucket
	Reference string // filesystem path or public URL
}

// Store persists evidence content under a deterministic key.
type Store interface {
	Save(ctx context.Context, sub Submission) (Receipt, error)
}

// StorageKey builds the canonical object key for a submission,
// reports/20060102-150405_RUN{run}.jpg in UTC.
func StorageKey(runNumber string, takenAt time.Time) string {
	return fmt.Sprintf("reports/%s_RUN%s.jpg", takenAt.UTC().Format("20060102-150405"), runNumber)
}

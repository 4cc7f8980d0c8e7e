package evidence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report is one recorded evidence submission. The stored photo is the
// artifact; the report row is bookkeeping around it.
type Report struct {
	ID          uuid.UUID `json:"id"`
	RunNumber   string    `json:"runNumber"`
	GPS         string    `json:"gps"`
	StorageKey  string    `json:"storageKey"`
	Reference   string    `json:"reference"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Index records submission metadata alongside the stored blob.
type Index interface {
	Record(ctx context.Context, r Report) error
	Recent(ctx context.Context, limit int) ([]Report, error)
	Close() error
}

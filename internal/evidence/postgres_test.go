package evidence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPostgresIndexRoundTrip(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	ctx := context.Background()
	idx, err := NewPostgresIndex(ctx, databaseURL)
	if err != nil {
		t.Fatalf("NewPostgresIndex failed: %v", err)
	}
	defer idx.Close()

	r := Report{
		ID:          uuid.New(),
		RunNumber:   "101",
		GPS:         "41.8781,-87.6298",
		StorageKey:  "reports/20240314-080000_RUN101.jpg",
		Reference:   "https://example.com/reports/20240314-080000_RUN101.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   10240,
		SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := idx.Record(ctx, r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	reports, err := idx.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].ID != r.ID {
		t.Errorf("expected newest report %s, got %s", r.ID, reports[0].ID)
	}
}

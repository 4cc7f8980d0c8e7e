package evidence

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local writes evidence files under a root directory on disk.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory: %w", err)
	}
	return &Local{root: root}, nil
}

// Save writes the submission to root/key. The partial file is removed when
// the write or close fails.
func (l *Local) Save(ctx context.Context, sub Submission) (Receipt, error) {
	key := StorageKey(sub.RunNumber, sub.TakenAt)
	path := filepath.Join(l.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Receipt{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create evidence file: %w", err)
	}

	_, copyErr := io.Copy(f, sub.Content)
	closeErr := f.Close()
	if copyErr != nil {
		os.Remove(path)
		return Receipt{}, fmt.Errorf("failed to write evidence file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(path)
		return Receipt{}, fmt.Errorf("failed to close evidence file: %w", closeErr)
	}

	return Receipt{Key: key, Reference: path}, nil
}

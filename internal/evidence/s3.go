package evidence

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage uploads evidence to an S3-compatible bucket.
type ObjectStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewObjectStorage creates a client for the given endpoint and bucket.
// Credential and bucket problems surface on the first Save, not here.
func NewObjectStorage(endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*ObjectStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return &ObjectStorage{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
	}, nil
}

// Save uploads the submission and returns its public URL.
func (o *ObjectStorage) Save(ctx context.Context, sub Submission) (Receipt, error) {
	key := StorageKey(sub.RunNumber, sub.TakenAt)

	_, err := o.client.PutObject(ctx, o.bucket, key, sub.Content, sub.Size, minio.PutObjectOptions{
		ContentType: sub.ContentType,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to upload evidence to bucket %s: %w", o.bucket, err)
	}

	scheme := "http"
	if o.useSSL {
		scheme = "https"
	}
	return Receipt{
		Key:       key,
		Reference: fmt.Sprintf("%s://%s/%s/%s", scheme, o.endpoint, o.bucket, key),
	}, nil
}

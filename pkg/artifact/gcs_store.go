package artifact

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSStore keeps artifacts in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

var _ Store = &GCSStore{}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is required for the gcs artifact backend")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, data []byte, pathHint, contentType string) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(pathHint).If(storage.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize artifact upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, pathHint), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSProvider implements Provider on Google Cloud Storage. Authentication is
// handled via Application Default Credentials.
type GCSProvider struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSProvider creates a client and verifies bucket access, failing fast on
// misconfiguration. prefix, when set, namespaces all object keys.
func NewGCSProvider(ctx context.Context, bucket, prefix string) (*GCSProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("access gcs bucket %q: %w", bucket, err)
	}
	return &GCSProvider{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads one snapshot and returns its gs:// URI.
func (g *GCSProvider) Put(ctx context.Context, key string, data []byte) (string, error) {
	if g.prefix != "" {
		key = g.prefix + "/" + key
	}
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "text/html; charset=utf-8"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gcs object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gcs object %s: %w", key, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, key), nil
}

// Close releases the underlying client.
func (g *GCSProvider) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close gcs client: %w", err)
	}
	return nil
}

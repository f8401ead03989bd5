package storage

import (
	"context"
	"fmt"
	"path"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/secmon-lab/ccirating/pkg/utils/safe"
)

// GCS stores report artifacts in a Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCS creates a GCS storage writing objects under bucket/prefix
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Put uploads data and returns the gs:// URI of the object
func (s *GCS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	objectName := path.Join(s.prefix, name)

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w, "gcs object")
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", s.bucket), goerr.V("object", objectName))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", s.bucket), goerr.V("object", objectName))
	}

	uri := fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
	logging.From(ctx).Info("report uploaded", "uri", uri, "size", len(data))
	return uri, nil
}

// Close releases the underlying client
func (s *GCS) Close() error {
	return s.client.Close()
}

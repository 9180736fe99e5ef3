package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/utils/safe"
)

// GCS stores objects in a Google Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

var _ interfaces.BlobStorage = &GCS{}

type GCSOption func(*GCS)

// WithObjectPrefix prepends prefix to every object path
func WithObjectPrefix(prefix string) GCSOption {
	return func(s *GCS) {
		s.prefix = prefix
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &GCS{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GCS) object(objectPath string) *gcs.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + objectPath)
}

func (s *GCS) Put(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	// Cancelling the writer context aborts the upload instead of committing a partial object
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.object(objectPath).NewWriter(writeCtx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		safe.Close(ctx, w, "path", objectPath)
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
	}
	return nil
}

func (s *GCS) Get(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	reader, err := s.object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
	}
	return reader, nil
}

func (s *GCS) Delete(ctx context.Context, objectPath string) error {
	if err := s.object(objectPath).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("bucket", s.bucket), goerr.V("path", objectPath))
	}
	return nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}

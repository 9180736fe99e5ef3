package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/service/storage"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the evidence vault
type Storage struct {
	backend string
	bucket  string
	prefix  string
	maxSize int64
}

// Flags returns CLI flags for evidence storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Evidence storage backend (gcs, memory or none)",
			Value:       "none",
			Category:    "Evidence",
			Sources:     cli.EnvVars("AEGIS_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket for evidence files (required when using gcs backend)",
			Category:    "Evidence",
			Sources:     cli.EnvVars("AEGIS_GCS_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the evidence bucket",
			Category:    "Evidence",
			Sources:     cli.EnvVars("AEGIS_GCS_PREFIX"),
			Destination: &s.prefix,
		},
		&cli.Int64Flag{
			Name:        "evidence-max-size",
			Usage:       "Maximum size of one evidence file in bytes",
			Value:       20 << 20,
			Category:    "Evidence",
			Sources:     cli.EnvVars("AEGIS_EVIDENCE_MAX_SIZE"),
			Destination: &s.maxSize,
		},
	}
}

func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.backend),
		slog.String("bucket", s.bucket),
		slog.String("prefix", s.prefix),
		slog.Int64("max_size", s.maxSize),
	)
}

// MaxSize returns the evidence upload limit
func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

// Configure returns the blob storage for evidence files, or nil when the vault is disabled.
// The returned function releases the storage client.
func (s *Storage) Configure(ctx context.Context) (interfaces.BlobStorage, func(), error) {
	switch s.backend {
	case "", "none":
		logging.Default().Info("Evidence storage not configured, evidence upload is disabled")
		return nil, func() {}, nil

	case "memory":
		logging.Default().Info("Using in-memory evidence storage (development mode)")
		return storage.NewMemory(), func() {}, nil

	case "gcs":
		if s.bucket == "" {
			return nil, nil, goerr.New("gcs-bucket is required when using gcs storage backend")
		}

		var opts []storage.GCSOption
		if s.prefix != "" {
			opts = append(opts, storage.WithObjectPrefix(s.prefix))
		}
		gcs, err := storage.NewGCS(ctx, s.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize evidence storage")
		}
		logging.Default().Info("Using Cloud Storage for evidence", "storage", s)

		closer := func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Error("failed to close storage client", "error", err.Error())
			}
		}
		return gcs, closer, nil

	default:
		return nil, nil, goerr.New("invalid storage backend", goerr.V("backend", s.backend))
	}
}

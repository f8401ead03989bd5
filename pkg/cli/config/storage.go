package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/service/storage"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ReportStorage holds CLI flags for publishing reports to Cloud Storage
type ReportStorage struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for report storage configuration
func (r *ReportStorage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-bucket",
			Usage:       "Cloud Storage bucket for published reports",
			Category:    "Report",
			Sources:     cli.EnvVars("CCIRATING_REPORT_BUCKET"),
			Destination: &r.bucket,
		},
		&cli.StringFlag{
			Name:        "report-prefix",
			Usage:       "Object name prefix for published reports",
			Value:       "reports",
			Category:    "Report",
			Sources:     cli.EnvVars("CCIRATING_REPORT_PREFIX"),
			Destination: &r.prefix,
		},
	}
}

// IsConfigured returns true when a bucket is set
func (r *ReportStorage) IsConfigured() bool {
	return r.bucket != ""
}

// Configure returns the report storage, or nil when no bucket is set.
// The returned function releases the client.
func (r *ReportStorage) Configure(ctx context.Context) (interfaces.ReportStorage, func(), error) {
	if !r.IsConfigured() {
		return nil, func() {}, nil
	}

	gcs, err := storage.NewGCS(ctx, r.bucket, r.prefix)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize report storage")
	}

	logging.Default().Info("Publishing reports to Cloud Storage", "bucket", r.bucket, "prefix", r.prefix)
	return gcs, func() {
		if err := gcs.Close(); err != nil {
			logging.Default().Error("failed to close report storage", "error", err.Error())
		}
	}, nil
}

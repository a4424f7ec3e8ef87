package output

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/render"
	"github.com/scan-io-git/revio/internal/upload"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/files"
)

// Options selects where and how a report is delivered.
type Options struct {
	Format     string
	OutputPath string
	Upload     bool
}

// Uploader stores a rendered report remotely.
type Uploader interface {
	Upload(ctx context.Context, obj upload.Object) (string, error)
}

// UploaderFactory creates the uploader on demand, so no AWS session is opened unless requested.
type UploaderFactory func() (Uploader, error)

// Writer renders reports to stdout, an optional file and optional remote storage.
type Writer struct {
	logger      hclog.Logger
	stdout      io.Writer
	newUploader UploaderFactory
}

// New creates a Writer backed by S3 uploads from cfg.
func New(logger hclog.Logger, stdout io.Writer, cfg *config.Config) *Writer {
	return NewWithUploader(logger, stdout, func() (Uploader, error) {
		return upload.NewS3Uploader(logger.Named("upload"), cfg.Upload.S3)
	})
}

// NewWithUploader creates a Writer with a custom uploader factory.
func NewWithUploader(logger hclog.Logger, stdout io.Writer, newUploader UploaderFactory) *Writer {
	return &Writer{logger: logger, stdout: stdout, newUploader: newUploader}
}

// Deliver renders the report once and sends it to every requested destination.
// The report is always printed, then written to OutputPath and uploaded when requested.
func (w *Writer) Deliver(ctx context.Context, report *findings.ReviewReport, reviewID string, opts Options) error {
	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	data, err := render.Render(report, format)
	if err != nil {
		return err
	}

	if _, err := w.stdout.Write(data); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if opts.OutputPath != "" {
		if err := files.WriteFile(opts.OutputPath, data); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		w.logger.Info("report saved", "path", opts.OutputPath)
	}

	if opts.Upload {
		uploader, err := w.newUploader()
		if err != nil {
			return err
		}
		if _, err := uploader.Upload(ctx, upload.Object{
			ReviewID:    reviewID,
			Name:        "report" + format.Extension(),
			ContentType: format.ContentType(),
			Body:        data,
		}); err != nil {
			return err
		}
	}
	return nil
}

package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/pkg/shared/config"
)

// ErrBucketNotConfigured is returned when an upload is requested without a target bucket.
var ErrBucketNotConfigured = errors.New("s3 bucket is not configured (set upload.s3.bucket or REVIO_S3_BUCKET)")

// Object is a rendered report ready to be stored.
type Object struct {
	ReviewID    string
	Name        string
	ContentType string
	Body        []byte
}

// S3Uploader stores rendered reports in an S3 bucket.
type S3Uploader struct {
	logger   hclog.Logger
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
func NewS3Uploader(logger hclog.Logger, cfg config.S3) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketNotConfigured
	}

	awsConfig := &aws.Config{}
	if cfg.Region != "" {
		awsConfig.Region = aws.String(cfg.Region)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3UploaderWithAPI(logger, s3manager.NewUploader(sess), cfg), nil
}

// NewS3UploaderWithAPI creates an uploader around an existing s3manager client.
func NewS3UploaderWithAPI(logger hclog.Logger, api s3manageriface.UploaderAPI, cfg config.S3) *S3Uploader {
	return &S3Uploader{
		logger:   logger,
		uploader: api,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}
}

// Key builds the object key "<prefix>/<review id>/<name>". A missing review id gets a fresh uuid.
func (u *S3Uploader) Key(obj Object) string {
	id := obj.ReviewID
	if id == "" {
		id = uuid.New().String()
	}
	return path.Join(u.prefix, id, obj.Name)
}

// Upload stores the object and returns its location.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) (string, error) {
	key := u.Key(obj)
	u.logger.Debug("uploading report", "bucket", u.bucket, "key", key, "size", len(obj.Body))

	input := &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(obj.Body),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	result, err := u.uploader.UploadWithContext(ctx, input)
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			u.logger.Warn("s3 error", "code", aerr.Code(), "message", aerr.Message())
		}
		return "", fmt.Errorf("failed to upload report to s3://%s/%s: %w", u.bucket, key, err)
	}

	u.logger.Info("report uploaded", "location", result.Location)
	return result.Location, nil
}

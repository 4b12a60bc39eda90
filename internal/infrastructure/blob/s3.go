// Package blob stores document bytes and rejection records in S3-compatible
// object storage.
package blob

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chittyos/intake/internal/bootstrap/config"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// NewS3Client loads the ambient AWS configuration. A non-empty endpoint
// switches to path-style addressing for S3-compatible stores (minio et al).
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errs.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// S3Store implements ports.BlobStore against one bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, put ports.BlobPut) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	input := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(put.Key),
		Body:                 bytes.NewReader(put.Body),
		ContentType:          aws.String(put.ContentType),
		Metadata:             put.Metadata,
		ServerSideEncryption: s3types.ServerSideEncryptionAwsKms,
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return errs.Wrapf(err, "put object %q", put.Key)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if ctx == nil {
		return nil, "", errors.New("context is required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", errs.Wrapf(err, "get object %q", key)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", errs.Wrapf(err, "read object %q", key)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return body, contentType, nil
}

// S3RejectionArchive implements ports.RejectionArchive: write-only,
// date-partitioned, one JSON object per submission.
type S3RejectionArchive struct {
	client *s3.Client
	bucket string
}

func NewS3RejectionArchive(client *s3.Client, bucket string) *S3RejectionArchive {
	return &S3RejectionArchive{client: client, bucket: bucket}
}

func (a *S3RejectionArchive) Archive(ctx context.Context, submissionID string, rejectedAt string, payload []byte) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	key := RejectionKey(rejectedAt, submissionID)
	input := &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(payload),
		ContentType:          aws.String("application/json"),
		ServerSideEncryption: s3types.ServerSideEncryptionAwsKms,
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", errs.Wrapf(err, "archive rejection %q", submissionID)
	}
	return key, nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver keeps a copy of every produced export.
type Archiver interface {
	Archive(ctx context.Context, businessID, ext, contentType string, data []byte, at time.Time) (string, error)
}

func ObjectKey(businessID, ext string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.%s", businessID, at.UTC().Format("2006-01-02"), ext)
}

type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, string, string, string, []byte, time.Time) (string, error) {
	return "", nil
}

type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client putObjectAPI
	bucket string
}

func NewS3Archiver(cfg S3Config) *S3Archiver {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return &S3Archiver{client: s3.New(opts), bucket: cfg.Bucket}
}

func (a *S3Archiver) Archive(
	ctx context.Context,
	businessID, ext, contentType string,
	data []byte,
	at time.Time,
) (string, error) {

	key := ObjectKey(businessID, ext, at)
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

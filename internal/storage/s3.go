package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	// BaseEndpoint points the client at an S3-compatible service such as MinIO.
	BaseEndpoint string
	// PublicBaseURL prefixes object keys in returned URLs.
	PublicBaseURL string
}

// S3Storage uploads photos to an S3 bucket.
type S3Storage struct {
	client        s3PutObjectAPI
	bucketName    string
	publicBaseURL string
	now           func() time.Time
}

func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Storage(client, opts), nil
}

func newS3Storage(client s3PutObjectAPI, opts S3Options) *S3Storage {
	base := strings.TrimSuffix(opts.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.BucketName, opts.Region)
	}

	return &S3Storage{
		client:        client,
		bucketName:    opts.BucketName,
		publicBaseURL: base,
		now:           time.Now,
	}
}

// Upload stores body under a fresh key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	// PutObject signs the payload, which needs a seekable body.
	data, err := io.ReadAll(io.LimitReader(body, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := objectName(s.now(), contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

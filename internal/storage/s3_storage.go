package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3BlobStore stores images in an S3-compatible bucket. A custom endpoint
// covers Cloudflare R2 and other S3 clones.
type S3BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// S3Options carries the explicit credentials and endpoint for the store; no
// environment lookups happen here.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
}

// NewS3BlobStore builds an S3 client from static credentials.
func NewS3BlobStore(ctx context.Context, opts S3Options) (*S3BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3BlobStore{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: opts.BaseURL,
	}, nil
}

// EnsureBucket creates the bucket, tolerating one that already exists.
func (s *S3BlobStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: &s.bucket,
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("bucket provisioning failed: %w", err)
	}
	return nil
}

// Upload puts the object and returns its public URL.
func (s *S3BlobStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (ImageReference, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &filename,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	return ImageReference(s.PublicURL(filename)), nil
}

// PublicURL returns the object URL under the configured public base URL.
func (s *S3BlobStore) PublicURL(filename string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, filename)
}

// Package imagestore uploads locally referenced images to S3-compatible
// storage (MinIO in development) before the owning record is created.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("image store not configured")

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL prefixes returned object URLs; defaults to Endpoint.
	PublicURL string
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements client.ImageUploader.
type S3Uploader struct {
	api       putter
	bucket    string
	publicURL string
}

func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, ErrNotConfigured
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	public := opts.PublicURL
	if public == "" {
		public = opts.Endpoint
	}

	return &S3Uploader{api: api, bucket: opts.Bucket, publicURL: strings.TrimRight(public, "/")}, nil
}

// ObjectKey returns the storage key for an image uploaded on behalf of objectID.
func ObjectKey(objectID, localPath string) string {
	return "images/" + objectID + strings.ToLower(filepath.Ext(localPath))
}

// Upload stores the file at localPath and returns its URL.
func (u *S3Uploader) Upload(ctx context.Context, objectID, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	key := ObjectKey(objectID, localPath)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := u.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL + "/" + u.bucket + "/" + key, nil
}

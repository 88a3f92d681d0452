package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores a binary object and returns its public URL plus the storage
// key it was written under. Handlers depend on this interface so tests can
// substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
}

// S3Store uploads design images to a single bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// ImageKey builds the storage key for a design image. The timestamp keeps a
// re-uploaded file with the same name from overwriting the previous object.
func ImageKey(prefix, designID, filename string) string {
	return fmt.Sprintf("%s/%s/%d-%s", prefix, designID, time.Now().UnixMilli(), filename)
}

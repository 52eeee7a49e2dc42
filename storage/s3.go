package storage

import (
	"context"
	"fmt"
	"io"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps receipts in a bucket. URLs are built from publicBaseURL, which
// is the bucket's virtual-host URL unless a CDN or custom endpoint is used.
type S3Store struct {
	client        s3API
	bucket        string
	prefix        string
	publicBaseURL string
}

func NewS3Store(client *s3.Client, bucket, prefix, publicBaseURL string) *S3Store {
	return newS3Store(client, bucket, prefix, publicBaseURL)
}

func newS3Store(client s3API, bucket, prefix, publicBaseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, publicBaseURL: publicBaseURL}
}

// BucketURL is the default public base URL for a bucket.
func BucketURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return joinURL(endpoint, bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error) {
	objectKey := s.objectKey(key)
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(objectKey),
		Body:   r,
	}
	if size > 0 {
		input.ContentLength = sdkaws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", objectKey, err)
	}
	return &StoredObject{Key: objectKey, URL: joinURL(s.publicBaseURL, objectKey)}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return joinURL(s.prefix, key)
}

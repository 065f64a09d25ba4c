// internal/app/system/media/media.go

// Package media stores uploaded product images in an S3-compatible object
// store and hands back the public URL that goes into the product document.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the object-store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL overrides the endpoint in returned URLs when the bucket is
	// served through a CDN or reverse proxy.
	PublicURL string
}

// Store wraps a MinIO client bound to one bucket.
type Store struct {
	core      *minio.Client
	bucket    string
	publicURL string
}

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	core, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	if err := ensureBucket(ctx, core, cfg.Bucket, cfg.Region); err != nil {
		return nil, err
	}

	return &Store{core: core, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
}

// Put uploads an object under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.core.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.objectURL(key), nil
}

// Delete removes an object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.core.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *Store) objectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicURL, "/"), key)
	}

	endpoint := s.core.EndpointURL()
	if endpoint != nil {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint.String(), "/"), s.bucket, key)
	}

	return fmt.Sprintf("/%s/%s", s.bucket, key)
}

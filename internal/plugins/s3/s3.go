package s3

import (
	"context"
	"net/url"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore presigns uploads and downloads against the attachment
// bucket. Clients talk to the bucket directly; this service never
// proxies attachment bytes.
type ObjectStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func New(ctx context.Context, cfg config.S3Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, err
		}
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		expiry: cfg.PresignExpiry,
	}, nil
}

func (s *ObjectStore) PresignPut(ctx context.Context, objectID uuid.UUID, contentType string) (string, error) {
	u, err := s.client.PresignHeader(ctx, "PUT", s.bucket, objectID.String(), s.expiry,
		url.Values{}, map[string][]string{"Content-Type": {contentType}})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *ObjectStore) PresignGet(ctx context.Context, objectID uuid.UUID) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectID.String(), s.expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

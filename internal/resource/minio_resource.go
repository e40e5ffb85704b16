package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

// MinioResource MinIO client plus the bucket packages are published to.
type MinioResource struct {
	cfg        config.MinioConfig
	client     *minio.Client
	bucketName string
	logger     *logger.Logger
}

func NewMinioResource(cfg config.MinioConfig, log *logger.Logger) *MinioResource {
	return &MinioResource{cfg: cfg, bucketName: cfg.BucketName, logger: log}
}

func (r *MinioResource) Name() string { return "minio" }

// Open creates the client and makes sure the bucket exists.
func (r *MinioResource) Open(ctx context.Context) error {
	if r.cfg.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if r.bucketName == "" {
		return errors.New("minio bucket_name is required")
	}

	client, err := minio.New(r.cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(r.cfg.AccessKeyID, r.cfg.SecretAccessKey, ""),
		Secure: r.cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	r.client = client

	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	r.logger.Info("MinIO resource initialized", map[string]interface{}{
		"endpoint":    r.cfg.Endpoint,
		"bucket_name": r.bucketName,
	})
	return nil
}

// ensureBucket creates the bucket when missing
func (r *MinioResource) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check minio bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create minio bucket: %w", err)
	}
	return nil
}

// GetClient returns the MinIO client
func (r *MinioResource) GetClient() *minio.Client {
	return r.client
}

// GetBucketName returns the bucket name
func (r *MinioResource) GetBucketName() string {
	return r.bucketName
}

// Close is a no-op; minio-go holds no persistent connections.
func (r *MinioResource) Close() {}

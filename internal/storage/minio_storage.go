package storage

import (
	"context"
	"fmt"

	"go-wallpaper-browser/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinioGallery commits wallpapers as objects in an S3-compatible bucket
type MinioGallery struct {
	client *minio.Client
	bucket string
}

// NewMinioGallery connects and makes sure the bucket exists
func NewMinioGallery(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioGallery, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucket, err)
		}
		logger.WithField("bucket", bucket).Info("Created gallery bucket")
	}

	return &MinioGallery{client: client, bucket: bucket}, nil
}

func (g *MinioGallery) Name() string { return "minio" }

func (g *MinioGallery) Save(ctx context.Context, path, name string) (string, error) {
	info, err := g.client.FPutObject(ctx, g.bucket, name, path, minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", name, g.bucket, err)
	}

	logger.WithFields(logrus.Fields{
		"bucket": info.Bucket,
		"key":    info.Key,
		"size":   info.Size,
	}).Debug("Wallpaper uploaded")

	return fmt.Sprintf("%s/%s/%s", g.client.EndpointURL().String(), g.bucket, name), nil
}

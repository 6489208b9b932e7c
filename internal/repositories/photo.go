package repositories

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"user-accounts/internal/logger"
)

// PhotoRepository stores profile images in MinIO and hands back the
// public URL recorded on the user document.
type PhotoRepository struct {
	client    *minio.Client
	bucket    string
	publicURL string
	timeout   time.Duration
}

// NewPhotoRepository creates a photo store. publicURL is the external
// base under which uploaded objects are reachable.
func NewPhotoRepository(client *minio.Client, bucket, publicURL string, timeout time.Duration) *PhotoRepository {
	return &PhotoRepository{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		timeout:   timeout,
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (r *PhotoRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		logger.Log.Infow("photo bucket created", "bucket", r.bucket)
	}
	return nil
}

// Upload stores a profile image and returns its public URL. The object
// key is derived from a fresh uuid so re-uploads never collide.
func (r *PhotoRepository) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), path.Ext(filename))

	_, err := r.client.PutObject(ctx, r.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})

	logger.Log.Infow("photo.upload",
		"bucket", r.bucket,
		"key", key,
		"size", size,
		"error", err,
	)

	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", r.publicURL, r.bucket, key), nil
}

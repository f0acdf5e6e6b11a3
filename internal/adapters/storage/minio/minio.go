package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"starmus/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PutObject streams reader into key. A negative size makes minio buffer into multipart parts.
func (a *Adapter) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := a.client.PutObject(ctx, a.config.BucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// DownloadFile copies an object to a local path
func (a *Adapter) DownloadFile(ctx context.Context, key string, path string) error {
	if err := a.client.FGetObject(ctx, a.config.BucketName, key, path, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download object %s: %w", key, err)
	}
	return nil
}

// UploadFile stores a local file under key
func (a *Adapter) UploadFile(ctx context.Context, key string, path string, contentType string) error {
	_, err := a.client.FPutObject(ctx, a.config.BucketName, key, path, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", key, err)
	}
	return nil
}

// DeleteObject removes key, a missing key is not an error
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// DeletePrefix deletes every object under prefix
func (a *Adapter) DeletePrefix(ctx context.Context, prefix string) error {
	objects := a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	removed := 0
	var firstErr error
	for result := range a.client.RemoveObjects(ctx, a.config.BucketName, countObjects(objects, &removed), minio.RemoveObjectsOptions{}) {
		if result.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to delete object %s: %w", result.ObjectName, result.Err)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	a.logger.Info("prefix deleted",
		slog.String("prefix", prefix),
		slog.Int("objects", removed),
		slog.String("bucket", a.config.BucketName))

	return nil
}

func countObjects(in <-chan minio.ObjectInfo, count *int) <-chan minio.ObjectInfo {
	out := make(chan minio.ObjectInfo)
	go func() {
		defer close(out)
		for object := range in {
			if object.Err != nil {
				continue
			}
			*count++
			out <- object
		}
	}()
	return out
}

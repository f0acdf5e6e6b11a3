package port

import (
	"context"
	"io"
)

// BlobStorage is an interface to define blob storage interactions
type BlobStorage interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DownloadFile(ctx context.Context, key string, path string) error
	UploadFile(ctx context.Context, key string, path string, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vidfriends/client/internal/config"
)

// MinioSource streams objects from a MinIO server.
type MinioSource struct {
	client *minio.Client
}

func NewMinioSource(cfg config.ObjectStoreConfig) (*MinioSource, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio: %w", ErrNotConfigured)
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioSource{client: client}, nil
}

// Open streams the object. Stat is called up front so a missing object
// fails here rather than halfway through an upload.
func (m *MinioSource) Open(ctx context.Context, bucket, key string) (*Media, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get %s/%s: %w", bucket, key, err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, fmt.Errorf("minio stat %s/%s: %w", bucket, key, err)
	}
	return &Media{Name: objectName(key), Size: info.Size, Body: obj}, nil
}

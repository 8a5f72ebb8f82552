package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidfriends/client/internal/config"
)

// S3Source downloads objects from S3 or an S3-compatible endpoint.
type S3Source struct {
	downloader *manager.Downloader
}

// NewS3Source builds a downloader from the default AWS credential chain.
func NewS3Source(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Source, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.S3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 8 * 1024 * 1024
	})
	return &S3Source{downloader: downloader}, nil
}

// Open downloads the object into a temporary file so its size is known
// before the multipart body is written.
func (s *S3Source) Open(ctx context.Context, bucket, key string) (*Media, error) {
	tmp, err := os.CreateTemp("", "vidtube-*"+path.Ext(key))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	body := &tempFile{File: tmp}

	n, err := s.downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		body.Close()
		return nil, fmt.Errorf("rewind temp file: %w", err)
	}

	return &Media{Name: objectName(key), Size: n, Body: body}, nil
}

// tempFile removes itself on Close.
type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	closeErr := t.File.Close()
	if err := os.Remove(t.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return closeErr
}

// Package storage opens the media a command uploads. A location is either
// a local path or an object in S3 or MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/vidfriends/client/internal/config"
	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/logging"
)

// Location schemes.
const (
	SchemeLocal = "file"
	SchemeS3    = "s3"
	SchemeMinio = "minio"
)

var (
	// ErrNotConfigured indicates a remote scheme whose store has no settings.
	ErrNotConfigured = errors.New("object store not configured")
	// ErrBadLocation indicates a location that cannot be parsed.
	ErrBadLocation = errors.New("invalid media location")
)

// Media is an opened payload. Close releases it, removing any temporary
// copy made while fetching it.
type Media struct {
	Name string
	Size int64
	Body io.ReadCloser
}

// File adapts the media to a multipart file part.
func (m *Media) File() forms.File {
	return forms.File{Name: m.Name, Size: m.Size, Content: m.Body}
}

func (m *Media) Close() error {
	if m == nil || m.Body == nil {
		return nil
	}
	return m.Body.Close()
}

// Backend fetches one object from a bucket.
type Backend interface {
	Open(ctx context.Context, bucket, key string) (*Media, error)
}

// Opener resolves locations to media. Remote backends are created on
// first use so a purely local upload never loads cloud credentials.
type Opener struct {
	cfg config.ObjectStoreConfig

	mu       sync.Mutex
	backends map[string]Backend
}

func NewOpener(cfg config.ObjectStoreConfig) *Opener {
	return &Opener{cfg: cfg, backends: map[string]Backend{}}
}

// Register installs a backend for scheme, replacing the default one.
func (o *Opener) Register(scheme string, b Backend) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.backends[scheme] = b
}

// Open resolves location and opens it.
func (o *Opener) Open(ctx context.Context, location string) (*Media, error) {
	scheme, bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var media *Media
	if scheme == SchemeLocal {
		media, err = openLocal(key)
	} else {
		var backend Backend
		backend, err = o.backend(ctx, scheme)
		if err == nil {
			media, err = backend.Open(ctx, bucket, key)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}

	logging.FromContext(ctx).Debug("media opened",
		slog.String("location", location),
		slog.String("size", humanize.Bytes(uint64(max(media.Size, 0)))),
	)
	return media, nil
}

func (o *Opener) backend(ctx context.Context, scheme string) (Backend, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if b, ok := o.backends[scheme]; ok {
		return b, nil
	}

	var (
		b   Backend
		err error
	)
	switch scheme {
	case SchemeS3:
		b, err = NewS3Source(ctx, o.cfg)
	case SchemeMinio:
		b, err = NewMinioSource(o.cfg)
	default:
		err = fmt.Errorf("%w: unsupported scheme %q", ErrBadLocation, scheme)
	}
	if err != nil {
		return nil, err
	}
	o.backends[scheme] = b
	return b, nil
}

// ParseLocation splits a location into scheme, bucket and key. Anything
// without a recognised scheme prefix is a local path, returned as key.
func ParseLocation(location string) (scheme, bucket, key string, err error) {
	if strings.TrimSpace(location) == "" {
		return "", "", "", fmt.Errorf("%w: empty location", ErrBadLocation)
	}

	for _, s := range []string{SchemeS3, SchemeMinio} {
		rest, ok := strings.CutPrefix(location, s+"://")
		if !ok {
			continue
		}
		bucket, key, _ = strings.Cut(rest, "/")
		key = strings.TrimLeft(key, "/")
		if bucket == "" || key == "" {
			return "", "", "", fmt.Errorf("%w: %q needs bucket and key", ErrBadLocation, location)
		}
		return s, bucket, key, nil
	}

	return SchemeLocal, "", strings.TrimPrefix(location, "file://"), nil
}

func openLocal(p string) (*Media, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return &Media{Name: filepath.Base(p), Size: info.Size(), Body: f}, nil
}

func objectName(key string) string {
	return path.Base(key)
}

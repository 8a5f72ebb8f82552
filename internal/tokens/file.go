package tokens

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

var (
	// ErrWrongPassphrase indicates an encrypted token file could not be opened.
	ErrWrongPassphrase = errors.New("token file passphrase mismatch")

	sealedMagic = []byte("vtk1")
)

const (
	saltSize       = 16
	nonceSize      = 24
	lockRetryDelay = 20 * time.Millisecond
)

// FileStore keeps the token pair in a JSON file, optionally sealed with a
// passphrase. A sibling lock file serializes concurrent CLI invocations.
type FileStore struct {
	path       string
	passphrase []byte
	lock       *flock.Flock
}

// NewFileStore returns a file-backed Store. An empty passphrase stores the
// tokens as plain JSON with 0600 permissions.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("token file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token directory: %w", err)
	}
	return &FileStore{
		path:       path,
		passphrase: []byte(passphrase),
		lock:       flock.New(path + ".lock"),
	}, nil
}

// Get returns the stored token or "".
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	var value string
	err := s.withLock(ctx, func() error {
		values, err := s.read()
		if err != nil {
			return err
		}
		value = values[key]
		return nil
	})
	return value, err
}

// Set stores a single token.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.update(ctx, func(values map[string]string) {
		setOrDelete(values, key, value)
	})
}

// Delete removes a single token.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.update(ctx, func(values map[string]string) {
		delete(values, key)
	})
}

// SavePair writes both tokens in a single file replacement.
func (s *FileStore) SavePair(ctx context.Context, pair Pair) error {
	return s.update(ctx, func(values map[string]string) {
		setOrDelete(values, AccessTokenKey, pair.AccessToken)
		setOrDelete(values, RefreshTokenKey, pair.RefreshToken)
	})
}

// ClearPair removes the token file entirely.
func (s *FileStore) ClearPair(ctx context.Context) error {
	return s.withLock(ctx, func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove token file: %w", err)
		}
		return nil
	})
}

func (s *FileStore) update(ctx context.Context, mutate func(map[string]string)) error {
	return s.withLock(ctx, func() error {
		values, err := s.read()
		if err != nil {
			return err
		}
		mutate(values)
		return s.write(values)
	})
}

func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock token file: %w", err)
	}
	if !locked {
		return errors.New("lock token file: not acquired")
	}
	defer s.lock.Unlock()
	return fn()
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	if bytes.HasPrefix(raw, sealedMagic) {
		raw, err = s.open(raw)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	if len(s.passphrase) > 0 {
		raw, err = s.seal(raw)
		if err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// seal layout: magic | salt | nonce | secretbox(ciphertext).
func (s *FileStore) seal(plain []byte) ([]byte, error) {
	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	key, err := s.deriveKey(salt[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(sealedMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, sealedMagic...)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, key), nil
}

func (s *FileStore) open(sealed []byte) ([]byte, error) {
	if len(s.passphrase) == 0 {
		return nil, ErrWrongPassphrase
	}
	body := sealed[len(sealedMagic):]
	if len(body) < saltSize+nonceSize+secretbox.Overhead {
		return nil, errors.New("token file is truncated")
	}
	salt := body[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], body[saltSize:saltSize+nonceSize])

	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	plain, ok := secretbox.Open(nil, body[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrWrongPassphrase
	}
	return plain, nil
}

func (s *FileStore) deriveKey(salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key(s.passphrase, salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}

// Package tokens persists the access/refresh token pair between runs.
//
// The HTTP client reads the access token from the Store on every request;
// nothing above this package keeps a copy, so a rotated token is picked up
// by the very next call.
package tokens

import (
	"context"
	"errors"
)

// Keys under which the token pair is persisted.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// ErrUnknownKey is returned for keys other than the two token keys.
var ErrUnknownKey = errors.New("unknown token key")

// Store is a tiny key/value store for the token pair. Get returns an empty
// string and a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// PairStore is implemented by stores that can write or clear both tokens in
// one atomic step.
type PairStore interface {
	SavePair(ctx context.Context, pair Pair) error
	ClearPair(ctx context.Context) error
}

// Pair groups the bearer credentials issued at login or refresh.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Save persists both tokens, atomically when the store supports it.
func Save(ctx context.Context, s Store, pair Pair) error {
	if ps, ok := s.(PairStore); ok {
		return ps.SavePair(ctx, pair)
	}
	if err := s.Set(ctx, AccessTokenKey, pair.AccessToken); err != nil {
		return err
	}
	return s.Set(ctx, RefreshTokenKey, pair.RefreshToken)
}

// Clear removes both tokens. Both deletes are attempted even if the first fails.
func Clear(ctx context.Context, s Store) error {
	if ps, ok := s.(PairStore); ok {
		return ps.ClearPair(ctx)
	}
	return errors.Join(
		s.Delete(ctx, AccessTokenKey),
		s.Delete(ctx, RefreshTokenKey),
	)
}

// Load reads both tokens.
func Load(ctx context.Context, s Store) (Pair, error) {
	access, err := s.Get(ctx, AccessTokenKey)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.Get(ctx, RefreshTokenKey)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func validKey(key string) error {
	if key != AccessTokenKey && key != RefreshTokenKey {
		return ErrUnknownKey
	}
	return nil
}

// Package session holds the process-wide record of who is logged in.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/tokens"
)

var (
	// ErrNoRefreshToken indicates there is nothing stored to refresh with.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrNotAuthenticated indicates an operation needs a logged-in user.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrMissingToken indicates the server accepted a login but returned no access token.
	ErrMissingToken = errors.New("auth response carried no access token")
)

// Accounts is the subset of the accounts facade the session drives.
type Accounts interface {
	Register(ctx context.Context, r forms.Registration) (models.User, error)
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (models.AuthResult, error)
	ChangePassword(ctx context.Context, p forms.PasswordChange) error
}

// Manager owns the current user and the persisted token pair.
type Manager struct {
	accounts Accounts
	store    tokens.Store

	mu   sync.RWMutex
	user *models.User
}

// NewManager constructs a Manager. Both collaborators are required.
func NewManager(accounts Accounts, store tokens.Store) *Manager {
	if accounts == nil {
		panic("session: accounts facade must not be nil")
	}
	if store == nil {
		panic("session: token store must not be nil")
	}
	return &Manager{accounts: accounts, store: store}
}

// Init restores the session from a persisted access token. A rejected
// token is purged and the session stays anonymous; only a storage failure
// is returned.
func (m *Manager) Init(ctx context.Context) error {
	token, err := m.store.Get(ctx, tokens.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		m.setUser(nil)
		return nil
	}

	user, err := m.accounts.CurrentUser(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("discarding stored session", slog.Any("error", err))
		m.setUser(nil)
		if clearErr := tokens.Clear(ctx, m.store); clearErr != nil {
			return fmt.Errorf("purge tokens: %w", clearErr)
		}
		return nil
	}

	m.setUser(&user)
	return nil
}

// Login exchanges credentials for a token pair and installs the user.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	res, err := m.accounts.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	if res.AccessToken == "" {
		return models.User{}, ErrMissingToken
	}

	if err := tokens.Save(ctx, m.store, tokens.Pair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}); err != nil {
		return models.User{}, fmt.Errorf("persist tokens: %w", err)
	}

	user := res.User
	if user == nil {
		current, err := m.accounts.CurrentUser(ctx)
		if err != nil {
			if clearErr := tokens.Clear(ctx, m.store); clearErr != nil {
				logging.FromContext(ctx).Warn("purge tokens failed", slog.Any("error", clearErr))
			}
			return models.User{}, err
		}
		user = &current
	}

	m.setUser(user)
	logging.FromContext(ctx).Info("logged in", slog.String("user_id", user.ID))
	return *user, nil
}

// Register validates the form and submits it. It never installs a session;
// the caller logs in separately.
func (m *Manager) Register(ctx context.Context, r forms.Registration) (models.User, error) {
	if err := r.Validate(); err != nil {
		return models.User{}, err
	}
	return m.accounts.Register(ctx, r)
}

// Logout tells the server on a best-effort basis, then always purges the
// local tokens and user.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.accounts.Logout(ctx); err != nil {
		logging.FromContext(ctx).Warn("server logout failed", slog.Any("error", err))
	}
	m.setUser(nil)
	if err := tokens.Clear(ctx, m.store); err != nil {
		return fmt.Errorf("purge tokens: %w", err)
	}
	return nil
}

// Refresh trades the stored refresh token for a new pair. If the server
// does not rotate the refresh token the old one is kept.
func (m *Manager) Refresh(ctx context.Context) error {
	pair, err := tokens.Load(ctx, m.store)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if pair.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	res, err := m.accounts.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		return err
	}
	if res.AccessToken == "" {
		return ErrMissingToken
	}

	next := tokens.Pair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = pair.RefreshToken
	}
	if err := tokens.Save(ctx, m.store, next); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	if res.User != nil {
		m.setUser(res.User)
	}
	return nil
}

// ChangePassword checks the confirmation locally before calling out.
func (m *Manager) ChangePassword(ctx context.Context, p forms.PasswordChange) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !m.Authenticated() {
		return ErrNotAuthenticated
	}
	return m.accounts.ChangePassword(ctx, p)
}

// Reload re-fetches the current user, e.g. after a profile change.
func (m *Manager) Reload(ctx context.Context) (models.User, error) {
	user, err := m.accounts.CurrentUser(ctx)
	if err != nil {
		return models.User{}, err
	}
	m.setUser(&user)
	return user, nil
}

// User returns the logged-in user, if any.
func (m *Manager) User() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

func (m *Manager) Authenticated() bool {
	_, ok := m.User()
	return ok
}

// AccessTokenExpiry reads the exp claim of the stored access token without
// verifying its signature; the client does not hold the signing key. A zero
// time means no token or no exp claim.
func (m *Manager) AccessTokenExpiry(ctx context.Context) (time.Time, error) {
	token, err := m.store.Get(ctx, tokens.AccessTokenKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return time.Time{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}

func (m *Manager) setUser(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u == nil {
		m.user = nil
		return
	}
	copied := *u
	m.user = &copied
}

package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/tokens"
)

type accountsStub struct {
	calls []string

	loginResult   models.AuthResult
	loginErr      error
	logoutErr     error
	current       models.User
	currentErr    error
	refreshResult models.AuthResult
	refreshErr    error
	refreshedWith string
}

func (a *accountsStub) Register(_ context.Context, r forms.Registration) (models.User, error) {
	a.calls = append(a.calls, "register")
	return models.User{ID: "new", Username: r.Username}, nil
}

func (a *accountsStub) Login(_ context.Context, email, _ string) (models.AuthResult, error) {
	a.calls = append(a.calls, "login:"+email)
	return a.loginResult, a.loginErr
}

func (a *accountsStub) Logout(context.Context) error {
	a.calls = append(a.calls, "logout")
	return a.logoutErr
}

func (a *accountsStub) CurrentUser(context.Context) (models.User, error) {
	a.calls = append(a.calls, "current")
	return a.current, a.currentErr
}

func (a *accountsStub) RefreshToken(_ context.Context, refreshToken string) (models.AuthResult, error) {
	a.calls = append(a.calls, "refresh")
	a.refreshedWith = refreshToken
	return a.refreshResult, a.refreshErr
}

func (a *accountsStub) ChangePassword(context.Context, forms.PasswordChange) error {
	a.calls = append(a.calls, "passwd")
	return nil
}

func seed(t *testing.T, store tokens.Store, access, refresh string) {
	t.Helper()
	if err := tokens.Save(context.Background(), store, tokens.Pair{AccessToken: access, RefreshToken: refresh}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
}

func TestInitRestoresUser(t *testing.T) {
	store := tokens.NewMemoryStore()
	seed(t, store, "a", "r")
	accounts := &accountsStub{current: models.User{ID: "u1", Username: "ana"}}
	manager := NewManager(accounts, store)

	if err := manager.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	user, ok := manager.User()
	if !ok || user.Username != "ana" {
		t.Fatalf("expected ana to be logged in got %+v %v", user, ok)
	}
}

func TestInitWithoutTokenSkipsNetwork(t *testing.T) {
	accounts := &accountsStub{}
	manager := NewManager(accounts, tokens.NewMemoryStore())

	if err := manager.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(accounts.calls) != 0 || manager.Authenticated() {
		t.Fatalf("expected anonymous session without calls, got %v", accounts.calls)
	}
}

func TestInitPurgesRejectedToken(t *testing.T) {
	store := tokens.NewMemoryStore()
	seed(t, store, "expired", "r")
	manager := NewManager(&accountsStub{currentErr: errors.New("401")}, store)

	if err := manager.Init(context.Background()); err != nil {
		t.Fatalf("init must swallow auth failures: %v", err)
	}
	pair, _ := tokens.Load(context.Background(), store)
	if pair != (tokens.Pair{}) {
		t.Fatalf("expected tokens purged got %+v", pair)
	}
	if manager.Authenticated() {
		t.Fatal("expected anonymous session")
	}
}

func TestLoginPersistsTokens(t *testing.T) {
	store := tokens.NewMemoryStore()
	accounts := &accountsStub{loginResult: models.AuthResult{
		AccessToken:  "a1",
		RefreshToken: "r1",
		User:         &models.User{ID: "u1", Username: "ana"},
	}}
	manager := NewManager(accounts, store)

	user, err := manager.Login(context.Background(), "ana@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" || !manager.Authenticated() {
		t.Fatalf("unexpected user %+v", user)
	}
	pair, _ := tokens.Load(context.Background(), store)
	if pair.AccessToken != "a1" || pair.RefreshToken != "r1" {
		t.Fatalf("unexpected stored pair %+v", pair)
	}
}

func TestLoginFailurePropagates(t *testing.T) {
	store := tokens.NewMemoryStore()
	manager := NewManager(&accountsStub{loginErr: errors.New("bad credentials")}, store)

	if _, err := manager.Login(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected login error")
	}
	if manager.Authenticated() {
		t.Fatal("failed login must not install a user")
	}
	if pair, _ := tokens.Load(context.Background(), store); pair.AccessToken != "" {
		t.Fatalf("failed login must not persist tokens, got %+v", pair)
	}
}

func TestLoginUserLookupFailureLeavesNoTokens(t *testing.T) {
	store := tokens.NewMemoryStore()
	accounts := &accountsStub{
		loginResult: models.AuthResult{AccessToken: "a1", RefreshToken: "r1"},
		currentErr:  errors.New("service unavailable"),
	}
	manager := NewManager(accounts, store)

	if _, err := manager.Login(context.Background(), "ana@example.com", "pw"); err == nil {
		t.Fatal("expected login error")
	}
	if manager.Authenticated() {
		t.Fatal("failed login must not install a user")
	}
	if pair, _ := tokens.Load(context.Background(), store); pair.AccessToken != "" || pair.RefreshToken != "" {
		t.Fatalf("failed login must not leave tokens behind, got %+v", pair)
	}
}

func TestRegisterValidatesBeforeCalling(t *testing.T) {
	avatar := &forms.File{Name: "me.png", Content: strings.NewReader("x")}
	cases := []struct {
		name string
		form forms.Registration
		want error
	}{
		{"mismatch", forms.Registration{Username: "a", Email: "a@b", Password: "x", ConfirmPassword: "y", Avatar: avatar}, forms.ErrPasswordMismatch},
		{"noAvatar", forms.Registration{Username: "a", Email: "a@b", Password: "x", ConfirmPassword: "x"}, forms.ErrAvatarRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			accounts := &accountsStub{}
			manager := NewManager(accounts, tokens.NewMemoryStore())

			_, err := manager.Register(context.Background(), tc.form)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
			if len(accounts.calls) != 0 {
				t.Fatalf("expected no network calls got %v", accounts.calls)
			}
		})
	}
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	accounts := &accountsStub{}
	manager := NewManager(accounts, tokens.NewMemoryStore())

	user, err := manager.Register(context.Background(), forms.Registration{
		Username: "ana", Email: "a@b", Password: "x", ConfirmPassword: "x",
		Avatar: &forms.File{Name: "me.png", Content: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "ana" {
		t.Fatalf("unexpected user %+v", user)
	}
	if manager.Authenticated() {
		t.Fatal("register must not install a session")
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	for _, serverErr := range []error{nil, errors.New("503")} {
		store := tokens.NewMemoryStore()
		seed(t, store, "a", "r")
		accounts := &accountsStub{current: models.User{ID: "u1"}, logoutErr: serverErr}
		manager := NewManager(accounts, store)
		if err := manager.Init(context.Background()); err != nil {
			t.Fatalf("init: %v", err)
		}

		if err := manager.Logout(context.Background()); err != nil {
			t.Fatalf("logout with server error %v: %v", serverErr, err)
		}
		if manager.Authenticated() {
			t.Fatalf("user still present after logout (server error %v)", serverErr)
		}
		if pair, _ := tokens.Load(context.Background(), store); pair != (tokens.Pair{}) {
			t.Fatalf("tokens left behind after logout (server error %v): %+v", serverErr, pair)
		}
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	store := tokens.NewMemoryStore()
	seed(t, store, "old", "r-old")
	accounts := &accountsStub{refreshResult: models.AuthResult{AccessToken: "new"}}
	manager := NewManager(accounts, store)

	if err := manager.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if accounts.refreshedWith != "r-old" {
		t.Fatalf("expected stored refresh token to be sent, got %q", accounts.refreshedWith)
	}
	pair, _ := tokens.Load(context.Background(), store)
	if pair.AccessToken != "new" || pair.RefreshToken != "r-old" {
		t.Fatalf("unexpected pair %+v", pair)
	}

	if err := NewManager(accounts, tokens.NewMemoryStore()).Refresh(context.Background()); !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken got %v", err)
	}
}

func TestChangePasswordChecksConfirmation(t *testing.T) {
	accounts := &accountsStub{}
	manager := NewManager(accounts, tokens.NewMemoryStore())

	err := manager.ChangePassword(context.Background(), forms.PasswordChange{OldPassword: "o", NewPassword: "n", ConfirmPassword: "m"})
	if !errors.Is(err, forms.ErrPasswordMismatch) {
		t.Fatalf("expected mismatch got %v", err)
	}
	if len(accounts.calls) != 0 {
		t.Fatalf("expected no calls got %v", accounts.calls)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	exp := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	store := tokens.NewMemoryStore()
	seed(t, store, signed, "r")
	manager := NewManager(&accountsStub{}, store)

	got, err := manager.AccessTokenExpiry(context.Background())
	if err != nil {
		t.Fatalf("expiry: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v got %v", exp, got)
	}

	seed(t, store, "not-a-jwt", "r")
	if _, err := manager.AccessTokenExpiry(context.Background()); err == nil {
		t.Fatal("expected parse error for malformed token")
	}
}

package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidfriends/client/internal/config"
	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/session"
	"github.com/vidfriends/client/internal/tokens"
	"github.com/vidfriends/client/internal/views"
)

type stubAPI struct {
	mu   sync.Mutex
	hits map[string]int
	auth map[string]string
	mux  *http.ServeMux
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/v1")
	s.hits[key]++
	s.auth[key] = r.Header.Get("Authorization")
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

func (s *stubAPI) handle(pattern, body string) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
}

func (s *stubAPI) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *stubAPI) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func (s *stubAPI) authorization(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth[key]
}

type harness struct {
	api    *stubAPI
	deps   *dependencies
	store  *tokens.MemoryStore
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &stubAPI{hits: map[string]int{}, auth: map[string]string{}, mux: http.NewServeMux()}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	h := &harness{api: api, store: tokens.NewMemoryStore(), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	cfg := config.Config{APIBaseURL: srv.URL + "/api/v1", HydrateConcurrency: 2}
	deps, err := buildDependencies(cfg, h.store, h.out, h.errOut)
	require.NoError(t, err)
	h.deps = deps
	return h
}

func (h *harness) loggedIn(t *testing.T) {
	t.Helper()
	require.NoError(t, tokens.Save(context.Background(), h.store, tokens.Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}))
	h.api.handle("GET /api/v1/users/current-user", `{"data":{"_id":"u1","username":"ana","email":"ana@example.com"}}`)
}

func TestExecuteRejectsUnknownCommand(t *testing.T) {
	h := newHarness(t)
	err := execute(context.Background(), h.deps, []string{"dance"})
	require.ErrorIs(t, err, ErrUsage)

	err = execute(context.Background(), h.deps, nil)
	require.ErrorIs(t, err, ErrUsage)
}

func TestLoginPersistsAndWhoami(t *testing.T) {
	h := newHarness(t)
	h.api.handle("POST /api/v1/users/login", `{"data":{"accessToken":"access-1","refreshToken":"refresh-1","user":{"_id":"u1","username":"ana","email":"ana@example.com"}}}`)
	h.api.handle("GET /api/v1/users/current-user", `{"data":{"_id":"u1","username":"ana","email":"ana@example.com"}}`)
	ctx := context.Background()

	require.NoError(t, execute(ctx, h.deps, []string{"login", "ana@example.com", "secret"}))
	require.Contains(t, h.out.String(), "logged in as ana")

	pair, err := tokens.Load(ctx, h.store)
	require.NoError(t, err)
	require.Equal(t, "access-1", pair.AccessToken)
	require.Equal(t, "refresh-1", pair.RefreshToken)

	h.out.Reset()
	require.NoError(t, execute(ctx, h.deps, []string{"whoami"}))
	require.Contains(t, h.out.String(), "ana (u1)")
	require.Equal(t, "Bearer access-1", h.api.authorization("GET /users/current-user"))
}

func TestLoginUsage(t *testing.T) {
	h := newHarness(t)
	err := execute(context.Background(), h.deps, []string{"login", "only-email"})
	require.ErrorIs(t, err, ErrUsage)
	require.Zero(t, h.api.total())
}

func TestAuthenticatedCommandsNeedLogin(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"dashboard", "tweets", "playlists", "history", "upload"} {
		err := execute(context.Background(), h.deps, []string{name})
		require.ErrorIs(t, err, session.ErrNotAuthenticated, name)
	}
	require.Zero(t, h.api.total())
}

func TestWhoamiAnonymous(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, execute(context.Background(), h.deps, []string{"whoami"}))
	require.Equal(t, "not logged in\n", h.out.String())
	require.Zero(t, h.api.total())
}

func TestRegisterValidatesBeforeAnyRequest(t *testing.T) {
	h := newHarness(t)
	err := execute(context.Background(), h.deps, []string{"register",
		"--username", "ana", "--email", "ana@example.com",
		"--password", "one", "--confirm", "two", "--avatar", "missing.png",
	})
	require.ErrorIs(t, err, forms.ErrPasswordMismatch)

	err = execute(context.Background(), h.deps, []string{"register",
		"--username", "ana", "--email", "ana@example.com",
		"--password", "one", "--confirm", "one",
	})
	require.ErrorIs(t, err, forms.ErrAvatarRequired)
	require.Zero(t, h.api.total())
}

func TestVideosRendersFeed(t *testing.T) {
	h := newHarness(t)
	h.api.handle("GET /api/v1/videos", `{"data":{"docs":[{"_id":"v1","title":"Trip","views":1500,"duration":65.7,"owner":{"_id":"o1","username":"bob"}}],"totalDocs":1}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"videos", "--query", "trip"}))
	out := h.out.String()
	require.Contains(t, out, "Trip")
	require.Contains(t, out, "1.5K")
	require.Contains(t, out, "1:05")
	require.Contains(t, out, "bob")
	require.Empty(t, h.errOut.String())
}

func TestVideosReportsFailure(t *testing.T) {
	h := newHarness(t)
	h.api.mux.HandleFunc("GET /api/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.NoError(t, execute(context.Background(), h.deps, []string{"videos"}))
	require.Contains(t, h.out.String(), "no videos")
	require.Contains(t, h.errOut.String(), "warning")
}

func TestLikeTogglesFromServerState(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("GET /api/v1/like/check/t/t1", `{"data":{"isLiked":false}}`)
	h.api.handle("GET /api/v1/like/count/t/t1", `{"data":{"likesCount":4}}`)
	h.api.handle("POST /api/v1/like/toggle/t/t1", `{"data":{}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"like", "tweet", "t1"}))
	require.Equal(t, "liked (5 likes)\n", h.out.String())
	require.Equal(t, 1, h.api.count("POST /like/toggle/t/t1"))
}

func TestLikeFailureLeavesNothingRendered(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("GET /api/v1/like/check/v/v1", `{"data":{"isLiked":true}}`)
	h.api.handle("GET /api/v1/like/count/v/v1", `{"data":{"likesCount":1}}`)
	h.api.mux.HandleFunc("POST /api/v1/like/toggle/v/v1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := execute(context.Background(), h.deps, []string{"like", "video", "v1"})
	require.Error(t, err)
	require.Empty(t, h.out.String())
}

func TestLikeAbortsWhenStateUnknown(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.mux.HandleFunc("GET /api/v1/like/check/v/v1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h.api.handle("GET /api/v1/like/count/v/v1", `{"data":{"likesCount":3}}`)
	h.api.handle("POST /api/v1/like/toggle/v/v1", `{"data":{}}`)

	err := execute(context.Background(), h.deps, []string{"like", "video", "v1"})
	require.ErrorIs(t, err, ErrLikeStateUnknown)
	require.Zero(t, h.api.count("POST /like/toggle/v/v1"))
	require.Empty(t, h.out.String())
}

func TestTweetsLikeAnyTweet(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("GET /api/v1/like/check/t/t9", `{"data":{"isLiked":false}}`)
	h.api.handle("GET /api/v1/like/count/t/t9", `{"data":{"likesCount":0}}`)
	h.api.handle("POST /api/v1/like/toggle/t/t9", `{"data":{}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"tweets", "like", "t9"}))
	require.Equal(t, "liked (1 likes)\n", h.out.String())
	require.Zero(t, h.api.count("GET /tweets/user/u1"))
}

func TestSubscribeWithoutCountPrintsFlagOnly(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("GET /api/v1/subscribe/check/c1", `{"data":{"isSubscribed":false}}`)
	h.api.mux.HandleFunc("GET /api/v1/subscribe/u/c1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h.api.handle("POST /api/v1/subscribe/c/c1", `{"data":{}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"subscribe", "c1"}))
	require.Equal(t, "subscribed\n", h.out.String())
	require.Equal(t, 1, h.api.count("POST /subscribe/c/c1"))
}

func TestSubscriptionsRemoveOnlyLeavesFollowedChannels(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("GET /api/v1/subscribe/check/c9", `{"data":{"isSubscribed":false}}`)
	h.api.handle("GET /api/v1/subscribe/check/c1", `{"data":{"isSubscribed":true}}`)
	h.api.handle("POST /api/v1/subscribe/c/{id}", `{"data":{}}`)
	ctx := context.Background()

	err := execute(ctx, h.deps, []string{"subscriptions", "remove", "c9"})
	require.ErrorIs(t, err, views.ErrNotSubscribed)
	require.Equal(t, 1, h.api.count("GET /subscribe/check/c9"))
	require.Zero(t, h.api.count("POST /subscribe/c/c9"))
	require.Empty(t, h.out.String())

	require.NoError(t, execute(ctx, h.deps, []string{"subscriptions", "remove", "c1"}))
	require.Equal(t, 1, h.api.count("POST /subscribe/c/c1"))
	require.Equal(t, "unsubscribed from c1\n", h.out.String())
}

func TestLogoutClearsTokens(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.mux.HandleFunc("POST /api/v1/users/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ctx := context.Background()

	require.NoError(t, execute(ctx, h.deps, []string{"logout"}))
	pair, err := tokens.Load(ctx, h.store)
	require.NoError(t, err)
	require.Empty(t, pair.AccessToken)
	require.Empty(t, pair.RefreshToken)
}

func TestPlaylistsCreate(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("POST /api/v1/playlist", `{"data":{"_id":"p1","name":"Road"}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"playlists", "create", "Road", "trips"}))
	require.Contains(t, h.out.String(), "created Road (p1)")

	err := execute(context.Background(), h.deps, []string{"playlists", "frobnicate"})
	require.ErrorIs(t, err, ErrUsage)
}

func TestHistoryClear(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t)
	h.api.handle("DELETE /api/v1/users/clear-history", `{"data":{}}`)

	require.NoError(t, execute(context.Background(), h.deps, []string{"history", "clear"}))
	require.Equal(t, 1, h.api.count("DELETE /users/clear-history"))
}

func TestMigrateNeedsPostgres(t *testing.T) {
	h := newHarness(t)
	err := execute(context.Background(), h.deps, []string{"migrate"})
	require.Error(t, err)
}

func TestOpenTokenStore(t *testing.T) {
	ctx := context.Background()

	store, cleanup, err := openTokenStore(ctx, config.TokenStoreConfig{Backend: config.TokenStoreMemory})
	require.NoError(t, err)
	cleanup()
	require.IsType(t, &tokens.MemoryStore{}, store)

	path := filepath.Join(t.TempDir(), "tokens.json")
	store, cleanup, err = openTokenStore(ctx, config.TokenStoreConfig{Backend: config.TokenStoreFile, FilePath: path})
	require.NoError(t, err)
	defer cleanup()
	require.NoError(t, store.Set(ctx, tokens.AccessTokenKey, "abc"))

	_, _, err = openTokenStore(ctx, config.TokenStoreConfig{Backend: "etcd"})
	require.Error(t, err)
}

func TestRunNeedsCommand(t *testing.T) {
	err := Run(context.Background(), nil)
	require.True(t, errors.Is(err, ErrUsage))
}

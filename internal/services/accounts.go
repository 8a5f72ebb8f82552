package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/models"
)

// Accounts covers the /users endpoints.
type Accounts struct {
	api *apiclient.Client
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register submits the signup form. The response is returned as-is; it is
// not turned into a session here.
func (a *Accounts) Register(ctx context.Context, r forms.Registration) (models.User, error) {
	return send[models.User](ctx, a.api, http.MethodPost, "/users/register", r.Multipart())
}

func (a *Accounts) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	return fetch[models.AuthResult](ctx, a.api, http.MethodPost, "/users/login", credentials{Email: email, Password: password})
}

func (a *Accounts) Logout(ctx context.Context) error {
	return exec(ctx, a.api, http.MethodPost, "/users/logout", nil)
}

func (a *Accounts) CurrentUser(ctx context.Context) (models.User, error) {
	return fetch[models.User](ctx, a.api, http.MethodGet, "/users/current-user", nil)
}

// RefreshToken exchanges refreshToken for a new pair. The server also
// accepts the token from a cookie, which a CLI does not keep.
func (a *Accounts) RefreshToken(ctx context.Context, refreshToken string) (models.AuthResult, error) {
	body := struct {
		RefreshToken string `json:"refreshToken"`
	}{RefreshToken: refreshToken}
	return fetch[models.AuthResult](ctx, a.api, http.MethodPost, "/users/refresh-token", body)
}

func (a *Accounts) ChangePassword(ctx context.Context, p forms.PasswordChange) error {
	return exec(ctx, a.api, http.MethodPost, "/users/change-password", p)
}

func (a *Accounts) UpdateAccount(ctx context.Context, patch forms.AccountUpdate) (models.User, error) {
	return fetch[models.User](ctx, a.api, http.MethodPatch, "/users/update-account", patch)
}

func (a *Accounts) UpdateAvatar(ctx context.Context, f forms.File) (models.User, error) {
	form, err := forms.SingleFile("avatar", f)
	if err != nil {
		return models.User{}, err
	}
	return send[models.User](ctx, a.api, http.MethodPatch, "/users/avatar", form)
}

func (a *Accounts) UpdateCoverImage(ctx context.Context, f forms.File) (models.User, error) {
	form, err := forms.SingleFile("coverimage", f)
	if err != nil {
		return models.User{}, err
	}
	return send[models.User](ctx, a.api, http.MethodPatch, "/users/coverimage", form)
}

// Channel loads a public channel as seen by the current viewer.
func (a *Accounts) Channel(ctx context.Context, username string) (models.Channel, error) {
	return fetch[models.Channel](ctx, a.api, http.MethodGet, "/users/c"+seg(username), nil)
}

// WatchHistory returns the viewer's history, newest first as the server
// orders it.
func (a *Accounts) WatchHistory(ctx context.Context) ([]models.Video, error) {
	var h history
	if err := a.api.Do(ctx, "/users/history", apiclient.RequestOptions{}, &h); err != nil {
		return nil, err
	}
	return h.videos, nil
}

func (a *Accounts) AddToWatchHistory(ctx context.Context, videoID string) error {
	return exec(ctx, a.api, http.MethodPost, "/users/addVideoToWatchHistory", videoRef{VideoID: videoID})
}

func (a *Accounts) RemoveFromWatchHistory(ctx context.Context, videoID string) error {
	return exec(ctx, a.api, http.MethodDelete, "/users/remove-from-history", videoRef{VideoID: videoID})
}

func (a *Accounts) ClearWatchHistory(ctx context.Context) error {
	return exec(ctx, a.api, http.MethodDelete, "/users/clear-history", nil)
}

type videoRef struct {
	VideoID string `json:"videoId"`
}

// history accepts the three shapes the history endpoint has been seen to
// return: a bare array, an array under "data", or one under "watchhistory".
type history struct {
	videos []models.Video
}

func (h *history) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &h.videos)
	}

	var wire struct {
		Data         json.RawMessage `json:"data"`
		WatchHistory []models.Video  `json:"watchhistory"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}
	if d := bytes.TrimSpace(wire.Data); len(d) > 0 && d[0] == '[' {
		return json.Unmarshal(d, &h.videos)
	}
	h.videos = wire.WatchHistory
	return nil
}

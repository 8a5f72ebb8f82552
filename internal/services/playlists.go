package services

import (
	"context"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// Playlists covers the /playlist endpoints.
type Playlists struct {
	api *apiclient.Client
}

// PlaylistInput is the create and update body.
type PlaylistInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p *Playlists) Create(ctx context.Context, in PlaylistInput) (models.Playlist, error) {
	return fetch[models.Playlist](ctx, p.api, http.MethodPost, "/playlist", in)
}

func (p *Playlists) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	page, err := fetch[apiclient.Page[models.Playlist]](ctx, p.api, http.MethodGet, "/playlist/user"+seg(userID), nil)
	return page.Items, err
}

func (p *Playlists) Get(ctx context.Context, id string) (models.Playlist, error) {
	return fetch[models.Playlist](ctx, p.api, http.MethodGet, "/playlist"+seg(id), nil)
}

func (p *Playlists) Update(ctx context.Context, id string, in PlaylistInput) (models.Playlist, error) {
	return fetch[models.Playlist](ctx, p.api, http.MethodPatch, "/playlist"+seg(id), in)
}

func (p *Playlists) Delete(ctx context.Context, id string) error {
	return exec(ctx, p.api, http.MethodDelete, "/playlist"+seg(id), nil)
}

func (p *Playlists) AddVideo(ctx context.Context, videoID, playlistID string) error {
	return exec(ctx, p.api, http.MethodPatch, "/playlist/add"+seg(videoID)+seg(playlistID), nil)
}

func (p *Playlists) RemoveVideo(ctx context.Context, videoID, playlistID string) error {
	return exec(ctx, p.api, http.MethodPatch, "/playlist/remove"+seg(videoID)+seg(playlistID), nil)
}

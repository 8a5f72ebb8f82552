package views

import (
	"context"
	"errors"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// PlaylistPage is one playlist and its videos.
type PlaylistPage struct {
	page
	svc *services.Set

	Playlist models.Playlist
}

func NewPlaylistPage(svc *services.Set) *PlaylistPage {
	return &PlaylistPage{svc: svc}
}

func (p *PlaylistPage) Load(ctx context.Context, playlistID string) error {
	t := p.reload()
	playlist, err := p.svc.Playlists.Get(ctx, playlistID)
	if err != nil {
		t.Apply(func() { p.status = statusOf(err) })
		return err
	}
	t.Apply(func() { p.Playlist = playlist })
	return nil
}

// RemoveVideo drops a video from the loaded playlist.
func (p *PlaylistPage) RemoveVideo(ctx context.Context, videoID string) error {
	t := p.scope.Begin()
	if err := p.svc.Playlists.RemoveVideo(ctx, videoID, p.Playlist.ID); err != nil {
		return err
	}
	t.Apply(func() { p.Playlist.Videos = without(p.Playlist.Videos, videoID, videoKey) })
	return nil
}

// PlaylistsPage lists and manages the viewer's playlists.
type PlaylistsPage struct {
	page
	svc    *services.Set
	viewer models.User

	Playlists []models.Playlist
}

func NewPlaylistsPage(svc *services.Set, viewer models.User) *PlaylistsPage {
	return &PlaylistsPage{svc: svc, viewer: viewer}
}

func (p *PlaylistsPage) Load(ctx context.Context) {
	t := p.reload()
	playlists, err := p.svc.Playlists.ListByUser(ctx, p.viewer.ID)
	p.note(ctx, t, "playlists", err)
	t.Apply(func() { p.Playlists = playlists })
}

// ErrPlaylistNameRequired is returned before creating an unnamed playlist.
var ErrPlaylistNameRequired = errors.New("playlist name is required")

func (p *PlaylistsPage) Create(ctx context.Context, in services.PlaylistInput) (models.Playlist, error) {
	if in.Name == "" {
		return models.Playlist{}, ErrPlaylistNameRequired
	}
	t := p.scope.Begin()
	playlist, err := p.svc.Playlists.Create(ctx, in)
	if err != nil {
		return models.Playlist{}, err
	}
	t.Apply(func() { p.Playlists = append([]models.Playlist{playlist}, p.Playlists...) })
	return playlist, nil
}

func (p *PlaylistsPage) Update(ctx context.Context, playlistID string, in services.PlaylistInput) error {
	t := p.scope.Begin()
	playlist, err := p.svc.Playlists.Update(ctx, playlistID, in)
	if err != nil {
		return err
	}
	t.Apply(func() {
		if i := indexOf(p.Playlists, playlistID, playlistKey); i >= 0 {
			p.Playlists[i] = playlist
		}
	})
	return nil
}

func (p *PlaylistsPage) Delete(ctx context.Context, playlistID string) error {
	t := p.scope.Begin()
	if err := p.svc.Playlists.Delete(ctx, playlistID); err != nil {
		return err
	}
	t.Apply(func() { p.Playlists = without(p.Playlists, playlistID, playlistKey) })
	return nil
}

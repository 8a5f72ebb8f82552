package views

import (
	"context"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// HistoryPage is the viewer's watch history.
type HistoryPage struct {
	page
	svc *services.Set

	Videos []models.Video
}

func NewHistoryPage(svc *services.Set) *HistoryPage {
	return &HistoryPage{svc: svc}
}

func (p *HistoryPage) Load(ctx context.Context) {
	t := p.reload()
	videos, err := p.svc.Accounts.WatchHistory(ctx)
	p.note(ctx, t, "history", err)
	t.Apply(func() { p.Videos = videos })
}

func (p *HistoryPage) Remove(ctx context.Context, videoID string) error {
	t := p.scope.Begin()
	if err := p.svc.Accounts.RemoveFromWatchHistory(ctx, videoID); err != nil {
		return err
	}
	t.Apply(func() { p.Videos = without(p.Videos, videoID, videoKey) })
	return nil
}

func (p *HistoryPage) Clear(ctx context.Context) error {
	t := p.scope.Begin()
	if err := p.svc.Accounts.ClearWatchHistory(ctx); err != nil {
		return err
	}
	t.Apply(func() { p.Videos = nil })
	return nil
}

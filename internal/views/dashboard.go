package views

import (
	"context"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// DashboardPage is the owner's view of their channel.
type DashboardPage struct {
	page
	svc *services.Set

	Stats  models.ChannelStats
	Videos []models.Video
}

func NewDashboardPage(svc *services.Set) *DashboardPage {
	return &DashboardPage{svc: svc}
}

// Load fetches the stats and the owner's videos, including unpublished ones.
func (p *DashboardPage) Load(ctx context.Context) {
	t := p.reload()

	stats, err := p.svc.Dashboard.Stats(ctx)
	p.note(ctx, t, "stats", err)
	videos, err := p.svc.Dashboard.Videos(ctx)
	p.note(ctx, t, "videos", err)

	t.Apply(func() {
		p.Stats = stats
		p.Videos = videos
	})
}

// TogglePublish flips one video's visibility.
func (p *DashboardPage) TogglePublish(ctx context.Context, videoID string) error {
	t := p.scope.Begin()
	i := indexOf(p.Videos, videoID, videoKey)
	if i < 0 {
		return errNotOnPage("video", videoID)
	}
	next := p.Videos[i]
	if err := TogglePublish(ctx, p.svc.Videos, &next); err != nil {
		return err
	}
	t.Apply(func() {
		if j := indexOf(p.Videos, videoID, videoKey); j >= 0 {
			p.Videos[j] = next
		}
	})
	return nil
}

// DeleteVideo removes a video from the server and the list.
func (p *DashboardPage) DeleteVideo(ctx context.Context, videoID string) error {
	t := p.scope.Begin()
	if err := p.svc.Videos.Delete(ctx, videoID); err != nil {
		return err
	}
	t.Apply(func() { p.Videos = without(p.Videos, videoID, videoKey) })
	return nil
}

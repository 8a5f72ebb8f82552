package views

import (
	"context"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// FeedPage is the home listing of published videos.
type FeedPage struct {
	page
	svc *services.Set

	Videos []models.Video
	Total  int
}

func NewFeedPage(svc *services.Set) *FeedPage {
	return &FeedPage{svc: svc}
}

// DefaultFeedParams are the home page's listing parameters.
func DefaultFeedParams() services.ListParams {
	published := true
	return services.ListParams{Page: 1, Limit: 20, SortBy: "createdAt", SortType: "desc", Published: &published}
}

// Load fetches one page of videos. A failure leaves the list empty and is
// reported through Status.
func (p *FeedPage) Load(ctx context.Context, params services.ListParams) {
	t := p.reload()
	res := Capture(func() (apiclient.Page[models.Video], error) {
		return p.svc.Videos.List(ctx, params)
	})
	p.note(ctx, t, "videos", res.Err)
	t.Apply(func() {
		p.Videos = res.Value.Items
		p.Total = res.Value.TotalDocs
	})
}

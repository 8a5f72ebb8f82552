package services

import (
	"context"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// Dashboard covers the owner-only channel metrics.
type Dashboard struct {
	api *apiclient.Client
}

func (d *Dashboard) Stats(ctx context.Context) (models.ChannelStats, error) {
	return fetch[models.ChannelStats](ctx, d.api, http.MethodGet, "/dashboard/stats", nil)
}

func (d *Dashboard) Videos(ctx context.Context) ([]models.Video, error) {
	page, err := fetch[apiclient.Page[models.Video]](ctx, d.api, http.MethodGet, "/dashboard/videos", nil)
	return page.Items, err
}

package services

import (
	"context"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// Subscriptions covers the /subscribe endpoints. The path names follow the
// server, where /c/ is keyed by the acting user and /u/ by the channel.
type Subscriptions struct {
	api *apiclient.Client
}

// Toggle flips the caller's subscription to channelID.
func (s *Subscriptions) Toggle(ctx context.Context, channelID string) error {
	return exec(ctx, s.api, http.MethodPost, "/subscribe/c"+seg(channelID), nil)
}

func (s *Subscriptions) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	page, err := fetch[apiclient.Page[models.Subscription]](ctx, s.api, http.MethodGet, "/subscribe/c"+seg(subscriberID), nil)
	return page.Items, err
}

func (s *Subscriptions) Subscribers(ctx context.Context, channelID string) ([]models.Subscription, error) {
	page, err := fetch[apiclient.Page[models.Subscription]](ctx, s.api, http.MethodGet, "/subscribe/u"+seg(channelID), nil)
	return page.Items, err
}

func (s *Subscriptions) Check(ctx context.Context, channelID string) (bool, error) {
	data, err := fetch[struct {
		IsSubscribed bool `json:"isSubscribed"`
	}](ctx, s.api, http.MethodGet, "/subscribe/check"+seg(channelID), nil)
	return data.IsSubscribed, err
}

package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// SubscriptionsPage lists the channels the viewer follows.
type SubscriptionsPage struct {
	page
	svc    *services.Set
	viewer models.User

	Subscriptions []models.Subscription
}

func NewSubscriptionsPage(svc *services.Set, viewer models.User) *SubscriptionsPage {
	return &SubscriptionsPage{svc: svc, viewer: viewer}
}

func (p *SubscriptionsPage) Load(ctx context.Context) {
	t := p.reload()
	subs, err := p.svc.Subscriptions.SubscribedChannels(ctx, p.viewer.ID)
	p.note(ctx, t, "subscriptions", err)
	t.Apply(func() { p.Subscriptions = subs })
}

// ErrNotSubscribed is returned when leaving a channel the viewer does not
// follow.
var ErrNotSubscribed = errors.New("not subscribed")

// Unsubscribe toggles the subscription off and drops the row. The toggle is
// only sent after the server confirms the subscription exists.
func (p *SubscriptionsPage) Unsubscribe(ctx context.Context, channelID string) error {
	t := p.scope.Begin()
	subscribed, err := p.svc.Subscriptions.Check(ctx, channelID)
	if err != nil {
		return err
	}
	if !subscribed {
		return fmt.Errorf("channel %s: %w", channelID, ErrNotSubscribed)
	}
	if err := p.svc.Subscriptions.Toggle(ctx, channelID); err != nil {
		return err
	}
	t.Apply(func() {
		p.Subscriptions = without(p.Subscriptions, channelID, func(s models.Subscription) string { return s.Channel.ID })
	})
	return nil
}

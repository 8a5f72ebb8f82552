package views

import (
	"context"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// ChannelPage is a user's public channel: profile, videos and tweets.
type ChannelPage struct {
	page
	svc         *services.Set
	viewer      *models.User
	concurrency int

	Channel      models.Channel
	Subscription SubscriptionState
	Videos       []models.Video
	Tweets       []TweetItem
}

func NewChannelPage(svc *services.Set, viewer *models.User, concurrency int) *ChannelPage {
	return &ChannelPage{svc: svc, viewer: viewer, concurrency: concurrency}
}

// OwnChannel reports whether the viewer is looking at their own channel.
func (p *ChannelPage) OwnChannel() bool {
	return p.viewer != nil && p.viewer.ID == p.Channel.ID
}

// Load fetches the channel by username. The video listing is filtered to
// the channel's owner because the server's username filter is advisory.
func (p *ChannelPage) Load(ctx context.Context, username string) error {
	t := p.reload()

	channel, err := p.svc.Accounts.Channel(ctx, username)
	if err != nil {
		t.Apply(func() { p.status = statusOf(err) })
		return err
	}

	published := true
	listing, err := p.svc.Videos.List(ctx, services.ListParams{
		Page: 1, Limit: 50, SortBy: "createdAt", SortType: "desc",
		Username: username, Published: &published,
	})
	p.note(ctx, t, "videos", err)
	videos := make([]models.Video, 0, len(listing.Items))
	for _, v := range listing.Items {
		if v.Owner.ID == channel.ID || v.Owner.Username == username {
			videos = append(videos, v)
		}
	}

	tweets, err := p.svc.Tweets.ListByUser(ctx, channel.ID)
	p.note(ctx, t, "tweets", err)
	items := newTweetItems(tweets)
	if p.viewer != nil {
		HydrateLikes(ctx, p.svc.Reactions, tweetLikeItems(items), p.concurrency)
	}

	t.Apply(func() {
		p.Channel = channel
		p.Subscription = SubscriptionState{Subscribed: channel.IsSubscribed, Subscribers: channel.SubscribersCount}
		p.Videos = videos
		p.Tweets = items
	})
	return nil
}

// ToggleSubscription subscribes to or leaves the channel.
func (p *ChannelPage) ToggleSubscription(ctx context.Context) error {
	t := p.scope.Begin()
	next := p.Subscription
	if err := ToggleSubscription(ctx, p.svc.Subscriptions, p.Channel.ID, &next); err != nil {
		return err
	}
	t.Apply(func() {
		p.Subscription = next
		p.Channel.IsSubscribed = next.Subscribed
		p.Channel.SubscribersCount = next.Subscribers
	})
	return nil
}

// ToggleTweetLike likes or unlikes one of the channel's tweets.
func (p *ChannelPage) ToggleTweetLike(ctx context.Context, tweetID string) error {
	return toggleTweetLike(ctx, &p.page, p.svc.Reactions, &p.Tweets, tweetID)
}

func toggleTweetLike(ctx context.Context, pg *page, likes LikeToggler, tweets *[]TweetItem, id string) error {
	t := pg.scope.Begin()
	i := indexOf(*tweets, id, tweetKey)
	if i < 0 {
		return errNotOnPage("tweet", id)
	}
	next := (*tweets)[i].Like
	if err := ToggleLike(ctx, likes, services.Target{Kind: services.TargetTweet, ID: id}, &next); err != nil {
		return err
	}
	t.Apply(func() {
		if j := indexOf(*tweets, id, tweetKey); j >= 0 {
			(*tweets)[j].Like = next
		}
	})
	return nil
}

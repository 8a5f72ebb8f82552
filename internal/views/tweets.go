package views

import (
	"context"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// TweetsPage is the viewer's own tweets.
type TweetsPage struct {
	page
	svc    *services.Set
	viewer models.User

	Tweets []TweetItem
}

func NewTweetsPage(svc *services.Set, viewer models.User) *TweetsPage {
	return &TweetsPage{svc: svc, viewer: viewer}
}

func (p *TweetsPage) Load(ctx context.Context) {
	t := p.reload()
	tweets, err := p.svc.Tweets.ListByUser(ctx, p.viewer.ID)
	p.note(ctx, t, "tweets", err)
	t.Apply(func() { p.Tweets = newTweetItems(tweets) })
}

// Post validates and publishes a tweet, showing it first.
func (p *TweetsPage) Post(ctx context.Context, content string) error {
	if err := (forms.TweetDraft{Content: content}).Validate(); err != nil {
		return err
	}
	t := p.scope.Begin()
	tweet, err := p.svc.Tweets.Create(ctx, content)
	if err != nil {
		return err
	}
	t.Apply(func() {
		p.Tweets = append([]TweetItem{{Tweet: tweet, Like: LikeState{Liked: tweet.IsLiked, Count: tweet.LikesCount}}}, p.Tweets...)
	})
	return nil
}

// Edit replaces a tweet's content with the server's updated copy.
func (p *TweetsPage) Edit(ctx context.Context, tweetID, content string) error {
	if err := (forms.TweetDraft{Content: content}).Validate(); err != nil {
		return err
	}
	t := p.scope.Begin()
	tweet, err := p.svc.Tweets.Update(ctx, tweetID, content)
	if err != nil {
		return err
	}
	t.Apply(func() {
		if i := indexOf(p.Tweets, tweetID, tweetKey); i >= 0 {
			p.Tweets[i].Tweet = tweet
		}
	})
	return nil
}

func (p *TweetsPage) Delete(ctx context.Context, tweetID string) error {
	t := p.scope.Begin()
	if err := p.svc.Tweets.Delete(ctx, tweetID); err != nil {
		return err
	}
	t.Apply(func() { p.Tweets = without(p.Tweets, tweetID, tweetKey) })
	return nil
}

func (p *TweetsPage) ToggleLike(ctx context.Context, tweetID string) error {
	return toggleTweetLike(ctx, &p.page, p.svc.Reactions, &p.Tweets, tweetID)
}

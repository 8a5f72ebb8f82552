// Package views holds the page models behind each command: the state a
// page shows, and the commit-on-success updates applied to it.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// page carries what every page model shares: a lifetime scope and the
// last failure a list fetch swallowed.
type page struct {
	scope  Scope
	status Status
}

// Leave discards the results of anything still in flight.
func (p *page) Leave() {
	p.scope.Invalidate()
}

// Status returns the last failure recorded by a load.
func (p *page) Status() Status {
	return p.status
}

// reload supersedes earlier loads and returns the ticket for this one.
func (p *page) reload() Ticket {
	p.scope.Invalidate()
	t := p.scope.Begin()
	t.Apply(func() { p.status = Status{} })
	return t
}

// note records a swallowed list failure under t.
func (p *page) note(ctx context.Context, t Ticket, what string, err error) {
	if err == nil {
		return
	}
	logging.FromContext(ctx).Warn("load failed", slog.String("what", what), slog.Any("error", err))
	t.Apply(func() {
		if p.status.Kind == KindNone {
			p.status = statusOf(err)
		}
	})
}

// ErrNotOnPage indicates an id that the page has not loaded.
var ErrNotOnPage = errors.New("not on this page")

func errNotOnPage(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotOnPage)
}

// TweetItem is a tweet with its like state split out for toggling.
type TweetItem struct {
	Tweet models.Tweet
	Like  LikeState
}

func newTweetItems(tweets []models.Tweet) []TweetItem {
	items := make([]TweetItem, len(tweets))
	for i, t := range tweets {
		items[i] = TweetItem{Tweet: t, Like: LikeState{Liked: t.IsLiked, Count: t.LikesCount}}
	}
	return items
}

// CommentItem is a comment with its like state split out for toggling.
type CommentItem struct {
	Comment models.Comment
	Like    LikeState
}

func newCommentItems(comments []models.Comment) []CommentItem {
	items := make([]CommentItem, len(comments))
	for i, c := range comments {
		items[i] = CommentItem{Comment: c, Like: LikeState{Liked: c.IsLiked, Count: c.LikesCount}}
	}
	return items
}

func tweetLikeItems(items []TweetItem) []LikeItem {
	out := make([]LikeItem, len(items))
	for i := range items {
		out[i] = LikeItem{Target: services.Target{Kind: services.TargetTweet, ID: items[i].Tweet.ID}, State: &items[i].Like}
	}
	return out
}

func commentLikeItems(items []CommentItem) []LikeItem {
	out := make([]LikeItem, len(items))
	for i := range items {
		out[i] = LikeItem{Target: services.Target{Kind: services.TargetComment, ID: items[i].Comment.ID}, State: &items[i].Like}
	}
	return out
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func without[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func videoKey(v models.Video) string { return v.ID }
func tweetKey(t TweetItem) string { return t.Tweet.ID }
func commentKey(c CommentItem) string { return c.Comment.ID }
func playlistKey(p models.Playlist) string { return p.ID }

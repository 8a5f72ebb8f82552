package views

import (
	"context"
	"log/slog"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// WatchPage is a single video with its comments and the viewer's
// relationship to it.
type WatchPage struct {
	page
	svc         *services.Set
	viewer      *models.User
	concurrency int
	viewed      bool

	Video        models.Video
	Like         LikeState
	Subscription SubscriptionState
	Comments     []CommentItem
	Playlists    []models.Playlist
}

// NewWatchPage builds the page for one visit. viewer is nil when browsing
// anonymously.
func NewWatchPage(svc *services.Set, viewer *models.User, concurrency int) *WatchPage {
	return &WatchPage{svc: svc, viewer: viewer, concurrency: concurrency}
}

// OwnVideo reports whether the viewer uploaded the video.
func (p *WatchPage) OwnVideo() bool {
	return p.viewer != nil && p.viewer.ID == p.Video.Owner.ID
}

// Load fetches the video and everything around it. The view count is
// incremented once per page, however often it reloads. Only a failure to
// fetch the video itself is returned.
func (p *WatchPage) Load(ctx context.Context, videoID string) error {
	t := p.reload()
	log := logging.FromContext(ctx)

	video, err := p.svc.Videos.Get(ctx, videoID)
	if err != nil {
		t.Apply(func() { p.status = statusOf(err) })
		return err
	}

	if !p.viewed {
		if err := p.svc.Videos.IncrementViews(ctx, videoID); err != nil {
			log.Warn("increment views failed", slog.Any("error", err))
		}
		p.viewed = true
	}

	listing, err := p.svc.Comments.ListByVideo(ctx, videoID, services.CommentParams{Page: 1, Limit: 50, SortBy: "createdAt", SortType: "desc"})
	p.note(ctx, t, "comments", err)
	comments := newCommentItems(listing.Items)

	var (
		like      LikeState
		sub       SubscriptionState
		playlists []models.Playlist
	)
	if p.viewer != nil {
		if err := p.svc.Accounts.AddToWatchHistory(ctx, videoID); err != nil {
			log.Warn("add to watch history failed", slog.Any("error", err))
		}

		playlists, err = p.svc.Playlists.ListByUser(ctx, p.viewer.ID)
		p.note(ctx, t, "playlists", err)

		if p.viewer.ID != video.Owner.ID {
			target := services.Target{Kind: services.TargetVideo, ID: video.ID}
			HydrateLikes(ctx, p.svc.Reactions, []LikeItem{{Target: target, State: &like}}, 1)
			if subscribed, err := p.svc.Subscriptions.Check(ctx, video.Owner.ID); err == nil {
				sub.Subscribed = subscribed
			} else {
				log.Warn("subscription check failed", slog.Any("error", err))
			}
		}
		HydrateLikes(ctx, p.svc.Reactions, commentLikeItems(comments), p.concurrency)
	}

	t.Apply(func() {
		p.Video = video
		p.Like = like
		p.Subscription = sub
		p.Comments = comments
		p.Playlists = playlists
	})
	return nil
}

// ToggleLike likes or unlikes the video.
func (p *WatchPage) ToggleLike(ctx context.Context) error {
	t := p.scope.Begin()
	next := p.Like
	if err := ToggleLike(ctx, p.svc.Reactions, services.Target{Kind: services.TargetVideo, ID: p.Video.ID}, &next); err != nil {
		return err
	}
	t.Apply(func() { p.Like = next })
	return nil
}

// ToggleSubscription subscribes to or leaves the video owner's channel.
func (p *WatchPage) ToggleSubscription(ctx context.Context) error {
	t := p.scope.Begin()
	next := p.Subscription
	if err := ToggleSubscription(ctx, p.svc.Subscriptions, p.Video.Owner.ID, &next); err != nil {
		return err
	}
	t.Apply(func() { p.Subscription = next })
	return nil
}

// ToggleCommentLike likes or unlikes one comment.
func (p *WatchPage) ToggleCommentLike(ctx context.Context, commentID string) error {
	t := p.scope.Begin()
	i := indexOf(p.Comments, commentID, commentKey)
	if i < 0 {
		return errNotOnPage("comment", commentID)
	}
	next := p.Comments[i].Like
	if err := ToggleLike(ctx, p.svc.Reactions, services.Target{Kind: services.TargetComment, ID: commentID}, &next); err != nil {
		return err
	}
	t.Apply(func() {
		if j := indexOf(p.Comments, commentID, commentKey); j >= 0 {
			p.Comments[j].Like = next
		}
	})
	return nil
}

// AddComment posts a comment and shows it first.
func (p *WatchPage) AddComment(ctx context.Context, content string) error {
	if err := (forms.CommentDraft{Content: content}).Validate(); err != nil {
		return err
	}
	t := p.scope.Begin()
	comment, err := p.svc.Comments.Add(ctx, p.Video.ID, content)
	if err != nil {
		return err
	}
	t.Apply(func() {
		p.Comments = append([]CommentItem{{Comment: comment}}, p.Comments...)
	})
	return nil
}

// DeleteComment removes one of the viewer's comments.
func (p *WatchPage) DeleteComment(ctx context.Context, commentID string) error {
	t := p.scope.Begin()
	if err := p.svc.Comments.Delete(ctx, commentID); err != nil {
		return err
	}
	t.Apply(func() { p.Comments = without(p.Comments, commentID, commentKey) })
	return nil
}

// AddToPlaylist appends the video to one of the viewer's playlists.
func (p *WatchPage) AddToPlaylist(ctx context.Context, playlistID string) error {
	return p.svc.Playlists.AddVideo(ctx, p.Video.ID, playlistID)
}

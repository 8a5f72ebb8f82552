package views

import (
	"context"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/services"
)

// LikeState is the liked flag and its paired counter.
type LikeState struct {
	Liked bool
	Count int
}

// Flip inverts Liked and moves Count by one, never below zero.
func (s *LikeState) Flip() {
	s.Liked = !s.Liked
	if s.Liked {
		s.Count++
		return
	}
	if s.Count > 0 {
		s.Count--
	}
}

// SubscriptionState is the viewer's subscription to one channel.
type SubscriptionState struct {
	Subscribed  bool
	Subscribers int
}

func (s *SubscriptionState) Flip() {
	s.Subscribed = !s.Subscribed
	if s.Subscribed {
		s.Subscribers++
		return
	}
	if s.Subscribers > 0 {
		s.Subscribers--
	}
}

type LikeToggler interface {
	Toggle(ctx context.Context, t services.Target) error
}

type SubscriptionToggler interface {
	Toggle(ctx context.Context, channelID string) error
}

type PublishToggler interface {
	TogglePublish(ctx context.Context, videoID string) error
}

// The toggles below are commit-on-success: state changes only after the
// server call returns nil, and a failed call leaves it untouched.

func ToggleLike(ctx context.Context, likes LikeToggler, target services.Target, state *LikeState) error {
	if err := likes.Toggle(ctx, target); err != nil {
		return err
	}
	state.Flip()
	return nil
}

func ToggleSubscription(ctx context.Context, subs SubscriptionToggler, channelID string, state *SubscriptionState) error {
	if err := subs.Toggle(ctx, channelID); err != nil {
		return err
	}
	state.Flip()
	return nil
}

func TogglePublish(ctx context.Context, videos PublishToggler, video *models.Video) error {
	if err := videos.TogglePublish(ctx, video.ID); err != nil {
		return err
	}
	video.IsPublished = !video.IsPublished
	return nil
}

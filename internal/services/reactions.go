package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// TargetKind discriminates what a like is attached to. The values are the
// path segments the server expects.
type TargetKind string

const (
	TargetVideo   TargetKind = "v"
	TargetComment TargetKind = "c"
	TargetTweet   TargetKind = "t"
)

// ErrUnknownTarget is returned for a kind outside the three above.
var ErrUnknownTarget = errors.New("unknown like target")

// ParseTargetKind accepts the long names used on the command line.
func ParseTargetKind(name string) (TargetKind, error) {
	switch name {
	case "video", "v":
		return TargetVideo, nil
	case "comment", "c":
		return TargetComment, nil
	case "tweet", "t":
		return TargetTweet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

// Target identifies one likeable item.
type Target struct {
	Kind TargetKind
	ID   string
}

func (t Target) path(op string) (string, error) {
	switch t.Kind {
	case TargetVideo, TargetComment, TargetTweet:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, t.Kind)
	}
	if t.ID == "" {
		return "", errors.New("like target id is required")
	}
	return "/like/" + op + "/" + string(t.Kind) + seg(t.ID), nil
}

// Reactions covers the /like endpoints for every target kind.
type Reactions struct {
	api *apiclient.Client
}

func (r *Reactions) Toggle(ctx context.Context, t Target) error {
	path, err := t.path("toggle")
	if err != nil {
		return err
	}
	return exec(ctx, r.api, http.MethodPost, path, nil)
}

func (r *Reactions) Check(ctx context.Context, t Target) (bool, error) {
	path, err := t.path("check")
	if err != nil {
		return false, err
	}
	data, err := fetch[struct {
		IsLiked bool `json:"isLiked"`
	}](ctx, r.api, http.MethodGet, path, nil)
	return data.IsLiked, err
}

func (r *Reactions) Count(ctx context.Context, t Target) (int, error) {
	path, err := t.path("count")
	if err != nil {
		return 0, err
	}
	data, err := fetch[struct {
		LikesCount int `json:"likesCount"`
	}](ctx, r.api, http.MethodGet, path, nil)
	return data.LikesCount, err
}

func (r *Reactions) LikedVideos(ctx context.Context) ([]models.Video, error) {
	page, err := fetch[apiclient.Page[models.Video]](ctx, r.api, http.MethodGet, "/like/videos", nil)
	return page.Items, err
}

package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// Comments covers the /comment endpoints.
type Comments struct {
	api *apiclient.Client
}

// CommentParams pages through a video's comments.
type CommentParams struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

func (p CommentParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortType != "" {
		q.Set("sortType", p.SortType)
	}
	return q
}

func (c *Comments) ListByVideo(ctx context.Context, videoID string, p CommentParams) (apiclient.Page[models.Comment], error) {
	return fetchQuery[apiclient.Page[models.Comment]](ctx, c.api, "/comment"+seg(videoID), p.values())
}

func (c *Comments) Add(ctx context.Context, videoID, content string) (models.Comment, error) {
	return fetch[models.Comment](ctx, c.api, http.MethodPost, "/comment"+seg(videoID), contentBody{Content: content})
}

func (c *Comments) Update(ctx context.Context, id, content string) (models.Comment, error) {
	return fetch[models.Comment](ctx, c.api, http.MethodPatch, "/comment/c"+seg(id), contentBody{Content: content})
}

func (c *Comments) Delete(ctx context.Context, id string) error {
	return exec(ctx, c.api, http.MethodDelete, "/comment/c"+seg(id), nil)
}

package services

import (
	"context"
	"net/http"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/models"
)

// Tweets covers the /tweets endpoints.
type Tweets struct {
	api *apiclient.Client
}

type contentBody struct {
	Content string `json:"content"`
}

func (t *Tweets) Create(ctx context.Context, content string) (models.Tweet, error) {
	return fetch[models.Tweet](ctx, t.api, http.MethodPost, "/tweets", contentBody{Content: content})
}

func (t *Tweets) ListByUser(ctx context.Context, userID string) ([]models.Tweet, error) {
	page, err := fetch[apiclient.Page[models.Tweet]](ctx, t.api, http.MethodGet, "/tweets/user"+seg(userID), nil)
	return page.Items, err
}

func (t *Tweets) Update(ctx context.Context, id, content string) (models.Tweet, error) {
	return fetch[models.Tweet](ctx, t.api, http.MethodPatch, "/tweets"+seg(id), contentBody{Content: content})
}

func (t *Tweets) Delete(ctx context.Context, id string) error {
	return exec(ctx, t.api, http.MethodDelete, "/tweets"+seg(id), nil)
}

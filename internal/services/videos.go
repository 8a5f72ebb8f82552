package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/models"
)

// Videos covers the /videos endpoints.
type Videos struct {
	api *apiclient.Client
}

// ListParams filters the video listing. Zero values are left out of the
// query string.
type ListParams struct {
	Page      int
	Limit     int
	Query     string
	SortBy    string
	SortType  string
	UserID    string
	Username  string
	Published *bool
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	for key, value := range map[string]string{
		"query":    p.Query,
		"sortBy":   p.SortBy,
		"sortType": p.SortType,
		"userId":   p.UserID,
		"username": p.Username,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	if p.Published != nil {
		q.Set("published", strconv.FormatBool(*p.Published))
	}
	return q
}

func (v *Videos) List(ctx context.Context, p ListParams) (apiclient.Page[models.Video], error) {
	return fetchQuery[apiclient.Page[models.Video]](ctx, v.api, "/videos", p.values())
}

func (v *Videos) Get(ctx context.Context, id string) (models.Video, error) {
	return fetch[models.Video](ctx, v.api, http.MethodGet, "/videos/v"+seg(id), nil)
}

// IncrementViews records one view. Callers fire it once per visit.
func (v *Videos) IncrementViews(ctx context.Context, id string) error {
	return exec(ctx, v.api, http.MethodPatch, "/videos/v"+seg(id), nil)
}

// Upload publishes a new video. onProgress, when set, observes file bytes
// as they are written to the connection.
func (v *Videos) Upload(ctx context.Context, up forms.VideoUpload, onProgress forms.ProgressFunc) (models.Video, error) {
	form := up.Multipart()
	form.OnProgress = onProgress
	return send[models.Video](ctx, v.api, http.MethodPost, "/videos", form)
}

func (v *Videos) Update(ctx context.Context, id string, edit forms.VideoEdit) (models.Video, error) {
	return send[models.Video](ctx, v.api, http.MethodPatch, "/videos/uv"+seg(id), edit.Multipart())
}

func (v *Videos) Delete(ctx context.Context, id string) error {
	return exec(ctx, v.api, http.MethodDelete, "/videos/uv"+seg(id), nil)
}

func (v *Videos) TogglePublish(ctx context.Context, id string) error {
	return exec(ctx, v.api, http.MethodPatch, "/videos/uv"+seg(id)+"/toggle-publish", nil)
}

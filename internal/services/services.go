// Package services maps each remote operation to its verb, path and body
// shape. Facades are stateless and validate nothing beyond what the
// transport reports.
package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/forms"
)

// Set bundles every facade over one client.
type Set struct {
	Accounts      *Accounts
	Videos        *Videos
	Tweets        *Tweets
	Subscriptions *Subscriptions
	Playlists     *Playlists
	Reactions     *Reactions
	Comments      *Comments
	Dashboard     *Dashboard
}

// NewSet builds all facades over api.
func NewSet(api *apiclient.Client) *Set {
	if api == nil {
		panic("services: api client is required")
	}
	return &Set{
		Accounts:      &Accounts{api: api},
		Videos:        &Videos{api: api},
		Tweets:        &Tweets{api: api},
		Subscriptions: &Subscriptions{api: api},
		Playlists:     &Playlists{api: api},
		Reactions:     &Reactions{api: api},
		Comments:      &Comments{api: api},
		Dashboard:     &Dashboard{api: api},
	}
}

func fetch[T any](ctx context.Context, api *apiclient.Client, method, path string, payload any) (T, error) {
	var env apiclient.Envelope[T]
	err := api.DoJSON(ctx, method, path, payload, &env)
	return env.Data, err
}

func fetchQuery[T any](ctx context.Context, api *apiclient.Client, path string, query url.Values) (T, error) {
	var env apiclient.Envelope[T]
	err := api.Do(ctx, path, apiclient.RequestOptions{Method: http.MethodGet, Query: query}, &env)
	return env.Data, err
}

func send[T any](ctx context.Context, api *apiclient.Client, method, path string, form *forms.Multipart) (T, error) {
	var env apiclient.Envelope[T]
	err := api.DoForm(ctx, path, form, method, &env)
	return env.Data, err
}

func exec(ctx context.Context, api *apiclient.Client, method, path string, payload any) error {
	return api.DoJSON(ctx, method, path, payload, nil)
}

func seg(id string) string {
	return "/" + url.PathEscape(id)
}

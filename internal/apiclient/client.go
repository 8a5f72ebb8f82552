// Package apiclient is the single way the rest of the module talks to the
// REST service: bearer authentication, JSON and multipart bodies, and a
// uniform *StatusError for non-2xx responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/tokens"
)

// TokenReader yields the persisted access token. It is consulted on every
// call so a rotated token is used by the very next request.
type TokenReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Tokens  TokenReader
	// Transport defaults to http.DefaultTransport and is always wrapped by
	// the logging transport.
	Transport http.RoundTripper
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
	// RateLimit in requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Client performs authenticated calls against the API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenReader
	limiter *rate.Limiter
}

// RequestOptions mirrors the pieces of a request a caller may set.
type RequestOptions struct {
	Method string
	Header http.Header
	Query  url.Values
	Body   io.Reader
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be absolute http(s), got %q", cfg.BaseURL)
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token reader is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: logging.NewTransport(cfg.Transport),
			Timeout:   cfg.Timeout,
		},
		tokens: cfg.Tokens,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request to path and decodes the JSON response into out, which
// may be nil to discard the body.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, out any) (err error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := logging.StartSpan(ctx, "api "+method+" "+path)
	defer func() { span.End(err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, opts.Body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	token, err := c.tokens.Get(ctx, tokens.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{StatusCode: resp.StatusCode, Method: method, Path: path}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// DoJSON encodes payload as the request body. A nil payload sends no body.
func (c *Client) DoJSON(ctx context.Context, method, path string, payload, out any) error {
	opts := RequestOptions{Method: method}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", path, err)
		}
		opts.Body = bytes.NewReader(body)
		opts.Header = http.Header{"Content-Type": []string{"application/json"}}
	}
	return c.Do(ctx, path, opts, out)
}

// DoForm streams a multipart body. The content type, boundary included, is
// always the one the multipart writer produced. method defaults to POST.
func (c *Client) DoForm(ctx context.Context, path string, form *forms.Multipart, method string, out any) error {
	if method == "" {
		method = http.MethodPost
	}
	if form == nil {
		form = forms.NewMultipart()
	}

	if total := form.TotalSize(); total >= 0 {
		logging.FromContext(ctx).Debug("uploading form",
			slog.String("path", path),
			slog.Any("fields", form.FieldNames()),
			slog.String("size", humanize.Bytes(uint64(total))),
		)
	}

	body, contentType := form.Encode()
	defer body.Close()

	return c.Do(ctx, path, RequestOptions{
		Method: method,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	}, out)
}

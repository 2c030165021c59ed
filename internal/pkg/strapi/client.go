// Package strapi is a thin REST client for the Strapi CMS.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rwtnews/site/internal/pkg/qs"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Observer is called once per request. status is 0 when no response arrived.
type Observer func(resource string, status int, elapsed time.Duration)

type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Client is safe for concurrent use.
type Client struct {
	base     string
	token    string
	http     *http.Client
	log      *zap.Logger
	observer Observer
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:     strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		http:     hc,
		log:      log,
		observer: opts.Observer,
	}
}

// BaseURL is the CMS origin without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// URL builds base + "/api" + path + "?" + query.
func (c *Client) URL(path string, params qs.Params) string {
	return c.rawURL(path, qs.Encode(params))
}

func (c *Client) rawURL(path, rawQuery string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.base + "/api" + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// Get fetches path with params and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, params qs.Params, out any) error {
	body, err := c.Do(ctx, http.MethodGet, path, qs.Encode(params), nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Post sends payload as JSON. out may be nil when the response is not needed.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("strapi: encode body: %w", err)
	}
	body, err := c.Do(ctx, http.MethodPost, path, "", bytes.NewReader(data))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(body, out)
}

// Do performs one request with an already encoded query and returns the
// raw body of a 2xx response. Non-2xx responses become *FetchError.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader) ([]byte, error) {
	target := c.rawURL(path, rawQuery)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("strapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" && ExecutionFrom(ctx) == ExecutionServer {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, 0, start)
		return nil, fmt.Errorf("strapi: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	c.observe(path, resp.StatusCode, start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("strapi: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &FetchError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			URL:        target,
			Body:       string(data),
		}
		c.log.Error("strapi request failed",
			zap.Int("status", fe.Status),
			zap.String("url", fe.URL),
			zap.String("body", fe.Body),
		)
		return nil, fe
	}
	return data, nil
}

func (c *Client) observe(path string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(resourceOf(path), status, time.Since(start))
	}
}

// resourceOf keeps metric labels bounded: "/articles/12" -> "articles".
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	return path
}

func decode(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("strapi: decode response: %w", err)
	}
	return nil
}

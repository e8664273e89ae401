package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogfeed/internal/logging"

	"github.com/google/uuid"
)

const (
	// PageSize is the fixed number of posts requested per page.
	PageSize = 10

	// SortNewestFirst orders posts by creation time, descending.
	SortNewestFirst = "-created_at"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the posts service over HTTP.
// It holds no state between calls; concurrent use is safe.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	newRequestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRequestIDFunc overrides request id generation (tests use fixed ids).
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// NewClient builds a client for the service rooted at baseURL.
// A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListPosts fetches one page of posts, newest first.
// An empty page is not an error; callers decide what "no more posts" means.
func (c *Client) ListPosts(ctx context.Context, page int) ([]Post, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}

	u := c.baseURL.JoinPath("posts")
	q := u.Query()
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", SortNewestFirst)
	u.RawQuery = q.Encode()

	var out listResponse
	if err := c.do(ctx, http.MethodGet, u, nil, "fetch posts", &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Post{}
	}
	return out.Data, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id ID) (*Post, error) {
	if id == "" {
		return nil, fmt.Errorf("post id required")
	}
	u := c.baseURL.JoinPath("posts", string(id))

	var out itemResponse
	if err := c.do(ctx, http.MethodGet, u, nil, "fetch post", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreatePost submits a new post. The response body is drained and dropped.
func (c *Client) CreatePost(ctx context.Context, p NewPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("post title required")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL.JoinPath("posts"), body, "create post", nil)
}

// do issues one request. When out is nil the body is discarded.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body []byte, op string, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := c.newRequestID()
	req.Header.Set(RequestIDHeader, reqID)

	log := logging.WithRequestID(logging.CategoryAPI, reqID).
		WithField("method", method).
		WithField("url", u.String())
	timer := logging.StartTimer(logging.CategoryAPI, op)
	defer timer.Stop()

	log.Debug("request started")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("transport error: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		se := &StatusError{Op: op, Code: resp.StatusCode}
		log.Warn("%s", se.Detail())
		return se
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Debug("status %d", resp.StatusCode)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("decode failed: %v", err)
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	log.Debug("status %d", resp.StatusCode)
	return nil
}

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "fgcboard/1.0 (+https://github.com/bbernstein/fgcboard)"

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	GetFunc    func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Second
	}

	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
}

// Get fetches baseURL+path. Gateway errors (502/503/504) and transport
// errors are retried up to maxRetries times with a linear backoff; any other
// response is returned as is.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	var fullURL string
	if c.baseURL == "" {
		fullURL = path // If no base URL, treat path as full URL
	} else {
		fullURL = c.baseURL + path // Otherwise combine them
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		resp, err := c.do(ctx, fullURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
		} else if isTransient(resp.StatusCode) {
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else {
			return resp, nil
		}

		log.Debug().
			Err(lastErr).
			Str("url", fullURL).
			Int("attempt", attempt+1).
			Msg("Request failed, retrying")
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, fullURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	// Public APIs often block default Go user agents
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			return
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func isTransient(status int) bool {
	return status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}

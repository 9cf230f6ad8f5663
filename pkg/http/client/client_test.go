package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		baseURL     string
		timeout     time.Duration
		maxRetries  int
		wantTimeout time.Duration
		wantRetries int
	}{
		{
			name:        "default configuration",
			baseURL:     "https://api.example.com",
			wantTimeout: 30 * time.Second,
			wantRetries: 3,
		},
		{
			name:        "custom configuration",
			baseURL:     "https://api.test.com",
			timeout:     5 * time.Second,
			maxRetries:  5,
			wantTimeout: 5 * time.Second,
			wantRetries: 5,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := New(Options{
				BaseURL:    tt.baseURL,
				Timeout:    tt.timeout,
				MaxRetries: tt.maxRetries,
			})

			assert.Equal(t, tt.baseURL, client.baseURL)
			assert.Equal(t, tt.wantTimeout, client.httpClient.Timeout)
			assert.Equal(t, tt.wantRetries, client.maxRetries)
			assert.Equal(t, defaultUserAgent, client.userAgent)
		})
	}
}

func TestRequestFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseURL  string
		path     string
		wantURL  string
		wantCode int
	}{
		{
			name:     "absolute URL",
			baseURL:  "",
			path:     "https://api.example.com/test",
			wantURL:  "/test",
			wantCode: http.StatusOK,
		},
		{
			name:     "query appended to base URL",
			baseURL:  "https://api.example.com",
			path:     "/records?limit=100&offset=0",
			wantURL:  "/records?limit=100&offset=0",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantURL, r.URL.String())
				assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.wantCode)
			}))
			defer server.Close()

			if tt.baseURL == "" {
				tt.path = server.URL + "/test"
			} else {
				tt.baseURL = server.URL
			}

			client := New(Options{
				BaseURL: tt.baseURL,
				Timeout: 5 * time.Second,
			})

			resp, err := client.Get(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, "application/json", resp.ContentType)
		})
	}
}

func TestRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, RetryDelay: time.Millisecond})

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, MaxRetries: 2, RetryDelay: time.Millisecond})

	_, err := client.Get(context.Background(), "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, RetryDelay: time.Millisecond})

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		MaxRetries: 1,
	})

	_, err := client.Get(context.Background(), "/")
	assert.Error(t, err)
}

func TestGetFunc(t *testing.T) {
	t.Parallel()

	client := New(Options{})
	client.GetFunc = func(ctx context.Context, path string) (*Response, error) {
		return nil, errors.New("boom")
	}

	_, err := client.Get(context.Background(), "/anything")
	assert.EqualError(t, err, "boom")
}

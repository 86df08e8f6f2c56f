package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text ..."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, snippet([]byte(tc.in), tc.max), "snippet(%q, %d)", tc.in, tc.max)
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "https://api.personio.test/v1/company/employees",
		StatusCode: 404,
		Body:       []byte("Not Found"),
	}
	assert.Equal(t, "http error: GET https://api.personio.test/v1/company/employees status=404 body=Not Found", err.Error())
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.True(t, cfg.Retry5xx)
	assert.False(t, cfg.RetryUnsafe)
	for _, status := range []int{429, 408, 502, 503, 504} {
		assert.True(t, cfg.RetryStatuses[status], "status %d", status)
	}
	assert.Equal(t, 1, NoRetry().MaxAttempts)
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig()
	for code := 500; code <= 599; code++ {
		assert.True(t, isRetryableStatus(code, cfg), "status %d", code)
	}
	for _, code := range []int{400, 401, 403, 404, 422} {
		assert.False(t, isRetryableStatus(code, cfg), "status %d", code)
	}

	cfg.Retry5xx = false
	assert.False(t, isRetryableStatus(500, cfg))
	assert.True(t, isRetryableStatus(429, cfg))
}

func TestIdempotent(t *testing.T) {
	for _, m := range []string{"GET", "get", "HEAD", "PUT", "DELETE", "OPTIONS"} {
		assert.True(t, Idempotent(m), m)
	}
	for _, m := range []string{"POST", "PATCH", "CONNECT"} {
		assert.False(t, Idempotent(m), m)
	}
}

func TestIsRetryableNetErr(t *testing.T) {
	assert.False(t, isRetryableNetErr(context.Canceled))
	assert.True(t, isRetryableNetErr(context.DeadlineExceeded))
	assert.True(t, isRetryableNetErr(&timeoutError{}))
	assert.True(t, isRetryableNetErr(errors.New("read tcp: connection reset by peer")))
	assert.True(t, isRetryableNetErr(errors.New("write: broken pipe")))
	assert.True(t, isRetryableNetErr(errors.New("unexpected EOF")))
	assert.False(t, isRetryableNetErr(errors.New("some other error")))
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set("Retry-After", "30")
	assert.Equal(t, 30*time.Second, ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
	assert.Zero(t, ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, ParseRetryAfter(resp))

	resp.Header.Del("Retry-After")
	assert.Zero(t, ParseRetryAfter(resp))
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

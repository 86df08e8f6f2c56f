package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
credentials:
  - client_id: "id"
    client_secret: "secret"
employees:
  - id: 7
    first_name: "Grace"
    last_name: "Hopper"
    email: "grace@example.org"
`

func authenticate(t *testing.T, baseURL string) *http.Response {
	t.Helper()
	resp, err := http.Post(baseURL+"/v1/auth?client_id=id&client_secret=secret", "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewHandlerWithSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	h, err := newHandler(path, hclog.NewNullLogger())
	require.NoError(t, err)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	assert.Equal(t, http.StatusOK, authenticate(t, srv.URL).StatusCode)
}

func TestNewHandlerMissingSeedFile(t *testing.T) {
	_, err := newHandler(filepath.Join(t.TempDir(), "none.yaml"), hclog.NewNullLogger())
	assert.ErrorContains(t, err, "open seed file")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, options{addr: addr, tokenTTL: time.Hour, shutdown: time.Second}, hclog.NewNullLogger())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Post("http://"+addr+"/v1/auth?client_id=twin-client&client_secret=twin-secret", "application/json", nil)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

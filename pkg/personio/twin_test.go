package personio_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"personio-go/internal/httpx"
	"personio-go/internal/twin/api"
	"personio-go/internal/twin/store"
	"personio-go/pkg/personio"
)

const (
	rms  = 2116365
	alan = 2040614
	ada  = 2628890
)

type testTwin struct {
	srv     *httptest.Server
	handler *api.Handler
	store   *store.MemoryStore
}

func startTwin(t *testing.T) *testTwin {
	t.Helper()
	s := store.New(store.DefaultSeed())
	h := api.NewHandler(s, nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return &testTwin{srv: srv, handler: h, store: s}
}

func (tw *testTwin) client(t *testing.T, opts ...personio.Option) *personio.Client {
	t.Helper()
	base := []personio.Option{
		personio.WithBaseURL(tw.srv.URL + "/v1"),
		personio.WithCredentials("twin-client", "twin-secret"),
		personio.WithRetryConfig(httpx.NoRetry()),
	}
	c, err := personio.New(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// requests returns the recorded requests for path.
func (tw *testTwin) requests(path string) []api.RecordedRequest {
	var out []api.RecordedRequest
	for _, r := range tw.handler.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

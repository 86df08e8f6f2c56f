package sftpclient

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Config{Host: "h", User: "u", Pass: "p"}.withDefaults()
	assert.Equal(t, 22, cfg.Port)
	assert.Equal(t, "/", cfg.RemoteDir)

	cfg = Config{Port: 2222, RemoteDir: "/in"}.withDefaults()
	assert.Equal(t, 2222, cfg.Port)
	assert.Equal(t, "/in", cfg.RemoteDir)
}

func TestUploadReaderValidation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing host", Config{User: "u", Pass: "p"}, "missing SFTP_HOST"},
		{"missing user", Config{Host: "h", Pass: "p"}, "missing SFTP_HOST"},
		{"missing pass", Config{Host: "h", User: "u"}, "missing SFTP_HOST"},
		{"no host key policy", Config{Host: "h", User: "u", Pass: "p"}, "no known_hosts file configured"},
		{"unreadable known_hosts", Config{Host: "h", User: "u", Pass: "p", KnownHostsFile: "/does/not/exist"}, "known_hosts"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UploadReader(ctx, tc.cfg, strings.NewReader("x"), "x.csv")
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestUploadFileMissingLocalFile(t *testing.T) {
	err := UploadFile(context.Background(), Config{}, filepath.Join(t.TempDir(), "nope.csv"), "nope.csv")
	assert.ErrorContains(t, err, "open local file")
}

func TestUploadReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Host: "192.0.2.1", User: "u", Pass: "p", InsecureIgnoreHostKey: true}

	err := UploadReader(ctx, cfg, strings.NewReader("x"), "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKnownHostsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cb, err := Config{KnownHostsFile: path}.hostKeyCallback()
	require.NoError(t, err)
	assert.NotNil(t, cb)
}

// memClient connects an sftp client to an in-memory server.
func memClient(t *testing.T) *sftp.Client {
	t.Helper()
	c1r, c1w := io.Pipe()
	c2r, c2w := io.Pipe()
	server := sftp.NewRequestServer(struct {
		io.Reader
		io.WriteCloser
	}{c1r, c2w}, sftp.InMemHandler())
	go server.Serve()

	client, err := sftp.NewClientPipe(c2r, c1w)
	require.NoError(t, err)
	// the client waits for its reader, so the server side closes first
	t.Cleanup(func() {
		server.Close()
		c2w.Close()
		c1r.Close()
		client.Close()
	})
	return client
}

func TestUpload(t *testing.T) {
	cli := memClient(t)

	require.NoError(t, Upload(cli, "/exports", "employees.csv", strings.NewReader("id,name\n1,Ada\n")))

	f, err := cli.Open("/exports/employees.csv")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Ada\n", string(got))

	assert.ErrorContains(t, Upload(cli, "/exports", "../escape.csv", strings.NewReader("")), "invalid remote file name")
}

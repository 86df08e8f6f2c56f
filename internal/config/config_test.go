package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.personio.de/v1/", cfg.BaseURL)
	assert.Equal(t, 200, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 22, cfg.SFTP.Port)
	assert.Equal(t, "/", cfg.SFTP.Dir)
	assert.Empty(t, cfg.ClientID)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("PERSONIO_PAGE_SIZE", "50")
	t.Setenv("PERSONIO_LOG_LEVEL", "debug")
	t.Setenv("SFTP_HOST", "sftp.example.org")
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("SFTP_INSECURE_IGNORE_HOST_KEY", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "sftp.example.org", cfg.SFTP.Host)
	assert.Equal(t, 2222, cfg.SFTP.Port)
	assert.True(t, cfg.SFTP.InsecureIgnoreHostKey)
	assert.True(t, cfg.Logger("test").IsDebug())
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "personio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
client_id: from-file
client_secret: file-secret
page_size: 100
aliases:
  dynamic_123: shirt_size
sftp:
  host: files.example.org
  known_hosts: /etc/ssh/known_hosts
`), 0o600))
	t.Setenv("CLIENT_ID", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, map[string]string{"dynamic_123": "shirt_size"}, cfg.Aliases)

	sc := cfg.SFTPConfig()
	assert.Equal(t, "files.example.org", sc.Host)
	assert.Equal(t, 22, sc.Port)
	assert.Equal(t, "/etc/ssh/known_hosts", sc.KnownHostsFile)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	t.Setenv("PERSONIO_PAGE_SIZE", "0")
	t.Setenv("PERSONIO_LOG_LEVEL", "chatty")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size must be positive")
	assert.Contains(t, err.Error(), `unknown log_level "chatty"`)
}

func TestValidateCollectsErrors(t *testing.T) {
	err := Config{PageSize: -1, LogLevel: "chatty", SFTP: SFTP{Port: 70000}}.Validate()
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.EqualError(t, merr.Errors[2], "sftp.port out of range: 70000")

	assert.NoError(t, Config{PageSize: 10, LogLevel: "info", SFTP: SFTP{Port: 22}}.Validate())
}

func TestLogger(t *testing.T) {
	l := Config{LogLevel: "warn"}.Logger("personio")
	assert.Equal(t, "personio", l.Name())
	assert.Equal(t, hclog.Warn, l.GetLevel())
}

// Package config loads settings for the personio command line tools from
// environment variables and an optional YAML file.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"personio-go/internal/sftpclient"
)

type Config struct {
	// Personio
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
	PageSize     int    `mapstructure:"page_size"`
	LogLevel     string `mapstructure:"log_level"`

	// Aliases for custom attributes, keyed by "dynamic_<id>".
	Aliases map[string]string `mapstructure:"aliases"`

	SFTP SFTP `mapstructure:"sftp"`
}

type SFTP struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	User                  string `mapstructure:"user"`
	Pass                  string `mapstructure:"pass"`
	Dir                   string `mapstructure:"dir"`
	KnownHosts            string `mapstructure:"known_hosts"`
	InsecureIgnoreHostKey bool   `mapstructure:"insecure_ignore_host_key"`
}

// envBindings maps config keys to the environment variables they are read
// from. The client credentials keep the names used by the Personio docs.
var envBindings = map[string]string{
	"client_id":                     "CLIENT_ID",
	"client_secret":                 "CLIENT_SECRET",
	"base_url":                      "PERSONIO_BASE_URL",
	"page_size":                     "PERSONIO_PAGE_SIZE",
	"log_level":                     "PERSONIO_LOG_LEVEL",
	"sftp.host":                     "SFTP_HOST",
	"sftp.port":                     "SFTP_PORT",
	"sftp.user":                     "SFTP_USER",
	"sftp.pass":                     "SFTP_PASS",
	"sftp.dir":                      "SFTP_DIR",
	"sftp.known_hosts":              "SFTP_KNOWN_HOSTS",
	"sftp.insecure_ignore_host_key": "SFTP_INSECURE_IGNORE_HOST_KEY",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "https://api.personio.de/v1/")
	v.SetDefault("page_size", 200)
	v.SetDefault("log_level", "info")
	v.SetDefault("sftp.port", 22)
	v.SetDefault("sftp.dir", "/")
	for key, env := range envBindings {
		// BindEnv only fails without a key
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads the configuration. Environment variables win over values from
// path; an empty path means environment only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var result *multierror.Error
	if c.PageSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if c.SFTP.Port <= 0 || c.SFTP.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("sftp.port out of range: %d", c.SFTP.Port))
	}
	return result.ErrorOrNil()
}

// Logger returns a named logger at the configured level.
func (c Config) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(strings.TrimSpace(c.LogLevel)),
	})
}

// SFTPConfig converts the sftp section for the upload client.
func (c Config) SFTPConfig() sftpclient.Config {
	return sftpclient.Config{
		Host:                  c.SFTP.Host,
		Port:                  c.SFTP.Port,
		User:                  c.SFTP.User,
		Pass:                  c.SFTP.Pass,
		RemoteDir:             c.SFTP.Dir,
		KnownHostsFile:        c.SFTP.KnownHosts,
		InsecureIgnoreHostKey: c.SFTP.InsecureIgnoreHostKey,
	}
}

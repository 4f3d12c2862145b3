package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Abbr
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Abbr struct {
		APIURL        string        // Guess endpoint, e.g. https://lab.magiconch.com/api/nbnhhsh/guess
		IgnorePrefix  bool          // Answer "abbr yyds" without the command prefix
		CommandPrefix string        // Prefix of explicit commands (default: "/")
		Timeout       time.Duration // Connect and total request timeout (default: 5s)
	}

	Log struct {
		Level       string // debug, info, warn, error
		Development bool   // Console encoder instead of JSON
	}
)

// ErrMissingAPIURL is returned by Validate when API_URL is unset.
var ErrMissingAPIURL = errors.New("API_URL is not set")

// MinRequestTimeout is the smallest REQUEST_TIMEOUT Validate accepts.
const MinRequestTimeout = 100 * time.Millisecond

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("api_url", "")
	v.SetDefault("ignore_prefix", false)
	v.SetDefault("command_prefix", "/")
	v.SetDefault("request_timeout", "5s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Abbr: Abbr{
			APIURL:        v.GetString("API_URL"),
			IgnorePrefix:  v.GetBool("IGNORE_PREFIX"),
			CommandPrefix: v.GetString("COMMAND_PREFIX"),
			Timeout:       requestTimeout(v),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}
}

// Validate checks the settings the lookup cannot run without.
func (c *Config) Validate() error {
	if c.Abbr.APIURL == "" {
		return ErrMissingAPIURL
	}
	u, err := url.Parse(c.Abbr.APIURL)
	if err != nil {
		return fmt.Errorf("parse API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) url, got %q", c.Abbr.APIURL)
	}
	if c.Abbr.Timeout < MinRequestTimeout {
		return fmt.Errorf("REQUEST_TIMEOUT must be at least %s, got %s", MinRequestTimeout, c.Abbr.Timeout)
	}
	return nil
}

// requestTimeout reads REQUEST_TIMEOUT as a duration ("5s", "1500ms") or a
// bare number of seconds ("5").
func requestTimeout(v *viper.Viper) time.Duration {
	raw := strings.TrimSpace(v.GetString("REQUEST_TIMEOUT"))
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return v.GetDuration("REQUEST_TIMEOUT")
}

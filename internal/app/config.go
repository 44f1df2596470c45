package app

import (
	"errors"
	"fmt"
	"net/url"
)

// Config holds everything an App needs to start.
type Config struct {
	// SchemaPaths are .hcl/.yaml files or directories to declare from.
	// Without them the App runs against whatever the store already holds.
	SchemaPaths []string
	// StorePath is the sqlite database; empty uses an in-memory store.
	StorePath string
	// LiveURL, when set, publishes every change to a socket.io server.
	LiveURL string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.LiveURL != "" {
		u, err := url.Parse(cfg.LiveURL)
		if err != nil {
			return nil, fmt.Errorf("invalid live url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.New("invalid live url: needs a scheme and host")
		}
	}
	return &cfg, nil
}

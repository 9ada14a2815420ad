package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultServer  = "http://localhost:5000"
	defaultTimeout = 10 * time.Second
)

// settings are the todoctl defaults, resolved in order: built-in values,
// config file, environment. Command-line flags override all of them.
type settings struct {
	Server  string        `toml:"server"`
	Timeout time.Duration `toml:"-"`
	// TimeoutText is the TOML form of Timeout, e.g. "5s".
	TimeoutText string `toml:"timeout"`
}

// configPath returns TODOCTL_CONFIG when set, otherwise
// <user config dir>/todoctl/config.toml.
func configPath() string {
	if p := os.Getenv("TODOCTL_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todoctl", "config.toml")
}

func loadSettings(path string) (settings, error) {
	s := settings{Server: defaultServer, Timeout: defaultTimeout}

	if path != "" {
		var file settings
		_, err := toml.DecodeFile(path, &file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("loading config file %s: %w", path, err)
		default:
			if file.Server != "" {
				s.Server = file.Server
			}
			if file.TimeoutText != "" {
				d, err := time.ParseDuration(file.TimeoutText)
				if err != nil {
					return s, fmt.Errorf("config file %s: invalid timeout %q: %w", path, file.TimeoutText, err)
				}
				s.Timeout = d
			}
		}
	}

	if v := os.Getenv("TODO_SERVER"); v != "" {
		s.Server = v
	}
	return s, nil
}

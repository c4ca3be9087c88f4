package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional dockercp configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Docker   DockerConfig   `toml:"docker"`
	Host     HostConfig     `toml:"host"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	BufferLength *string `toml:"buffer_length"`
	BWLimit      *string `toml:"bwlimit"`
	Verify       *bool   `toml:"verify"`
}

// DockerConfig selects the daemon to query.
type DockerConfig struct {
	Host       *string `toml:"host"`
	APIVersion *string `toml:"api_version"`
}

// HostConfig describes host facts the resolver reads.
type HostConfig struct {
	MountTable *string `toml:"mount_table"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dockercp", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path. An empty path or a missing file
// yields a zero Config.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Defaults.BufferLength != nil {
		n, err := ParseSize(*c.Defaults.BufferLength)
		if err != nil {
			return fmt.Errorf("defaults.buffer_length: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("defaults.buffer_length: must be positive")
		}
	}
	if c.Defaults.BWLimit != nil {
		if _, err := ParseSize(*c.Defaults.BWLimit); err != nil {
			return fmt.Errorf("defaults.bwlimit: %w", err)
		}
	}
	return nil
}

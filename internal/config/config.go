// Package config loads the optional meterbus TOML file. Command line flags
// are layered on top by the CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/ganehag/meterbus-restaurant/internal/options"
)

// Config is the resolved runtime configuration.
type Config struct {
	Mode     options.Mode
	KeyHex   string
	Pretty   bool
	LogLevel logrus.Level
	Server   ServerConfig
}

// ServerConfig tunes the HTTP adapter.
type ServerConfig struct {
	Addr         string
	MaxBodyBytes int64
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Mode:     options.ModeAuto,
		LogLevel: logrus.InfoLevel,
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			MaxBodyBytes: 64 << 10,
		},
	}
}

// config.toml key mapping.
type fileConfig struct {
	Mode     string `toml:"mode"`
	Key      string `toml:"key"`
	Pretty   bool   `toml:"pretty"`
	LogLevel string `toml:"log_level"`
	Server   struct {
		Addr         string `toml:"addr"`
		MaxBodyBytes int64  `toml:"max_body_bytes"`
	} `toml:"server"`
}

// Load overlays the file at path on Default. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("mode") {
		mode, err := options.ParseMode(raw.Mode)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.Mode = mode
	}
	if meta.IsDefined("key") {
		key := strings.TrimSpace(raw.Key)
		if _, err := options.ParseKeyHex(key); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.KeyHex = key
	}
	if meta.IsDefined("pretty") {
		cfg.Pretty = raw.Pretty
	}
	if meta.IsDefined("log_level") {
		level, err := logrus.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "max_body_bytes") {
		if raw.Server.MaxBodyBytes <= 0 {
			return Config{}, fmt.Errorf("load config: max_body_bytes must be positive, got %d", raw.Server.MaxBodyBytes)
		}
		cfg.Server.MaxBodyBytes = raw.Server.MaxBodyBytes
	}
	return cfg, nil
}

// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config provides configuration loading for the flights service.
//
// Configuration is resolved in three layers, later layers winning:
// built-in defaults, an optional YAML file, then SKYROUTES_*
// environment variables. The resolved configuration is validated
// before use.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxConfigFileSize is the maximum allowed config file size (1MB).
// Prevents memory issues from accidentally pointing at a large file.
const MaxConfigFileSize = 1024 * 1024

// SearchConfig tunes the route search engine.
type SearchConfig struct {
	// LayoverMinutes is the minimum connection buffer.
	LayoverMinutes int `yaml:"layover_minutes" validate:"min=1"`

	// PopBoundPad is added to K for the search termination guard.
	PopBoundPad int `yaml:"pop_bound_pad" validate:"min=1"`

	// DefaultK is the itinerary count when the caller omits k.
	DefaultK int `yaml:"default_k" validate:"min=1"`

	// MaxK caps the itineraries a single search may request.
	MaxK int `yaml:"max_k" validate:"min=1"`

	// MaxListLimit caps the flights a single list call may request.
	MaxListLimit int `yaml:"max_list_limit" validate:"min=1"`
}

// Config is the resolved flights service configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `yaml:"listen_addr" validate:"required"`

	// DataDir is the directory for the embedded catalog database.
	DataDir string `yaml:"data_dir" validate:"required"`

	// LogDir enables file logging when set.
	LogDir string `yaml:"log_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// CORSOrigins lists allowed browser origins. Empty allows all.
	CORSOrigins []string `yaml:"cors_origins"`

	Search SearchConfig `yaml:"search"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		DataDir:    "./data",
		LogLevel:   "info",
		Search: SearchConfig{
			LayoverMinutes: 60,
			PopBoundPad:    5,
			DefaultK:       5,
			MaxK:           50,
			MaxListLimit:   500,
		},
	}
}

// Load resolves the configuration.
//
// Description:
//
//	Starts from Default(), merges the YAML file at path when path is
//	non-empty, applies SKYROUTES_* environment overrides, then
//	validates. A missing file at an explicitly given path is an
//	error; an empty path skips the file layer entirely.
//
// Inputs:
//
//	path - Optional YAML config file path.
//
// Outputs:
//
//	Config - The resolved configuration.
//	error - Non-nil on unreadable file, malformed YAML, or validation failure.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if info.Size() > MaxConfigFileSize {
			return Config{}, fmt.Errorf("config file %s exceeds %d bytes", path, MaxConfigFileSize)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Search.DefaultK > c.Search.MaxK {
		return fmt.Errorf("invalid configuration: default_k %d exceeds max_k %d",
			c.Search.DefaultK, c.Search.MaxK)
	}
	return nil
}

// applyEnv merges SKYROUTES_* environment variables into the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SKYROUTES_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SKYROUTES_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SKYROUTES_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("SKYROUTES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SKYROUTES_LAYOVER_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.LayoverMinutes = n
		}
	}
	if v := os.Getenv("SKYROUTES_DEFAULT_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultK = n
		}
	}
}

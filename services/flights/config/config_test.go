// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.Search.LayoverMinutes)
	assert.Equal(t, 5, cfg.Search.DefaultK)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyroutes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9090"
data_dir: /var/lib/skyroutes
log_level: debug
search:
  layover_minutes: 45
  pop_bound_pad: 3
  default_k: 3
  max_k: 20
  max_list_limit: 100
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/skyroutes", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45, cfg.Search.LayoverMinutes)
	assert.Equal(t, 3, cfg.Search.DefaultK)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [oops"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyroutes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`listen_addr: ":9090"`), 0600))

	t.Setenv("SKYROUTES_LISTEN_ADDR", ":7070")
	t.Setenv("SKYROUTES_LAYOVER_MINUTES", "90")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 90, cfg.Search.LayoverMinutes)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"zero layover", func(c *Config) { c.Search.LayoverMinutes = 0 }},
		{"zero default k", func(c *Config) { c.Search.DefaultK = 0 }},
		{"default k above max k", func(c *Config) { c.Search.DefaultK = 99 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
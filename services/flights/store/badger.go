// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// catalogKey is the single key the whole catalog document lives under.
const catalogKey = "catalog"

// Persister is the durable backing for a Store.
//
// The store keeps the catalog as one document, so the contract is a
// whole-document load and a synchronous whole-document save.
type Persister interface {
	// Load returns the persisted catalog document, or nil with no
	// error when nothing has been persisted yet.
	Load() ([]byte, error)

	// Save durably writes the catalog document. It must not return
	// until the write is synced.
	Save(data []byte) error

	// Close releases the backing resources.
	Close() error
}

// BadgerConfig holds configuration for the BadgerDB-backed persister.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files.
	// Required for persistent databases. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger is the logger for BadgerDB operations.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns sensible defaults for production use:
// synchronous writes at the given path.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryBadgerConfig returns configuration optimized for testing:
// in-memory mode, no disk I/O, asynchronous writes.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerPersister stores the catalog document under a single key in
// an embedded BadgerDB instance.
type BadgerPersister struct {
	db *badger.DB
}

// OpenBadger creates and opens a BadgerDB-backed persister.
//
// Description:
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist.
//
// Inputs:
//
//	cfg - Database configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*BadgerPersister - The opened persister. Caller must Close() when done.
//	error - Non-nil if path is invalid or database cannot be opened.
func OpenBadger(cfg BadgerConfig) (*BadgerPersister, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil) // Disable BadgerDB's internal logging
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &BadgerPersister{db: db}, nil
}

// Load returns the persisted catalog document, or nil when the key
// has never been written.
func (p *BadgerPersister) Load() ([]byte, error) {
	var data []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(catalogKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return data, nil
}

// Save writes the catalog document under the catalog key. With
// SyncWrites enabled the write is synced before Update returns.
func (p *BadgerPersister) Save(data []byte) error {
	err := p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(catalogKey), data)
	})
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (p *BadgerPersister) Close() error {
	return p.db.Close()
}

var _ Persister = (*BadgerPersister)(nil)

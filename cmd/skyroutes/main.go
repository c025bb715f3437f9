// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command skyroutes runs the flight catalog and route search server.
//
// Usage:
//
//	go run ./cmd/skyroutes serve
//	go run ./cmd/skyroutes serve --config skyroutes.yaml
//	go run ./cmd/skyroutes seed --config skyroutes.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/flights/health
//
//	# List airports
//	curl http://localhost:8080/v1/flights/airports | jq
//
//	# Top-K route search
//	curl "http://localhost:8080/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01&k=3" | jq
//
//	# Create a flight
//	curl -X POST http://localhost:8080/v1/flights/admin/flights \
//	  -H "Content-Type: application/json" \
//	  -d '{"id":"BA117","from":"LHR","to":"JFK","airline":"British Airways","date":"2026-12-04","departure_time":"10:20","arrival_time":"18:05","duration":"7h 45m","price":540}'
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/meridianaero/skyroutes/pkg/logging"
	"github.com/meridianaero/skyroutes/services/flights"
	"github.com/meridianaero/skyroutes/services/flights/config"
	"github.com/meridianaero/skyroutes/services/flights/store"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	debugMode  bool

	rootCmd = &cobra.Command{
		Use:   "skyroutes",
		Short: "Flight catalog and route search server",
		Long: `Skyroutes serves a durable flight catalog with a top-K
route search over the flight connection graph.`,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Reset the data directory to the built-in seed catalog",
		Long: `Overwrites the persisted catalog with the deterministic seed
airports and flights, discarding any admin edits.`,
		RunE: runSeed,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the skyroutes version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("skyroutes", flights.ServiceVersion)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	serveCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable Gin debug mode and request logging")
	rootCmd.AddCommand(serveCmd, seedCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   parseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: "skyroutes",
	})
	defer logger.Close()

	persister, err := store.OpenBadger(store.DefaultBadgerConfig(catalogPath(cfg)))
	if err != nil {
		return fmt.Errorf("open catalog database: %w", err)
	}
	defer persister.Close()

	st, err := store.Open(persister, logger.Slog())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	svc := flights.NewService(st, flights.ServiceConfig{
		LayoverMinutes: cfg.Search.LayoverMinutes,
		PopBoundPad:    cfg.Search.PopBoundPad,
		DefaultK:       cfg.Search.DefaultK,
		MaxK:           cfg.Search.MaxK,
		MaxListLimit:   cfg.Search.MaxListLimit,
	}, logger.Slog())

	if debugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if debugMode {
		router.Use(gin.Logger())
	}
	flights.RegisterRoutes(router.Group("/v1"), flights.NewHandlers(svc))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	corsOpts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}
	if len(cfg.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = cfg.CORSOrigins
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           cors.New(corsOpts).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", cfg.ListenAddr, "data_dir", cfg.DataDir)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   parseLevel(cfg.LogLevel),
		Service: "skyroutes",
	})
	defer logger.Close()

	persister, err := store.OpenBadger(store.DefaultBadgerConfig(catalogPath(cfg)))
	if err != nil {
		return fmt.Errorf("open catalog database: %w", err)
	}
	defer persister.Close()

	airports, flightCount, err := store.Seed(persister, logger.Slog())
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d airports and %d flights in %s\n", airports, flightCount, cfg.DataDir)
	return nil
}

// catalogPath is where the embedded catalog database lives inside the
// configured data directory.
func catalogPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "catalog")
}

func parseLevel(level string) logging.Level {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
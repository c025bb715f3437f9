// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package flights is the flight catalog and route search service.
//
// The service composes three layers: the durable record store, the
// derived flight graph, and the route search engine. Writes go
// straight to the store; reads that need the graph go through a
// cached index that is rebuilt whenever the store generation moves.
package flights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meridianaero/skyroutes/services/flights/graph"
	"github.com/meridianaero/skyroutes/services/flights/search"
	"github.com/meridianaero/skyroutes/services/flights/store"
)

// ServiceVersion is the flights service version.
const ServiceVersion = "0.1.0"

var tracer trace.Tracer = otel.Tracer("skyroutes.flights")

var (
	searchSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skyroutes_route_search_duration_seconds",
		Help:    "Duration of route search calls.",
		Buckets: prometheus.DefBuckets,
	})
	routesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skyroutes_route_search_results",
		Help:    "Number of itineraries returned per route search.",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
	})
	indexRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyroutes_graph_index_rebuilds_total",
		Help: "Total number of flight graph index rebuilds.",
	})
)

// ServiceConfig tunes the flights service.
type ServiceConfig struct {
	// LayoverMinutes is the minimum connection buffer for route search.
	LayoverMinutes int

	// PopBoundPad is added to K for the search termination guard.
	PopBoundPad int

	// DefaultK is the number of routes returned when the caller
	// omits k.
	DefaultK int

	// MaxK caps the routes a single search may request.
	MaxK int

	// MaxListLimit caps the flights a single list call may request.
	MaxListLimit int
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		LayoverMinutes: search.DefaultLayoverMinutes,
		PopBoundPad:    search.DefaultPopBoundPad,
		DefaultK:       5,
		MaxK:           50,
		MaxListLimit:   500,
	}
}

// Service wires the store, the graph index and the search engine.
//
// Safe for concurrent use. Route searches run over an immutable index
// built from an already-taken snapshot; the store lock is never held
// across a search.
type Service struct {
	cfg    ServiceConfig
	store  *store.Store
	engine *search.Engine
	logger *slog.Logger

	// mu guards the cached index only.
	mu    sync.Mutex
	index *graph.Index
}

// NewService creates a Service over an opened store.
func NewService(st *store.Store, cfg ServiceConfig, logger *slog.Logger) *Service {
	return &Service{
		cfg:   cfg,
		store: st,
		engine: search.New(search.Options{
			LayoverMinutes: cfg.LayoverMinutes,
			PopBoundPad:    cfg.PopBoundPad,
		}),
		logger: logger,
	}
}

// Store exposes the underlying record store for admin mutations.
func (s *Service) Store() *store.Store {
	return s.store
}

// ListAirports returns all airports.
func (s *Service) ListAirports() []store.Airport {
	return s.store.Airports()
}

// ListFlights returns up to limit flights in store order. Zero or
// negative selects the store default; values above MaxListLimit are
// clamped.
func (s *Service) ListFlights(limit int) []store.Flight {
	if limit > s.cfg.MaxListLimit {
		limit = s.cfg.MaxListLimit
	}
	return s.store.Flights(limit)
}

// FindFlights returns direct flights between an origin and
// destination pair, in store order.
func (s *Service) FindFlights(from, to string) []store.Flight {
	_, flights := s.store.Snapshot()
	matched := []store.Flight{}
	for _, f := range flights {
		if f.From == from && f.To == to {
			matched = append(matched, f)
		}
	}
	return matched
}

// FlightsByDate returns all flights on a calendar date, in store order.
func (s *Service) FlightsByDate(date string) []store.Flight {
	_, flights := s.store.Snapshot()
	matched := []store.Flight{}
	for _, f := range flights {
		if f.Date == date {
			matched = append(matched, f)
		}
	}
	return matched
}

// SearchRoutes finds up to k itineraries from source to destination
// on the travel date, best-first by elapsed time.
//
// k of zero or less selects DefaultK; values above MaxK are clamped.
// Unknown airports and unreachable destinations yield an empty slice,
// never an error.
func (s *Service) SearchRoutes(ctx context.Context, source, destination, date string, k int) []search.Itinerary {
	if k <= 0 {
		k = s.cfg.DefaultK
	}
	if k > s.cfg.MaxK {
		k = s.cfg.MaxK
	}

	_, span := tracer.Start(ctx, "flights.SearchRoutes")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.source", source),
		attribute.String("search.destination", destination),
		attribute.String("search.date", date),
		attribute.Int("search.k", k),
	)

	start := time.Now()
	idx := s.currentIndex()
	routes := s.engine.TopK(idx, source, destination, date, k)

	searchSeconds.Observe(time.Since(start).Seconds())
	routesReturned.Observe(float64(len(routes)))
	span.SetAttributes(attribute.Int("search.results", len(routes)))

	s.logger.Debug("route search completed",
		"source", source,
		"destination", destination,
		"date", date,
		"k", k,
		"results", len(routes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return routes
}

// currentIndex returns the cached graph index, rebuilding it when the
// store has moved past the generation the cache was built from.
//
// The rebuild reads an atomic snapshot, so the returned index is
// always consistent with one point-in-time store state.
func (s *Service) currentIndex() *graph.Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.store.Generation()
	if s.index != nil && s.index.Generation() == gen {
		return s.index
	}

	flights, viewGen := s.store.FlightsView()
	s.index = graph.Build(flights, viewGen)
	indexRebuilds.Inc()
	s.logger.Debug("graph index rebuilt",
		"generation", viewGen,
		"airports", s.index.AirportCount(),
		"edges", s.index.EdgeCount(),
	)
	return s.index
}

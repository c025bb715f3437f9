// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store holds the authoritative airport and flight catalog.
//
// The store keeps both collections in memory, guarded by a single
// mutex, and writes the whole catalog through to a durable Persister
// after every successful mutation. Readers receive deep-copied
// snapshots; internal slices are never exposed.
//
// # Concurrency
//
// All reads and writes on one Store are mutually exclusive. Taking a
// snapshot happens under the same lock as writes, so a snapshot can
// never observe a half-applied mutation. Once returned, a snapshot is
// caller-owned and requires no further synchronization.
//
// # Durability
//
// A mutation that returns nil has been synced to the Persister. A
// mutation that returns an error has changed nothing: the new state
// is persisted first and only then installed in memory.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultListLimit is the number of flights returned when a caller
// does not supply a limit.
const DefaultListLimit = 10

// mutationsTotal counts store mutations by record kind, operation and result.
var mutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "skyroutes_store_mutations_total",
		Help: "Total number of catalog mutations by kind, operation and result.",
	},
	[]string{"kind", "op", "result"},
)

// Store is the mutable catalog of airports and flights.
//
// Create one with Open; the zero value is not usable.
type Store struct {
	mu        sync.Mutex
	airports  []Airport
	flights   []Flight
	persister Persister
	logger    *slog.Logger

	// gen increments on every successful mutation. The service layer
	// uses it to invalidate cached graph indexes.
	gen uint64
}

// Open loads the catalog from the persister, seeding it first when
// the backing store is empty or malformed.
//
// Description:
//
//	Reads the persisted catalog document. A missing document or one
//	that fails to decode is replaced by the deterministic seed set
//	and persisted immediately; corrupt state is never fatal.
//
// Inputs:
//
//	persister - Durable backing. Must not be nil.
//	logger - Logger for load/seed events. Must not be nil.
//
// Outputs:
//
//	*Store - Ready-to-use store.
//	error - Non-nil only when the persister itself fails.
func Open(persister Persister, logger *slog.Logger) (*Store, error) {
	s := &Store{persister: persister, logger: logger}

	data, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if data != nil {
		doc, err := decodeCatalog(data)
		if err == nil {
			s.airports = doc.Airports
			s.flights = doc.Flights
			logger.Info("catalog loaded",
				"airports", len(s.airports),
				"flights", len(s.flights),
			)
			return s, nil
		}
		logger.Warn("persisted catalog is malformed, reseeding", "error", err)
	}

	seed := seedCatalog()
	s.airports = seed.Airports
	s.flights = seed.Flights
	if err := s.persistLocked(); err != nil {
		return nil, fmt.Errorf("persist seed catalog: %w", err)
	}
	logger.Info("catalog seeded",
		"airports", len(s.airports),
		"flights", len(s.flights),
	)
	return s, nil
}

// Seed overwrites the persisted catalog with the deterministic seed
// set, discarding whatever was stored before. Used by the seed CLI
// command to reset a data directory.
//
// Outputs:
//
//	int - Seeded airport count.
//	int - Seeded flight count.
//	error - Non-nil when encoding or persisting fails.
func Seed(persister Persister, logger *slog.Logger) (int, int, error) {
	seed := seedCatalog()
	data, err := encodeCatalog(seed.Airports, seed.Flights)
	if err != nil {
		return 0, 0, fmt.Errorf("encode seed catalog: %w", err)
	}
	if err := persister.Save(data); err != nil {
		return 0, 0, fmt.Errorf("persist seed catalog: %w", err)
	}
	logger.Info("catalog reset to seed data",
		"airports", len(seed.Airports),
		"flights", len(seed.Flights),
	)
	return len(seed.Airports), len(seed.Flights), nil
}

// Snapshot returns deep copies of both collections taken atomically.
func (s *Store) Snapshot() ([]Airport, []Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyAirports(s.airports), copyFlights(s.flights)
}

// Airports returns a copy of all airports in insertion order.
func (s *Store) Airports() []Airport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyAirports(s.airports)
}

// Flights returns up to limit flights in insertion order. A limit of
// zero or less selects DefaultListLimit.
func (s *Store) Flights(limit int) []Flight {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.flights) {
		limit = len(s.flights)
	}
	return copyFlights(s.flights[:limit])
}

// FlightsView returns a full flight snapshot together with the
// generation it belongs to, taken atomically. Graph builds use this
// so a cached index is tagged with exactly the state it was built
// from.
func (s *Store) FlightsView() ([]Flight, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyFlights(s.flights), s.gen
}

// Generation returns the mutation counter. It increases by one on
// every successful mutation and never decreases.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// AddAirport inserts a new airport and persists the catalog.
//
// Returns ErrDuplicateAirport when the code is already present.
func (s *Store) AddAirport(a Airport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findAirport(a.Code) >= 0 {
		mutationsTotal.WithLabelValues("airport", "add", "duplicate").Inc()
		return fmt.Errorf("add airport %q: %w", a.Code, ErrDuplicateAirport)
	}

	next := append(copyAirports(s.airports), a)
	if err := s.persistWith(next, s.flights); err != nil {
		mutationsTotal.WithLabelValues("airport", "add", "error").Inc()
		return err
	}
	s.airports = next
	s.gen++
	mutationsTotal.WithLabelValues("airport", "add", "ok").Inc()
	return nil
}

// UpdateAirport merges the provided fields into the airport with the
// given code and persists the catalog.
//
// Returns ErrAirportNotFound when the code is absent.
func (s *Store) UpdateAirport(code string, upd AirportUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAirport(code)
	if i < 0 {
		mutationsTotal.WithLabelValues("airport", "update", "not_found").Inc()
		return fmt.Errorf("update airport %q: %w", code, ErrAirportNotFound)
	}

	next := copyAirports(s.airports)
	a := &next[i]
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.City != nil {
		a.City = *upd.City
	}
	if upd.Latitude != nil {
		a.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		a.Longitude = *upd.Longitude
	}

	if err := s.persistWith(next, s.flights); err != nil {
		mutationsTotal.WithLabelValues("airport", "update", "error").Inc()
		return err
	}
	s.airports = next
	s.gen++
	mutationsTotal.WithLabelValues("airport", "update", "ok").Inc()
	return nil
}

// DeleteAirport removes the airport with the given code and persists
// the catalog.
//
// Returns ErrAirportNotFound when the code is absent. Flights
// referencing the code are left in place; orphan references are
// allowed by design.
func (s *Store) DeleteAirport(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAirport(code)
	if i < 0 {
		mutationsTotal.WithLabelValues("airport", "delete", "not_found").Inc()
		return fmt.Errorf("delete airport %q: %w", code, ErrAirportNotFound)
	}

	next := copyAirports(s.airports)
	next = append(next[:i], next[i+1:]...)
	if err := s.persistWith(next, s.flights); err != nil {
		mutationsTotal.WithLabelValues("airport", "delete", "error").Inc()
		return err
	}
	s.airports = next
	s.gen++
	mutationsTotal.WithLabelValues("airport", "delete", "ok").Inc()
	return nil
}

// AddFlight inserts a new flight and persists the catalog.
//
// Returns ErrDuplicateFlight when the ID is already present. The
// endpoints are not validated against the airport collection.
func (s *Store) AddFlight(f Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findFlight(f.ID) >= 0 {
		mutationsTotal.WithLabelValues("flight", "add", "duplicate").Inc()
		return fmt.Errorf("add flight %q: %w", f.ID, ErrDuplicateFlight)
	}

	next := append(copyFlights(s.flights), f)
	if err := s.persistWith(s.airports, next); err != nil {
		mutationsTotal.WithLabelValues("flight", "add", "error").Inc()
		return err
	}
	s.flights = next
	s.gen++
	mutationsTotal.WithLabelValues("flight", "add", "ok").Inc()
	return nil
}

// UpdateFlight merges the provided fields into the flight with the
// given ID and persists the catalog.
//
// Returns ErrFlightNotFound when the ID is absent.
func (s *Store) UpdateFlight(id string, upd FlightUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findFlight(id)
	if i < 0 {
		mutationsTotal.WithLabelValues("flight", "update", "not_found").Inc()
		return fmt.Errorf("update flight %q: %w", id, ErrFlightNotFound)
	}

	next := copyFlights(s.flights)
	f := &next[i]
	if upd.From != nil {
		f.From = *upd.From
	}
	if upd.To != nil {
		f.To = *upd.To
	}
	if upd.Airline != nil {
		f.Airline = *upd.Airline
	}
	if upd.Date != nil {
		f.Date = *upd.Date
	}
	if upd.Departure != nil {
		f.Departure = *upd.Departure
	}
	if upd.Arrival != nil {
		f.Arrival = *upd.Arrival
	}
	if upd.Duration != nil {
		f.Duration = *upd.Duration
	}
	if upd.Price != nil {
		f.Price = *upd.Price
	}

	if err := s.persistWith(s.airports, next); err != nil {
		mutationsTotal.WithLabelValues("flight", "update", "error").Inc()
		return err
	}
	s.flights = next
	s.gen++
	mutationsTotal.WithLabelValues("flight", "update", "ok").Inc()
	return nil
}

// DeleteFlight removes the flight with the given ID and persists the
// catalog.
//
// Returns ErrFlightNotFound when the ID is absent.
func (s *Store) DeleteFlight(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findFlight(id)
	if i < 0 {
		mutationsTotal.WithLabelValues("flight", "delete", "not_found").Inc()
		return fmt.Errorf("delete flight %q: %w", id, ErrFlightNotFound)
	}

	next := copyFlights(s.flights)
	next = append(next[:i], next[i+1:]...)
	if err := s.persistWith(s.airports, next); err != nil {
		mutationsTotal.WithLabelValues("flight", "delete", "error").Inc()
		return err
	}
	s.flights = next
	s.gen++
	mutationsTotal.WithLabelValues("flight", "delete", "ok").Inc()
	return nil
}

// findAirport returns the index of the airport with the given code,
// or -1. Callers must hold s.mu.
func (s *Store) findAirport(code string) int {
	for i := range s.airports {
		if s.airports[i].Code == code {
			return i
		}
	}
	return -1
}

// findFlight returns the index of the flight with the given ID, or
// -1. Callers must hold s.mu.
func (s *Store) findFlight(id string) int {
	for i := range s.flights {
		if s.flights[i].ID == id {
			return i
		}
	}
	return -1
}

// persistWith writes the candidate state through to the persister.
// In-memory state is untouched; the caller installs the candidate
// slices only after this returns nil. Callers must hold s.mu.
func (s *Store) persistWith(airports []Airport, flights []Flight) error {
	data, err := encodeCatalog(airports, flights)
	if err != nil {
		return err
	}
	if err := s.persister.Save(data); err != nil {
		s.logger.Error("catalog persist failed", "error", err)
		return err
	}
	return nil
}

// persistLocked writes the current state through to the persister.
func (s *Store) persistLocked() error {
	return s.persistWith(s.airports, s.flights)
}

func copyAirports(in []Airport) []Airport {
	out := make([]Airport, len(in))
	copy(out, in)
	return out
}

func copyFlights(in []Flight) []Flight {
	out := make([]Flight, len(in))
	copy(out, in)
	return out
}

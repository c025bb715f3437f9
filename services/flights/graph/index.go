// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph derives a time-aware flight adjacency from a catalog
// snapshot.
//
// An Index is a read-only value: it is built once from a snapshot and
// never mutated in place. Whenever the underlying flight set changes,
// callers build a fresh Index rather than patching an existing one.
// This rules out a search ever observing a half-updated graph.
//
// The build performs no validation of endpoint existence. Edges to
// airports absent from the airport collection are simply unreachable
// as final hops, and edges out of non-existent origins are never
// expanded because frontier expansion only starts from the requested
// source.
package graph

import "github.com/meridianaero/skyroutes/services/flights/store"

// Edge is one flight leaving an origin airport. Derived from a Flight
// record at build time; never persisted.
type Edge struct {
	FlightID  string
	From      string
	To        string
	Airline   string
	Date      string
	Departure string
	Arrival   string
	Price     int

	// DurationMinutes is the flight time, resolved at build time from
	// the record's duration text, or from the departure/arrival pair,
	// or the lenient default.
	DurationMinutes int
}

// Index is an immutable adjacency from origin airport code to the
// flights leaving it.
type Index struct {
	edges      map[string][]Edge
	edgeCount  int
	generation uint64
}

// Build constructs an Index from a flight snapshot.
//
// The generation tags which store state the index was derived from;
// the service layer uses it to decide when a cached index is stale.
func Build(flights []store.Flight, generation uint64) *Index {
	idx := &Index{
		edges:      make(map[string][]Edge, len(flights)),
		generation: generation,
	}
	for i := range flights {
		f := &flights[i]
		idx.edges[f.From] = append(idx.edges[f.From], Edge{
			FlightID:        f.ID,
			From:            f.From,
			To:              f.To,
			Airline:         f.Airline,
			Date:            f.Date,
			Departure:       f.Departure,
			Arrival:         f.Arrival,
			Price:           f.Price,
			DurationMinutes: resolveDuration(f),
		})
		idx.edgeCount++
	}
	return idx
}

// Neighbors returns the edges leaving the given airport code, or an
// empty slice when the code has no outgoing flights. The returned
// slice is shared index state and must not be modified.
func (idx *Index) Neighbors(code string) []Edge {
	return idx.edges[code]
}

// EdgeCount returns the total number of edges in the index.
func (idx *Index) EdgeCount() int {
	return idx.edgeCount
}

// AirportCount returns the number of distinct origin airports.
func (idx *Index) AirportCount() int {
	return len(idx.edges)
}

// Generation returns the store generation the index was built from.
func (idx *Index) Generation() uint64 {
	return idx.generation
}

// resolveDuration resolves a flight's duration in minutes.
//
// Resolution order: explicit duration text, then the span between
// departure and arrival clock times, then the lenient default.
func resolveDuration(f *store.Flight) int {
	if f.Duration != "" {
		return ParseDurationMinutes(f.Duration)
	}
	dep, okDep := ClockMinutes(f.Departure)
	arr, okArr := ClockMinutes(f.Arrival)
	if okDep && okArr && arr > dep {
		return arr - dep
	}
	return DefaultDurationMinutes
}

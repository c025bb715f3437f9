// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search enumerates itineraries over a flight graph.
//
// The engine runs a best-first (uniform-cost) expansion: a min-heap
// frontier of partial paths ordered by accumulated elapsed time. The
// first K states to reach the destination are the results. Three
// filters gate every expansion: the edge must fly on the requested
// date, must not revisit any airport already on the path, and must
// depart no earlier than the previous arrival plus the layover
// buffer.
//
// Termination on cyclic graphs is guaranteed twice over: the
// visited-set makes every candidate a simple path, and a per-airport
// pop bound abandons expansion through airports that have already
// been popped more than K plus a pad times. When that bound trips,
// the result is a bounded approximation of the true top K rather
// than an exact guarantee.
//
// The engine touches no shared mutable state; concurrent calls over
// independent indexes need no synchronization.
package search

import (
	"container/heap"

	"github.com/meridianaero/skyroutes/services/flights/graph"
)

const (
	// DefaultLayoverMinutes is the minimum connection buffer between
	// an arrival and the next departure.
	DefaultLayoverMinutes = 60

	// DefaultPopBoundPad is added to K to form the per-airport pop
	// bound that caps frontier growth on dense or cyclic graphs.
	DefaultPopBoundPad = 5

	// noArrival is the arrival-time sentinel for the origin state:
	// the trip has not started, so the first segment is
	// unconstrained.
	noArrival = -1
)

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	// LayoverMinutes is the minimum required time between a
	// segment's arrival and the next segment's departure.
	LayoverMinutes int

	// PopBoundPad is added to K for the per-airport pop bound.
	PopBoundPad int
}

// Segment is one flight within an itinerary. From is derived from
// path order, not from the edge alone.
type Segment struct {
	FlightID  string `json:"flight_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Airline   string `json:"airline"`
	Date      string `json:"date"`
	Departure string `json:"departure_time"`
	Arrival   string `json:"arrival_time"`
	Price     int    `json:"price"`
}

// Itinerary is an ordered sequence of segments from source to
// destination satisfying all search constraints.
type Itinerary struct {
	Segments     []Segment `json:"segments"`
	TotalMinutes int       `json:"total_minutes"`
	TotalPrice   int       `json:"total_price"`
	Stops        int       `json:"stops"`
	Departure    string    `json:"departure_time"`
	Arrival      string    `json:"arrival_time"`
}

// Engine runs top-K itinerary searches. Safe for concurrent use.
type Engine struct {
	layover int
	popPad  int
}

// New creates an Engine, filling unset options with defaults.
func New(opts Options) *Engine {
	e := &Engine{
		layover: opts.LayoverMinutes,
		popPad:  opts.PopBoundPad,
	}
	if e.layover <= 0 {
		e.layover = DefaultLayoverMinutes
	}
	if e.popPad <= 0 {
		e.popPad = DefaultPopBoundPad
	}
	return e
}

// state is one frontier entry: a partial path and its accumulated
// cost. Each state owns its path and visited set outright, so
// expanding one state never disturbs another.
type state struct {
	cost    int // accumulated minutes: flight time plus layovers
	seq     int // insertion order, breaks cost ties deterministically
	airport string
	arrival int // minutes since midnight at airport, or noArrival
	path    []graph.Edge
	visited map[string]bool
}

// frontier is a min-heap of states ordered by cost, then insertion.
type frontier []*state

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*state)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return s
}

// TopK returns up to k itineraries from source to destination on the
// given travel date, ordered best-first by total elapsed time.
//
// A source or destination absent from the graph is not an error: it
// simply yields no paths, and the result is empty. TopK never
// returns an error.
func (e *Engine) TopK(idx *graph.Index, source, destination, date string, k int) []Itinerary {
	results := []Itinerary{}
	if k <= 0 || idx == nil || source == destination {
		return results
	}

	seq := 0
	fr := &frontier{}
	heap.Init(fr)
	heap.Push(fr, &state{
		cost:    0,
		seq:     seq,
		airport: source,
		arrival: noArrival,
		visited: map[string]bool{source: true},
	})

	popBound := k + e.popPad
	popCounts := make(map[string]int)

	for fr.Len() > 0 {
		cur := heap.Pop(fr).(*state)

		if cur.airport == destination {
			results = append(results, materialize(cur, source))
			if len(results) >= k {
				return results
			}
			continue
		}

		// Abandon airports the frontier keeps coming back to. This
		// caps frontier growth and guarantees termination even when
		// fewer than k destination-reaching paths exist.
		popCounts[cur.airport]++
		if popCounts[cur.airport] > popBound {
			continue
		}

		for _, edge := range idx.Neighbors(cur.airport) {
			if edge.Date != date {
				continue
			}
			// Simple-path rule: never land on any airport already
			// visited on this path.
			if cur.visited[edge.To] {
				continue
			}

			dep, depOK := graph.ClockMinutes(edge.Departure)
			firstLeg := cur.arrival == noArrival
			if !firstLeg {
				// Connection must leave no earlier than arrival plus
				// the layover buffer. An unparseable departure time
				// cannot be verified, so the edge is skipped.
				if !depOK || dep < cur.arrival+e.layover {
					continue
				}
			}

			cost := cur.cost + edge.DurationMinutes
			if !firstLeg {
				cost += e.layover
			}

			seq++
			heap.Push(fr, &state{
				cost:    cost,
				seq:     seq,
				airport: edge.To,
				arrival: nextArrival(edge, dep, depOK),
				path:    appendEdge(cur.path, edge),
				visited: extendVisited(cur.visited, edge.To),
			})
		}
	}

	return results
}

// nextArrival resolves the arrival clock for the new state. Falls
// back to departure plus duration when the arrival time is
// unparseable, and to the sentinel when nothing is usable.
func nextArrival(edge graph.Edge, dep int, depOK bool) int {
	if arr, ok := graph.ClockMinutes(edge.Arrival); ok {
		return arr
	}
	if depOK {
		return dep + edge.DurationMinutes
	}
	return noArrival
}

// materialize converts a destination-reaching state into an
// Itinerary. Each segment's From is computed from path order: the
// previous segment's To, or the source for the first segment.
func materialize(s *state, source string) Itinerary {
	segments := make([]Segment, 0, len(s.path))
	totalPrice := 0
	from := source
	for _, edge := range s.path {
		segments = append(segments, Segment{
			FlightID:  edge.FlightID,
			From:      from,
			To:        edge.To,
			Airline:   edge.Airline,
			Date:      edge.Date,
			Departure: edge.Departure,
			Arrival:   edge.Arrival,
			Price:     edge.Price,
		})
		totalPrice += edge.Price
		from = edge.To
	}

	it := Itinerary{
		Segments:     segments,
		TotalMinutes: s.cost,
		TotalPrice:   totalPrice,
		Stops:        len(segments) - 1,
	}
	if len(segments) > 0 {
		it.Departure = segments[0].Departure
		it.Arrival = segments[len(segments)-1].Arrival
	}
	return it
}

// appendEdge copies the path and appends the edge. Sharing the
// backing array between sibling states would let one expansion
// overwrite another's tail.
func appendEdge(path []graph.Edge, edge graph.Edge) []graph.Edge {
	next := make([]graph.Edge, len(path), len(path)+1)
	copy(next, path)
	return append(next, edge)
}

// extendVisited copies the visited set and adds the airport.
func extendVisited(visited map[string]bool, airport string) map[string]bool {
	next := make(map[string]bool, len(visited)+1)
	for code := range visited {
		next[code] = true
	}
	next[airport] = true
	return next
}

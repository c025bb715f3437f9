// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"encoding/json"
	"fmt"
)

// Airport is a scheduled-service airport record.
//
// Code is the unique key; all other fields are descriptive.
type Airport struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Flight is a single scheduled flight on a calendar date.
//
// ID is the unique key. From and To reference airport codes but the
// store does not enforce referential integrity: a flight may exist
// without its endpoints. Departure and Arrival are same-day local
// clock times in zero-padded "HH:MM" form, so lexicographic order
// equals chronological order. Duration is free text like "2h 15m".
type Flight struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Airline   string `json:"airline"`
	Date      string `json:"date"`
	Departure string `json:"departure_time"`
	Arrival   string `json:"arrival_time"`
	Duration  string `json:"duration"`
	Price     int    `json:"price"`
}

// AirportUpdate carries a partial airport mutation. Nil fields are
// left unchanged; the Code key itself is immutable.
type AirportUpdate struct {
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// FlightUpdate carries a partial flight mutation. Nil fields are
// left unchanged; the ID key itself is immutable.
type FlightUpdate struct {
	From      *string `json:"from"`
	To        *string `json:"to"`
	Airline   *string `json:"airline"`
	Date      *string `json:"date"`
	Departure *string `json:"departure_time"`
	Arrival   *string `json:"arrival_time"`
	Duration  *string `json:"duration"`
	Price     *int    `json:"price"`
}

// catalogDocument is the persisted form of the whole store: one JSON
// document holding both collections in insertion order.
type catalogDocument struct {
	Airports []Airport `json:"airports"`
	Flights  []Flight  `json:"flights"`
}

// encodeCatalog serializes the catalog document for persistence.
func encodeCatalog(airports []Airport, flights []Flight) ([]byte, error) {
	doc := catalogDocument{Airports: airports, Flights: flights}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// decodeCatalog parses a persisted catalog document.
//
// A document missing the airports collection is treated as malformed
// so that a fresh or hand-truncated database falls back to seed data.
func decodeCatalog(data []byte) (catalogDocument, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return catalogDocument{}, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Airports == nil {
		return catalogDocument{}, fmt.Errorf("decode catalog: missing airports collection")
	}
	return doc, nil
}

// seedCatalog returns the deterministic starter dataset used when the
// backing store is empty or malformed.
//
// The dataset is small but complete enough to exercise every read
// path out of the box: multi-leg connections on the same date for
// route search, and a block of same-route flights for limit testing.
func seedCatalog() catalogDocument {
	airports := []Airport{
		{Code: "JFK", Name: "John F. Kennedy", City: "New York", Latitude: 40.6413, Longitude: -73.7781},
		{Code: "LHR", Name: "Heathrow", City: "London", Latitude: 51.4700, Longitude: -0.4543},
		{Code: "DXB", Name: "Dubai Intl", City: "Dubai", Latitude: 25.2532, Longitude: 55.3657},
		{Code: "DEL", Name: "Indira Gandhi Intl", City: "New Delhi", Latitude: 28.5562, Longitude: 77.1000},
		{Code: "HND", Name: "Haneda", City: "Tokyo", Latitude: 35.5494, Longitude: 139.7798},
	}

	flights := []Flight{
		{ID: "FL101", From: "JFK", To: "LHR", Airline: "Atlantic Air", Date: "2026-12-01", Departure: "08:00", Arrival: "15:00", Duration: "7h 0m", Price: 500},
		{ID: "FL102", From: "LHR", To: "DXB", Airline: "Gulf Connect", Date: "2026-12-01", Departure: "17:00", Arrival: "23:00", Duration: "6h 0m", Price: 450},
		{ID: "FL103", From: "DEL", To: "DXB", Airline: "Gulf Connect", Date: "2026-12-02", Departure: "09:30", Arrival: "12:30", Duration: "3h 0m", Price: 200},
		{ID: "FL104", From: "HND", To: "JFK", Airline: "Pacific Wings", Date: "2026-12-05", Departure: "11:00", Arrival: "23:45", Duration: "12h 45m", Price: 800},
		{ID: "FL105", From: "JFK", To: "LHR", Airline: "Atlantic Air", Date: "2026-12-05", Departure: "09:15", Arrival: "16:15", Duration: "7h 0m", Price: 550},
	}

	// Extra same-route flights so limit handling has something to paginate.
	for i := 6; i <= 20; i++ {
		flights = append(flights, Flight{
			ID:        fmt.Sprintf("FL1%02d", i),
			From:      "JFK",
			To:        "DXB",
			Airline:   "Gulf Connect",
			Date:      "2026-12-10",
			Departure: "10:00",
			Arrival:   "22:30",
			Duration:  "12h 30m",
			Price:     400 + i,
		})
	}

	return catalogDocument{Airports: airports, Flights: flights}
}

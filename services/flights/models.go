// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flights

import (
	"github.com/meridianaero/skyroutes/services/flights/search"
	"github.com/meridianaero/skyroutes/services/flights/store"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports service liveness and catalog size.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Airports int    `json:"airports"`
	Flights  int    `json:"flights"`
}

// AirportsResponse wraps an airport listing.
type AirportsResponse struct {
	Airports []store.Airport `json:"airports"`
	Count    int             `json:"count"`
}

// FlightsResponse wraps a flight listing.
type FlightsResponse struct {
	Flights []store.Flight `json:"flights"`
	Count   int            `json:"count"`
}

// RoutesResponse wraps a route search result.
type RoutesResponse struct {
	Source      string             `json:"source"`
	Destination string             `json:"destination"`
	Date        string             `json:"date"`
	Count       int                `json:"count"`
	Routes      []search.Itinerary `json:"routes"`
}

// CreateAirportRequest is the body for POST /admin/airports.
type CreateAirportRequest struct {
	Code      string  `json:"code" binding:"required,iata"`
	Name      string  `json:"name" binding:"required"`
	City      string  `json:"city" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateAirportRequest is the body for PUT /admin/airports/:code.
// Absent fields are left unchanged.
type UpdateAirportRequest struct {
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateFlightRequest is the body for POST /admin/flights.
type CreateFlightRequest struct {
	ID        string `json:"id" binding:"required"`
	From      string `json:"from" binding:"required,iata"`
	To        string `json:"to" binding:"required,iata"`
	Airline   string `json:"airline"`
	Date      string `json:"date" binding:"required"`
	Departure string `json:"departure_time" binding:"required,clock"`
	Arrival   string `json:"arrival_time" binding:"required,clock"`
	Duration  string `json:"duration"`
	Price     int    `json:"price" binding:"min=0"`
}

// UpdateFlightRequest is the body for PUT /admin/flights/:id.
// Absent fields are left unchanged.
type UpdateFlightRequest struct {
	From      *string `json:"from" binding:"omitempty,iata"`
	To        *string `json:"to" binding:"omitempty,iata"`
	Airline   *string `json:"airline"`
	Date      *string `json:"date"`
	Departure *string `json:"departure_time" binding:"omitempty,clock"`
	Arrival   *string `json:"arrival_time" binding:"omitempty,clock"`
	Duration  *string `json:"duration"`
	Price     *int    `json:"price" binding:"omitempty,min=0"`
}

// airportUpdate converts the request into a store-level partial update.
func (r *UpdateAirportRequest) airportUpdate() store.AirportUpdate {
	return store.AirportUpdate{
		Name:      r.Name,
		City:      r.City,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// flightUpdate converts the request into a store-level partial update.
func (r *UpdateFlightRequest) flightUpdate() store.FlightUpdate {
	return store.FlightUpdate{
		From:      r.From,
		To:        r.To,
		Airline:   r.Airline,
		Date:      r.Date,
		Departure: r.Departure,
		Arrival:   r.Arrival,
		Duration:  r.Duration,
		Price:     r.Price,
	}
}

// airport converts the request into a store record.
func (r *CreateAirportRequest) airport() store.Airport {
	return store.Airport{
		Code:      r.Code,
		Name:      r.Name,
		City:      r.City,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// flight converts the request into a store record.
func (r *CreateFlightRequest) flight() store.Flight {
	return store.Flight{
		ID:        r.ID,
		From:      r.From,
		To:        r.To,
		Airline:   r.Airline,
		Date:      r.Date,
		Departure: r.Departure,
		Arrival:   r.Arrival,
		Duration:  r.Duration,
		Price:     r.Price,
	}
}

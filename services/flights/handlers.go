// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flights

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianaero/skyroutes/services/flights/store"
)

// Handlers contains the HTTP handlers for the flights service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleHealth handles GET /v1/flights/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	airports, flights := h.svc.Store().Snapshot()
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  ServiceVersion,
		Airports: len(airports),
		Flights:  len(flights),
	})
}

// HandleListAirports handles GET /v1/flights/airports.
//
// Response:
//
//	200 OK: AirportsResponse
func (h *Handlers) HandleListAirports(c *gin.Context) {
	airports := h.svc.ListAirports()
	c.JSON(http.StatusOK, AirportsResponse{Airports: airports, Count: len(airports)})
}

// HandleListFlights handles GET /v1/flights/flights.
//
// Query Parameters:
//
//	limit - Optional maximum number of flights (default 10)
//
// Response:
//
//	200 OK: FlightsResponse
//	400 Bad Request: Malformed limit
func (h *Handlers) HandleListFlights(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_LIMIT",
			})
			return
		}
		limit = parsed
	}

	flights := h.svc.ListFlights(limit)
	c.JSON(http.StatusOK, FlightsResponse{Flights: flights, Count: len(flights)})
}

// HandleSearchFlights handles GET /v1/flights/search.
//
// Query Parameters:
//
//	from - Origin airport code (required)
//	to - Destination airport code (required)
//
// Response:
//
//	200 OK: FlightsResponse with direct flights only
//	400 Bad Request: Missing parameter
func (h *Handlers) HandleSearchFlights(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "both 'from' and 'to' are required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	flights := h.svc.FindFlights(from, to)
	c.JSON(http.StatusOK, FlightsResponse{Flights: flights, Count: len(flights)})
}

// HandleSearchByDate handles GET /v1/flights/search_date.
//
// Query Parameters:
//
//	date - Calendar date string (required)
//
// Response:
//
//	200 OK: FlightsResponse
//	400 Bad Request: Missing parameter
func (h *Handlers) HandleSearchByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "'date' is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	flights := h.svc.FlightsByDate(date)
	c.JSON(http.StatusOK, FlightsResponse{Flights: flights, Count: len(flights)})
}

// HandleSearchRoutes handles GET /v1/flights/routes.
//
// Description:
//
//	Runs the top-K route search over the current catalog. An empty
//	result is a normal outcome, not an error: unknown airports or an
//	unreachable destination return an empty routes array.
//
// Query Parameters:
//
//	from - Origin airport code (required)
//	to - Destination airport code (required)
//	date - Travel date (required)
//	k - Optional maximum number of itineraries (default 5)
//
// Response:
//
//	200 OK: RoutesResponse
//	400 Bad Request: Missing or malformed parameter
func (h *Handlers) HandleSearchRoutes(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSearchRoutes")

	from := c.Query("from")
	to := c.Query("to")
	date := c.Query("date")
	if from == "" || to == "" || date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "'from', 'to' and 'date' are required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	k := 0
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "k must be a positive integer",
				Code:  "INVALID_K",
			})
			return
		}
		k = parsed
	}

	logger.Info("route search", "from", from, "to", to, "date", date, "k", k)

	routes := h.svc.SearchRoutes(c.Request.Context(), from, to, date, k)
	c.JSON(http.StatusOK, RoutesResponse{
		Source:      from,
		Destination: to,
		Date:        date,
		Count:       len(routes),
		Routes:      routes,
	})
}

// HandleCreateAirport handles POST /v1/flights/admin/airports.
//
// Response:
//
//	201 Created
//	400 Bad Request: Validation error
//	409 Conflict: Duplicate airport code
func (h *Handlers) HandleCreateAirport(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateAirport")

	var req CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.svc.Store().AddAirport(req.airport()); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("airport created", "code", req.Code)
	c.JSON(http.StatusCreated, gin.H{"status": "created", "code": req.Code})
}

// HandleUpdateAirport handles PUT /v1/flights/admin/airports/:code.
//
// Response:
//
//	200 OK
//	400 Bad Request: Validation error
//	404 Not Found: Unknown airport code
func (h *Handlers) HandleUpdateAirport(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleUpdateAirport")

	code := c.Param("code")
	var req UpdateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.svc.Store().UpdateAirport(code, req.airportUpdate()); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("airport updated", "code", code)
	c.JSON(http.StatusOK, gin.H{"status": "updated", "code": code})
}

// HandleDeleteAirport handles DELETE /v1/flights/admin/airports/:code.
//
// Response:
//
//	200 OK
//	404 Not Found: Unknown airport code
func (h *Handlers) HandleDeleteAirport(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteAirport")

	code := c.Param("code")
	if err := h.svc.Store().DeleteAirport(code); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("airport deleted", "code", code)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "code": code})
}

// HandleCreateFlight handles POST /v1/flights/admin/flights.
//
// Response:
//
//	201 Created
//	400 Bad Request: Validation error
//	409 Conflict: Duplicate flight ID
func (h *Handlers) HandleCreateFlight(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateFlight")

	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.svc.Store().AddFlight(req.flight()); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("flight created", "id", req.ID)
	c.JSON(http.StatusCreated, gin.H{"status": "created", "id": req.ID})
}

// HandleUpdateFlight handles PUT /v1/flights/admin/flights/:id.
//
// Response:
//
//	200 OK
//	400 Bad Request: Validation error
//	404 Not Found: Unknown flight ID
func (h *Handlers) HandleUpdateFlight(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleUpdateFlight")

	id := c.Param("id")
	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.svc.Store().UpdateFlight(id, req.flightUpdate()); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("flight updated", "id", id)
	c.JSON(http.StatusOK, gin.H{"status": "updated", "id": id})
}

// HandleDeleteFlight handles DELETE /v1/flights/admin/flights/:id.
//
// Response:
//
//	200 OK
//	404 Not Found: Unknown flight ID
func (h *Handlers) HandleDeleteFlight(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteFlight")

	id := c.Param("id")
	if err := h.svc.Store().DeleteFlight(id); err != nil {
		h.writeStoreError(c, logger, err)
		return
	}

	logger.Info("flight deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// writeStoreError maps store sentinel errors onto HTTP status codes.
func (h *Handlers) writeStoreError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateAirport):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE_AIRPORT"})
	case errors.Is(err, store.ErrDuplicateFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE_FLIGHT"})
	case errors.Is(err, store.ErrAirportNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "AIRPORT_NOT_FOUND"})
	case errors.Is(err, store.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "FLIGHT_NOT_FOUND"})
	default:
		logger.Error("store mutation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "STORE_ERROR"})
	}
}

// getOrCreateRequestID returns the X-Request-ID header, generating a
// fresh ID when the caller did not send one, and echoes it back.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

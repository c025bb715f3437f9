// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flights

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupTestRouter builds a gin router over a fresh in-memory service.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t)
	router := gin.New()
	RegisterRoutes(router.Group("/v1"), NewHandlers(svc))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/flights/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	decodeBody(t, w, &resp)
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
	if resp.Airports != 5 || resp.Flights != 20 {
		t.Errorf("counts = %d/%d, want 5/20", resp.Airports, resp.Flights)
	}
}

func TestHandleListAirports(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/flights/airports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp AirportsResponse
	decodeBody(t, w, &resp)
	if resp.Count != 5 || len(resp.Airports) != 5 {
		t.Errorf("got %d airports, want 5", resp.Count)
	}
}

func TestHandleListFlights(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{"default limit", "/v1/flights/flights", http.StatusOK, 10},
		{"explicit limit", "/v1/flights/flights?limit=3", http.StatusOK, 3},
		{"limit above catalog", "/v1/flights/flights?limit=100", http.StatusOK, 20},
		{"malformed limit", "/v1/flights/flights?limit=ten", http.StatusBadRequest, 0},
		{"negative limit", "/v1/flights/flights?limit=-1", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp FlightsResponse
			decodeBody(t, w, &resp)
			if resp.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", resp.Count, tt.wantCount)
			}
		})
	}
}

func TestHandleSearchFlights(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/flights/search?from=JFK&to=LHR", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp FlightsResponse
	decodeBody(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}

	// Unknown pair is an empty result, not an error.
	w = doRequest(t, router, http.MethodGet, "/v1/flights/search?from=JFK&to=XXX", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	decodeBody(t, w, &resp)
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}

	w = doRequest(t, router, http.MethodGet, "/v1/flights/search?from=JFK", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var errResp ErrorResponse
	decodeBody(t, w, &errResp)
	if errResp.Code != "MISSING_PARAMETER" {
		t.Errorf("code = %q, want MISSING_PARAMETER", errResp.Code)
	}
}

func TestHandleSearchByDate(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/flights/search_date?date=2026-12-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp FlightsResponse
	decodeBody(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}

	w = doRequest(t, router, http.MethodGet, "/v1/flights/search_date", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearchRoutes(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet,
		"/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp RoutesResponse
	decodeBody(t, w, &resp)
	if resp.Source != "JFK" || resp.Destination != "DXB" || resp.Date != "2026-12-01" {
		t.Errorf("echoed query = %s->%s on %s", resp.Source, resp.Destination, resp.Date)
	}
	if resp.Count != 1 || len(resp.Routes) != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	route := resp.Routes[0]
	if route.Stops != 1 || route.TotalPrice != 950 {
		t.Errorf("route stops=%d price=%d, want 1/950", route.Stops, route.TotalPrice)
	}
	if route.Segments[0].FlightID != "FL101" || route.Segments[1].FlightID != "FL102" {
		t.Errorf("segments = %s,%s, want FL101,FL102",
			route.Segments[0].FlightID, route.Segments[1].FlightID)
	}
}

func TestHandleSearchRoutes_ParameterErrors(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"missing from", "/v1/flights/routes?to=DXB&date=2026-12-01", "MISSING_PARAMETER"},
		{"missing date", "/v1/flights/routes?from=JFK&to=DXB", "MISSING_PARAMETER"},
		{"malformed k", "/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01&k=zero", "INVALID_K"},
		{"zero k", "/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01&k=0", "INVALID_K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp ErrorResponse
			decodeBody(t, w, &resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleSearchRoutes_UnknownAirportsReturnEmpty(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet,
		"/v1/flights/routes?from=ZZZ&to=DXB&date=2026-12-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp RoutesResponse
	decodeBody(t, w, &resp)
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestHandleCreateAirport(t *testing.T) {
	router := setupTestRouter(t)

	body := CreateAirportRequest{
		Code: "SIN", Name: "Changi", City: "Singapore",
		Latitude: 1.3644, Longitude: 103.9915,
	}
	w := doRequest(t, router, http.MethodPost, "/v1/flights/admin/airports", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	// Same code again conflicts.
	w = doRequest(t, router, http.MethodPost, "/v1/flights/admin/airports", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "DUPLICATE_AIRPORT" {
		t.Errorf("code = %q, want DUPLICATE_AIRPORT", resp.Code)
	}
}

func TestHandleCreateAirport_RejectsBadCode(t *testing.T) {
	router := setupTestRouter(t)

	body := CreateAirportRequest{Code: "sin", Name: "Changi", City: "Singapore"}
	w := doRequest(t, router, http.MethodPost, "/v1/flights/admin/airports", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", resp.Code)
	}
}

func TestHandleUpdateAirport(t *testing.T) {
	router := setupTestRouter(t)

	name := "John F. Kennedy Intl"
	w := doRequest(t, router, http.MethodPut, "/v1/flights/admin/airports/JFK",
		UpdateAirportRequest{Name: &name})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPut, "/v1/flights/admin/airports/ZZZ",
		UpdateAirportRequest{Name: &name})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown airport status = %d, want 404", w.Code)
	}
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "AIRPORT_NOT_FOUND" {
		t.Errorf("code = %q, want AIRPORT_NOT_FOUND", resp.Code)
	}
}

func TestHandleDeleteAirport(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodDelete, "/v1/flights/admin/airports/HND", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doRequest(t, router, http.MethodDelete, "/v1/flights/admin/airports/HND", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestHandleCreateFlight(t *testing.T) {
	router := setupTestRouter(t)

	body := CreateFlightRequest{
		ID: "SQ21", From: "JFK", To: "LHR", Airline: "Singapore Airlines",
		Date: "2026-12-03", Departure: "09:30", Arrival: "21:30",
		Duration: "12h 0m", Price: 1200,
	}
	w := doRequest(t, router, http.MethodPost, "/v1/flights/admin/flights", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPost, "/v1/flights/admin/flights", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "DUPLICATE_FLIGHT" {
		t.Errorf("code = %q, want DUPLICATE_FLIGHT", resp.Code)
	}
}

func TestHandleCreateFlight_RejectsBadClock(t *testing.T) {
	router := setupTestRouter(t)

	body := CreateFlightRequest{
		ID: "SQ22", From: "JFK", To: "LHR", Airline: "Singapore Airlines",
		Date: "2026-12-03", Departure: "9:30", Arrival: "21:30", Price: 1200,
	}
	w := doRequest(t, router, http.MethodPost, "/v1/flights/admin/flights", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleUpdateFlight(t *testing.T) {
	router := setupTestRouter(t)

	price := 625
	w := doRequest(t, router, http.MethodPut, "/v1/flights/admin/flights/FL101",
		UpdateFlightRequest{Price: &price})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPut, "/v1/flights/admin/flights/FL999",
		UpdateFlightRequest{Price: &price})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown flight status = %d, want 404", w.Code)
	}
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "FLIGHT_NOT_FOUND" {
		t.Errorf("code = %q, want FLIGHT_NOT_FOUND", resp.Code)
	}
}

func TestHandleDeleteFlight(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodDelete, "/v1/flights/admin/flights/FL104", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doRequest(t, router, http.MethodDelete, "/v1/flights/admin/flights/FL104", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01", nil)
	req.Header.Set("X-Request-ID", "test-request-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "test-request-42" {
		t.Errorf("X-Request-ID = %q, want test-request-42", got)
	}

	// A missing inbound ID still yields a generated one.
	w2 := doRequest(t, router, http.MethodGet,
		"/v1/flights/routes?from=JFK&to=DXB&date=2026-12-01", nil)
	if w2.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}
}
// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flights

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	iataPattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// RegisterValidations installs the custom binding validators used by
// the request models: `iata` for 3-letter airport codes and `clock`
// for zero-padded HH:MM times.
//
// Called once from RegisterRoutes; calling it again is harmless.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("iata", func(fl validator.FieldLevel) bool {
		return iataPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
}

// RegisterRoutes registers all flights routes with the router.
//
// Description:
//
//	Registers all /v1/flights/* endpoints with the given Gin router
//	group. The router group should already have any required
//	middleware applied.
//
// Public Endpoints:
//
//	GET /v1/flights/airports - List all airports
//	GET /v1/flights/flights - List flights (optional ?limit=)
//	GET /v1/flights/search - Direct flights (?from=&to=)
//	GET /v1/flights/search_date - Flights on a date (?date=)
//	GET /v1/flights/routes - Top-K route search (?from=&to=&date=&k=)
//	GET /v1/flights/health - Health check
//
// Admin Endpoints:
//
//	POST   /v1/flights/admin/airports - Create an airport
//	PUT    /v1/flights/admin/airports/:code - Update an airport
//	DELETE /v1/flights/admin/airports/:code - Delete an airport
//	POST   /v1/flights/admin/flights - Create a flight
//	PUT    /v1/flights/admin/flights/:id - Update a flight
//	DELETE /v1/flights/admin/flights/:id - Delete a flight
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	RegisterValidations()

	fl := rg.Group("/flights")
	{
		fl.GET("/health", handlers.HandleHealth)
		fl.GET("/airports", handlers.HandleListAirports)
		fl.GET("/flights", handlers.HandleListFlights)
		fl.GET("/search", handlers.HandleSearchFlights)
		fl.GET("/search_date", handlers.HandleSearchByDate)
		fl.GET("/routes", handlers.HandleSearchRoutes)

		admin := fl.Group("/admin")
		{
			admin.POST("/airports", handlers.HandleCreateAirport)
			admin.PUT("/airports/:code", handlers.HandleUpdateAirport)
			admin.DELETE("/airports/:code", handlers.HandleDeleteAirport)

			admin.POST("/flights", handlers.HandleCreateFlight)
			admin.PUT("/flights/:id", handlers.HandleUpdateFlight)
			admin.DELETE("/flights/:id", handlers.HandleDeleteFlight)
		}
	}
}

// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "errors"

// Sentinel errors for store mutations.
//
// Mutations never leave the store partially updated: a rejected
// mutation returns one of these and leaves prior state intact.
var (
	// ErrDuplicateAirport indicates an add with an airport code already present.
	ErrDuplicateAirport = errors.New("airport code already exists")

	// ErrAirportNotFound indicates an update or delete of a missing airport code.
	ErrAirportNotFound = errors.New("airport not found")

	// ErrDuplicateFlight indicates an add with a flight ID already present.
	ErrDuplicateFlight = errors.New("flight id already exists")

	// ErrFlightNotFound indicates an update or delete of a missing flight ID.
	ErrFlightNotFound = errors.New("flight not found")
)

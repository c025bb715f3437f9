// Copyright (C) 2026 Meridian Aero Systems (oss@meridianaero.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDurationMinutes is the fallback when a flight's duration
// cannot be determined from its record. Lenient by policy: malformed
// input degrades to a default, it never fails a build.
const DefaultDurationMinutes = 60

// durationPattern matches textual durations like "2h 15m", "45m" or "3h".
var durationPattern = regexp.MustCompile(`^\s*(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?\s*$`)

// ParseDurationMinutes parses a textual duration like "2h 15m" into
// minutes. Malformed or empty input yields DefaultDurationMinutes.
func ParseDurationMinutes(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil || (m[1] == "" && m[2] == "") {
		return DefaultDurationMinutes
	}
	minutes := 0
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return DefaultDurationMinutes
		}
		minutes += h * 60
	}
	if m[2] != "" {
		mm, err := strconv.Atoi(m[2])
		if err != nil {
			return DefaultDurationMinutes
		}
		minutes += mm
	}
	if minutes <= 0 {
		return DefaultDurationMinutes
	}
	return minutes
}

// ClockMinutes converts a zero-padded "HH:MM" clock time to minutes
// since midnight. The second result is false for malformed input.
func ClockMinutes(clock string) (int, bool) {
	h, m, ok := splitClock(clock)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

func splitClock(clock string) (int, int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

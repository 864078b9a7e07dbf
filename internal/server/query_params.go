package server

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

var errInvalidTime = errors.New("invalid_time")

// optional returns nil for a blank query value and parses anything else.
func optional[T any](value string, parse func(string) (T, error)) (*T, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := parse(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalBool(value string) (*bool, error) {
	return optional(value, strconv.ParseBool)
}

func parseOptionalInt(value string) (*int, error) {
	return optional(value, strconv.Atoi)
}

// parseOptionalTime accepts RFC3339 or a bare UTC date. A bare date maps to
// the first or last instant of that day depending on endOfDay.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	return optional(value, func(raw string) (time.Time, error) {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed, nil
		}
		day, err := time.ParseInLocation(dateOnlyLayout, raw, time.UTC)
		if err != nil {
			return time.Time{}, errInvalidTime
		}
		if endOfDay {
			return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
		}
		return day, nil
	})
}

package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrRefreshInFlight is returned when a refresh arrives while
	// another cycle is still running. Cycles are never queued.
	ErrRefreshInFlight = errors.New("refresh already in flight")

	// ErrNotStarted is returned for operations on a stopped service.
	ErrNotStarted = errors.New("service not started")
)

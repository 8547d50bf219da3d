package repository

import "errors"

// Sentinel kinds for bundle store errors.
var (
	ErrNotFound = errors.New("match not found")
)

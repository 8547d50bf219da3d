package api

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest indicates a malformed request path or body.
	ErrBadRequest = errors.New("bad request")
	// ErrEmptyBatch indicates a manual import with no rows.
	ErrEmptyBatch = errors.New("empty line batch")
	// ErrRefreshBusy indicates a refresh cycle is already running.
	ErrRefreshBusy = errors.New("refresh already in progress")
)

// NewKind tags kind with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags kind with the operation and the underlying cause.
func WrapKind(op string, kind error, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

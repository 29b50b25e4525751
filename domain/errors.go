// Package domain holds types and errors shared across the service's
// components that are not specific to any single one of them.
package domain

import "errors"

var (
	// ErrNotFound is returned by a store lookup that found no row.
	ErrNotFound = errors.New("not-found")
	// ErrTransient marks a store failure the caller should not surface
	// to the client; the in-memory room state remains authoritative.
	ErrTransient = errors.New("transient-store-error")
)

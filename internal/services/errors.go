package services

import "errors"

var (
	// ErrInvalidArgument is returned when a required field is missing or
	// empty. No side effect has been performed.
	ErrInvalidArgument = errors.New("missing or empty required field")

	// ErrNotFound is returned when no matching invoice record exists.
	// Callers treat this as a normal outcome, not a failure.
	ErrNotFound = errors.New("no matching invoice record")
)

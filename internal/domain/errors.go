package domain

import "errors"

// Sentinel errors surfaced by the scheduling engine and the layers around it.
// Domain errors are pure, no infrastructure dependency.
var (
	// Scheduling engine errors
	ErrInvalidWindow    = errors.New("task window lies outside the profile")
	ErrUnschedulable    = errors.New("task duration does not fit its window after rounding")
	ErrInvalidTimeDelta = errors.New("profile time delta is zero or negative")
	ErrOverflow         = errors.New("slot index overflows the index domain")
	ErrUnknownAlgorithm = errors.New("unknown scheduling algorithm")

	// Store errors
	ErrNotFound         = errors.New("not found")
	ErrUsernameTaken    = errors.New("username already registered")
	ErrWrongCredentials = errors.New("unknown username or wrong password")
	ErrNotOwner         = errors.New("account does not own device")
)

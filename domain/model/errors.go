package model

import "errors"

// Sentinel errors shared across the domain. Repositories translate store-level
// misses into these; controllers map them onto HTTP status codes.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already taken")

	// ErrInvalidInput marks a caller mistake (missing or over-limit field).
	// Use cases wrap it with a field-specific message.
	ErrInvalidInput = errors.New("invalid input")
)

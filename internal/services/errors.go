package services

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// status codes with errors.Is; everything else is a 400.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

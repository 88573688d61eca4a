package userclient

import "errors"

var (
	// ErrNotFound is returned when the user does not exist (HTTP 404)
	ErrNotFound = errors.New("user not found")

	// ErrServiceUnavailable is returned when user-service is unavailable (HTTP 5xx, transport error)
	ErrServiceUnavailable = errors.New("user service unavailable")

	// ErrBadRequest is returned when the request is malformed (HTTP 400)
	ErrBadRequest = errors.New("bad request")
)

package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")

	// Login path errors
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrIPBanned            = errors.New("ip address banned")
	ErrSecretNotConfigured = errors.New("application password not configured")

	// Upstream service errors
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrTokenNotConfigured  = errors.New("upstream API token not configured")
)

package main

import (
	"errors"

	"github.com/matsen/dimnet/internal/auth"
	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/network"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (settings, credentials)
	ExitDataError   = 3 // Data error (invalid topic metadata, malformed rows, failed networks)
)

// exitCodeFor classifies an error by the sentinel it wraps.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, auth.ErrGcloudNotFound),
		errors.Is(err, auth.ErrNoCredentials):
		return ExitConfigError
	case errors.Is(err, network.ErrInvalidMetadata),
		errors.Is(err, network.ErrUnsupportedKind),
		errors.Is(err, network.ErrMalformedRow):
		return ExitDataError
	default:
		return ExitError
	}
}

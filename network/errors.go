package network

import "github.com/go-errors/errors"

var (
	// ErrConnectTimeout is returned when no address was acquired in time.
	ErrConnectTimeout = errors.New("timed out waiting for an address")

	// ErrConnectInProgress is returned when Connect is already running.
	ErrConnectInProgress = errors.New("a connection attempt is already in progress")

	// ErrNotStarted is returned by radios that were not started yet.
	ErrNotStarted = errors.New("radio not started")
)

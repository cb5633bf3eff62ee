package domain

import "errors"

var (
	// ErrInvalidCount signals a generate count outside [MinGenerateCount, MaxGenerateCount].
	ErrInvalidCount = errors.New("Invalid count. Must be between 1 and 1,000,000") //nolint:staticcheck // client-facing text
	// ErrInvalidQuery signals a search term that cannot be executed.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMaintenanceInProgress signals that another bulk admin operation holds the maintenance lock.
	ErrMaintenanceInProgress = errors.New("maintenance operation in progress")
	// ErrStoreUnavailable signals that the relational store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

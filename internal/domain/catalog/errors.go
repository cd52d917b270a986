package catalog

import "errors"

var (
	// Tier errors
	ErrTierNotFound          = errors.New("pricing tier not found")
	ErrTierNotActive         = errors.New("pricing tier is not active")
	ErrMemberCountOutOfRange = errors.New("congregation size does not fit the selected tier")

	// Interval errors
	ErrIntervalNotFound  = errors.New("billing interval not found")
	ErrIntervalNotActive = errors.New("billing interval is not active")
	ErrUnknownInterval   = errors.New("unknown billing interval")

	// Storage addon errors
	ErrStorageAddonNotFound  = errors.New("storage addon not found")
	ErrStorageAddonNotActive = errors.New("storage addon is not active")
)

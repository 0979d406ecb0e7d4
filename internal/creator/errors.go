package creator

import "errors"

// Error definitions for the creator package.
var (
	// ErrFeatureNotFound is returned when a feature id is not in the
	// catalog. Non-fatal: the catalog is left unchanged.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrPresetNotFound is returned when a preset id is not in the
	// catalog. Non-fatal: callers get the current snapshot back.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrTargetExists is returned when the target directory exists
	// and the request did not set Force.
	ErrTargetExists = errors.New("target folder already exists")
)

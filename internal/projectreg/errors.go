package projectreg

import "errors"

// Error definitions for the projectreg package.
var (
	// ErrProjectNotFound is returned when a project id is not in the
	// registry.
	ErrProjectNotFound = errors.New("project not found")
)

package engine

import "errors"

// Error definitions for the engine package.
var (
	// ErrPresetNotFound is returned when a named preset is not in the catalog.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrPresetInvalid is returned when a preset manifest fails schema validation.
	ErrPresetInvalid = errors.New("invalid preset manifest")
	// ErrRemotePresetFetch is returned when a remote preset cannot be fetched.
	ErrRemotePresetFetch = errors.New("fetch remote preset")
	// ErrTemplateNotFound is returned when a named template is missing.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrPathTraversal is returned when a template path escapes the target.
	ErrPathTraversal = errors.New("path escapes target directory")
)

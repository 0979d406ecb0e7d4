// Package models defines the shared data model for the forge CLI:
// selectable features, preset bundles, creation requests, and the
// persisted project records tracked by the registry.
package models

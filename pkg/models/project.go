package models

// Project is a persisted registry record for a created or imported
// project.
type Project struct {
	ID       string `yaml:"id" json:"id"`
	Path     string `yaml:"path" json:"path"`
	Name     string `yaml:"name" json:"name"`
	Favorite bool   `yaml:"favorite" json:"favorite"`
}

// CreationRequest is the transient input to a create call. It is not
// persisted.
type CreationRequest struct {
	// TargetFolder is resolved against the current working directory.
	// "." means the current directory itself, using its basename as
	// the project name.
	TargetFolder string

	// Force deletes an existing target directory before generation.
	Force bool

	// PackageManager is the package manager choice injected into the
	// final answers (npm, yarn, pnpm).
	PackageManager string

	// PresetID names the preset to create from. PresetManual and
	// PresetDefault are handled specially.
	PresetID string

	// SaveName, when set, asks the engine to save the resolved
	// answers under this name for reuse.
	SaveName string

	// RemotePreset marks PresetID as a remote preset name or URL to
	// be fetched by the engine's remote resolver.
	RemotePreset bool

	// Clone asks the remote resolver to git-clone instead of
	// downloading a tarball.
	Clone bool
}

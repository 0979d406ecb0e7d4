package models

const (
	// PresetManual is the synthetic preset present in every catalog.
	// It carries no features; the user picks them by hand.
	PresetManual = "__manual__"

	// PresetDefault is the engine's built-in preset. Selecting it
	// bypasses interactive resolution entirely.
	PresetDefault = "default"
)

// LegacyRawFeatures maps legacy raw preset flags to the synthetic
// feature ids they force-enable. Older preset files carried these
// booleans at the top level instead of listing feature ids.
var LegacyRawFeatures = map[string]string{
	"router":          "router",
	"vuex":            "vuex",
	"cssPreprocessor": "css-preprocessor",
	"useConfigFiles":  FeatureUseConfigFiles,
}

// Preset is a named bundle of features. Presets are immutable once
// loaded for a session.
type Preset struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Features    []string `yaml:"features,omitempty" json:"features,omitempty"`

	// Raw holds the preset's original config document, if any.
	// Legacy flags (router, vuex, cssPreprocessor, useConfigFiles)
	// are read from here during reconciliation.
	Raw map[string]any `yaml:"raw,omitempty" json:"raw,omitempty"`
}

// RawFlag reports whether a legacy raw flag is set truthy on the preset.
func (p Preset) RawFlag(key string) bool {
	if p.Raw == nil {
		return false
	}
	v, ok := p.Raw[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	default:
		return v != nil
	}
}

// CreationSnapshot is the coherent "what will be created" view the
// creation session republishes after every reconciliation.
type CreationSnapshot struct {
	Features []Feature `json:"features"`
	Presets  []Preset  `json:"presets"`
	PresetID string    `json:"presetId"`
}

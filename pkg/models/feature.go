package models

// FeatureUseConfigFiles is the synthetic feature appended to every
// catalog. It is never forwarded as a plain feature id: the creation
// flow translates it into the engine's useConfigFiles answer.
const FeatureUseConfigFiles = "use-config-files"

// Feature is a single selectable capability in the feature catalog.
// Features are uniquely identified by ID and mutated only through
// explicit enable/disable requests or preset application.
type Feature struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Link        string   `yaml:"link,omitempty" json:"link,omitempty"`
	Plugins     []string `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Enabled     bool     `yaml:"enabled" json:"enabled"`
}

// ProvidedBy reports whether any of the feature's providing plugins
// appears in the given id set. A preset may name a plugin instead of
// a feature id; this is how the two are matched.
func (f Feature) ProvidedBy(ids []string) bool {
	for _, p := range f.Plugins {
		for _, id := range ids {
			if p == id {
				return true
			}
		}
	}
	return false
}

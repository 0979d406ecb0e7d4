package creator

import (
	"fmt"
	"slices"

	"github.com/forgekit/forge/pkg/models"
)

// Features returns the feature catalog in stable load order.
func (s *Session) Features() ([]models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInitLocked(); err != nil {
		return nil, err
	}
	out := make([]models.Feature, len(s.features))
	copy(out, s.features)
	return out, nil
}

// Presets returns the preset catalog, including the synthetic manual
// entry.
func (s *Session) Presets() ([]models.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInitLocked(); err != nil {
		return nil, err
	}
	out := make([]models.Preset, len(s.presets))
	copy(out, s.presets)
	return out, nil
}

// SetFeatureEnabled toggles a single feature. Unknown ids are logged
// and reported with ErrFeatureNotFound; the catalog is left unchanged
// and callers must treat this as non-fatal. When updatePrompts is
// true (the default for single toggles) the prompt session's features
// answer is resynchronized; batch callers pass false and resync once
// themselves.
func (s *Session) SetFeatureEnabled(id string, enabled, updatePrompts bool) (*models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInitLocked(); err != nil {
		return nil, err
	}

	for i := range s.features {
		if s.features[i].ID != id {
			continue
		}
		s.features[i].Enabled = enabled
		if updatePrompts {
			s.resyncFeaturesLocked()
		}
		f := s.features[i]
		return &f, nil
	}

	s.logger.Warn("feature not found", "id", id)
	return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
}

// ApplyPreset enables exactly the features the preset selects and
// disables every other one, then resynchronizes the prompt session
// once. An unknown preset id logs a warning and returns the current
// snapshot unchanged alongside ErrPresetNotFound; callers must treat
// this as non-fatal.
func (s *Session) ApplyPreset(id string) (models.CreationSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInitLocked(); err != nil {
		return models.CreationSnapshot{}, err
	}

	idx := slices.IndexFunc(s.presets, func(p models.Preset) bool { return p.ID == id })
	if idx < 0 {
		s.logger.Warn("preset not found", "id", id)
		return s.snapshotLocked(id), fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}

	s.features = reconcile(s.features, s.presets[idx])
	s.resyncFeaturesLocked()
	return s.snapshotLocked(id), nil
}

// Snapshot returns the current "what will be created" view.
func (s *Session) Snapshot() (models.CreationSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInitLocked(); err != nil {
		return models.CreationSnapshot{}, err
	}
	return s.snapshotLocked(""), nil
}

func (s *Session) snapshotLocked(presetID string) models.CreationSnapshot {
	snap := models.CreationSnapshot{
		Features: make([]models.Feature, len(s.features)),
		Presets:  make([]models.Preset, len(s.presets)),
		PresetID: presetID,
	}
	copy(snap.Features, s.features)
	copy(snap.Presets, s.presets)
	return snap
}

// reconcile computes the feature catalog selected by a preset. It is
// pure: the input slice is not mutated.
//
// First pass: a feature is enabled iff its id is listed directly in
// the preset, or one of its providing plugins is (presets may name a
// plugin rather than a feature id). Second pass: legacy raw flags
// (router, vuex, cssPreprocessor, useConfigFiles) force-enable their
// synthetic feature regardless of the first pass. This reconciles the
// two historical preset schemas; a raw flag wins even when the feature
// list disagrees.
func reconcile(features []models.Feature, preset models.Preset) []models.Feature {
	out := make([]models.Feature, len(features))
	copy(out, features)

	for i := range out {
		out[i].Enabled = slices.Contains(preset.Features, out[i].ID) ||
			out[i].ProvidedBy(preset.Features)
	}

	for rawKey, featureID := range models.LegacyRawFeatures {
		if !preset.RawFlag(rawKey) {
			continue
		}
		for i := range out {
			if out[i].ID == featureID {
				out[i].Enabled = true
			}
		}
	}

	return out
}

// resyncFeaturesLocked replaces the prompt session's features answer
// with the ordered list of currently-enabled feature ids. The
// synthetic use-config-files marker is excluded; it is translated
// separately during answer patching. Idempotent.
func (s *Session) resyncFeaturesLocked() {
	ids := make([]string, 0, len(s.features))
	for _, f := range s.features {
		if !f.Enabled || f.ID == models.FeatureUseConfigFiles {
			continue
		}
		ids = append(ids, f.ID)
	}
	s.deps.Prompts.SetAnswer("features", ids)
}

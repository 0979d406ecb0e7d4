package engine

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/forgekit/forge/pkg/models"
)

//go:embed schema/preset.schema.json
var presetSchemaBytes []byte

//go:embed presets/*.yaml
var builtinPresetFS embed.FS

var (
	presetSchema     *jsonschema.Schema
	presetSchemaOnce sync.Once
	presetSchemaErr  error
)

// getPresetSchema compiles the embedded preset JSON schema once.
func getPresetSchema() (*jsonschema.Schema, error) {
	presetSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(presetSchemaBytes))
		if err != nil {
			presetSchemaErr = fmt.Errorf("unmarshal preset schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("preset.schema.json", doc); err != nil {
			presetSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		presetSchema, presetSchemaErr = c.Compile("preset.schema.json")
	})
	return presetSchema, presetSchemaErr
}

// ValidatePresetManifest validates raw YAML bytes against the preset
// schema. A schema violation is reported as ErrPresetInvalid.
func ValidatePresetManifest(data []byte) error {
	schema, err := getPresetSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPresetInvalid, err)
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPresetInvalid, err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPresetInvalid, err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrPresetInvalid, err)
	}
	return nil
}

// normalizeYAML converts yaml.v3 map[any]any nodes into JSON-compatible
// map[string]any values.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}

// presetManifest is the on-disk shape of a preset file.
type presetManifest struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Features    []string       `yaml:"features,omitempty"`
	Raw         map[string]any `yaml:"raw,omitempty"`
}

// parsePreset validates and decodes a preset manifest.
func parsePreset(data []byte, source string) (models.Preset, error) {
	if err := ValidatePresetManifest(data); err != nil {
		return models.Preset{}, fmt.Errorf("%s: %w", source, err)
	}
	var m presetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return models.Preset{}, fmt.Errorf("%s: %w: %v", source, ErrPresetInvalid, err)
	}
	return models.Preset{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Features:    m.Features,
		Raw:         m.Raw,
	}, nil
}

// loadBuiltinPresets loads the presets embedded in the binary.
func loadBuiltinPresets() ([]models.Preset, error) {
	entries, err := fs.Glob(builtinPresetFS, "presets/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	presets := make([]models.Preset, 0, len(entries))
	for _, name := range entries {
		data, err := fs.ReadFile(builtinPresetFS, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		p, err := parsePreset(data, name)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// LoadPresetDir loads every .yaml preset manifest in dir. A missing
// directory yields an empty catalog, not an error.
func LoadPresetDir(dir string) ([]models.Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preset dir: %w", err)
	}

	var presets []models.Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		p, err := parsePreset(data, entry.Name())
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// loadResolvedPreset reads a resolved preset from a fetched source
// directory. It accepts forge-preset.yaml or preset.yaml.
func loadResolvedPreset(dir string) (*ResolvedPreset, error) {
	for _, name := range []string{"forge-preset.yaml", "preset.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		p, err := parsePreset(data, name)
		if err != nil {
			return nil, err
		}
		return &ResolvedPreset{
			Name:           p.Name,
			Features:       p.Features,
			UseConfigFiles: p.RawFlag("useConfigFiles"),
			Raw:            p.Raw,
		}, nil
	}
	return nil, fmt.Errorf("%w: no preset manifest in %s", ErrPresetNotFound, dir)
}

// savePreset persists a resolved manual selection as a user preset
// manifest so later creates can pick it by name.
func (e *templateEngine) savePreset(name string, resolved *ResolvedPreset) error {
	if e.presetDir == "" {
		return fmt.Errorf("no preset directory configured")
	}

	id := presetIDFor(name)
	m := presetManifest{
		ID:       id,
		Name:     name,
		Features: resolved.Features,
	}
	if resolved.UseConfigFiles {
		m.Raw = map[string]any{"useConfigFiles": true}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal preset %q: %w", name, err)
	}

	if err := os.MkdirAll(e.presetDir, 0o755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	path := filepath.Join(e.presetDir, id+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.logger.Debug("preset saved", "id", id, "path", path)
	return nil
}

// presetIDFor slugifies a display name into a valid manifest id.
func presetIDFor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	id := strings.Trim(b.String(), "-_")
	if id == "" {
		id = "preset"
	}
	return id
}

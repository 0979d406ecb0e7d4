package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forgekit/forge/pkg/models"
)

// noopInstaller skips dependency installation in tests.
func noopInstaller(_ context.Context, _, _ string, _ func(string)) error {
	return nil
}

func newTestEngine(t *testing.T) Engine {
	t.Helper()
	e, err := New(Config{Installer: noopInstaller})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestBuiltinPresetsLoad(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	presets := e.Presets()
	if len(presets) < 3 {
		t.Fatalf("expected at least 3 built-in presets, got %d", len(presets))
	}

	byID := map[string]models.Preset{}
	for _, p := range presets {
		byID[p.ID] = p
	}
	if _, ok := byID["default"]; !ok {
		t.Error("expected built-in preset 'default'")
	}
	legacy, ok := byID["legacy-spa"]
	if !ok {
		t.Fatal("expected built-in preset 'legacy-spa'")
	}
	if !legacy.RawFlag("router") || !legacy.RawFlag("useConfigFiles") {
		t.Errorf("legacy-spa raw flags not loaded: %+v", legacy.Raw)
	}
}

func TestFeatureChoicesDisabled(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	for _, f := range e.FeatureChoices() {
		if f.Enabled {
			t.Errorf("feature %q should start disabled", f.ID)
		}
	}
}

func TestValidatePresetManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: "id: my-preset\nname: My Preset\nfeatures:\n  - babel\n",
		},
		{
			name:    "missing name",
			data:    "id: my-preset\n",
			wantErr: true,
		},
		{
			name:    "bad id",
			data:    "id: \"My Preset!\"\nname: My Preset\n",
			wantErr: true,
		},
		{
			name:    "unknown key",
			data:    "id: p\nname: P\nplugins: {}\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresetManifest([]byte(tt.data))
			if tt.wantErr && !errors.Is(err, ErrPresetInvalid) {
				t.Errorf("expected ErrPresetInvalid, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadPresetDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := "id: team\nname: Team Preset\nfeatures:\n  - typescript\n"
	if err := os.WriteFile(filepath.Join(dir, "team.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresetDir(dir)
	if err != nil {
		t.Fatalf("LoadPresetDir() error: %v", err)
	}
	if len(presets) != 1 || presets[0].ID != "team" {
		t.Errorf("unexpected presets: %+v", presets)
	}
}

func TestLoadPresetDirMissing(t *testing.T) {
	t.Parallel()

	presets, err := LoadPresetDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir must not error, got %v", err)
	}
	if presets != nil {
		t.Errorf("expected nil presets, got %+v", presets)
	}
}

func TestPromptAndResolvePresetManual(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	answers := map[string]any{
		"preset":         "__manual__",
		"features":       []string{"babel", "router"},
		"useConfigFiles": "files",
	}

	resolved, err := e.PromptAndResolvePreset(answers)
	if err != nil {
		t.Fatalf("PromptAndResolvePreset() error: %v", err)
	}
	if resolved.Name != "__manual__" {
		t.Errorf("expected manual preset, got %q", resolved.Name)
	}
	if len(resolved.Features) != 2 {
		t.Errorf("expected 2 features, got %v", resolved.Features)
	}
	if !resolved.UseConfigFiles {
		t.Error("expected UseConfigFiles from answers")
	}
}

func TestPromptAndResolvePresetNamed(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	resolved, err := e.PromptAndResolvePreset(map[string]any{"preset": "spa"})
	if err != nil {
		t.Fatalf("PromptAndResolvePreset() error: %v", err)
	}
	if resolved.Name != "Single Page App" {
		t.Errorf("unexpected preset name %q", resolved.Name)
	}

	_, err = e.PromptAndResolvePreset(map[string]any{"preset": "missing"})
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestResolvePresetLocalDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := "id: remote\nname: Remote Preset\nfeatures:\n  - pwa\nraw:\n  useConfigFiles: true\n"
	if err := os.WriteFile(filepath.Join(dir, "forge-preset.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine(t)
	resolved, err := e.ResolvePreset(t.Context(), dir, false)
	if err != nil {
		t.Fatalf("ResolvePreset() error: %v", err)
	}
	if resolved.Name != "Remote Preset" || !resolved.UseConfigFiles {
		t.Errorf("unexpected resolved preset: %+v", resolved)
	}
}

func TestCreateRendersTemplates(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	target := filepath.Join(t.TempDir(), "my-app")

	var steps []string
	var lastProgress float64
	cb := Callbacks{
		Step:     func(ev string) { steps = append(steps, ev) },
		Progress: func(pct float64) { lastProgress = pct },
	}

	preset := &ResolvedPreset{
		Name:           "Single Page App",
		Features:       []string{"babel", "@forge/plugin-router"},
		UseConfigFiles: true,
	}
	opts := Options{TargetDir: target, ProjectName: "my-app", PackageManager: "npm"}

	if err := e.Create(t.Context(), opts, preset, cb); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	pkg, err := os.ReadFile(filepath.Join(target, "package.json"))
	if err != nil {
		t.Fatalf("package.json not written: %v", err)
	}
	if !strings.Contains(string(pkg), `"name": "my-app"`) {
		t.Errorf("project name not rendered: %s", pkg)
	}
	if !strings.Contains(string(pkg), "@forge/plugin-router") {
		t.Errorf("router plugin missing despite plugin-id feature: %s", pkg)
	}
	if strings.Contains(string(pkg), "plugin-vuex") {
		t.Errorf("vuex plugin rendered without being selected: %s", pkg)
	}

	if _, err := os.Stat(filepath.Join(target, "forge.config.yaml")); err != nil {
		t.Errorf("forge.config.yaml not written for useConfigFiles preset: %v", err)
	}

	if len(steps) == 0 || steps[0] != EventCreating || steps[len(steps)-1] != EventDone {
		t.Errorf("unexpected event sequence: %v", steps)
	}
	if lastProgress != 1 {
		t.Errorf("expected final progress 1, got %v", lastProgress)
	}
}

func TestCreateWithoutConfigFiles(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	target := filepath.Join(t.TempDir(), "plain")

	preset := &ResolvedPreset{Name: "default", Features: []string{"babel", "linter"}}
	if err := e.Create(t.Context(), Options{TargetDir: target, ProjectName: "plain"}, preset, Callbacks{}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(target, "forge.config.yaml")); !os.IsNotExist(err) {
		t.Error("forge.config.yaml must not be written without useConfigFiles")
	}
}

func TestManualResolveSavesPreset(t *testing.T) {
	t.Parallel()

	presetDir := filepath.Join(t.TempDir(), "presets")
	e, err := New(Config{PresetDir: presetDir, Installer: noopInstaller})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	answers := map[string]any{
		"preset":         "__manual__",
		"features":       []string{"babel", "pwa"},
		"useConfigFiles": "files",
		"save":           "My Team Setup",
	}
	if _, err := e.PromptAndResolvePreset(answers); err != nil {
		t.Fatalf("PromptAndResolvePreset() error: %v", err)
	}

	saved, err := LoadPresetDir(presetDir)
	if err != nil {
		t.Fatalf("LoadPresetDir() error: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved preset, got %d", len(saved))
	}
	p := saved[0]
	if p.ID != "my-team-setup" || p.Name != "My Team Setup" {
		t.Errorf("unexpected saved preset: %+v", p)
	}
	if len(p.Features) != 2 || !p.RawFlag("useConfigFiles") {
		t.Errorf("saved preset lost selection: %+v", p)
	}
}

func TestPresetIDFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"My Team Setup", "my-team-setup"},
		{"already-valid_id", "already-valid_id"},
		{"--weird!!", "weird"},
		{"!!!", "preset"},
	}
	for _, tt := range tests {
		if got := presetIDFor(tt.in); got != tt.want {
			t.Errorf("presetIDFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

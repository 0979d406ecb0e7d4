// Package engine implements the scaffolding engine: preset and feature
// introspection, preset resolution (built-in, interactive, and remote),
// and template-driven project generation. The creation session treats
// it as a collaborator behind the Engine interface.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forgekit/forge/internal/prompt"
	"github.com/forgekit/forge/pkg/models"
)

// Creation lifecycle event names emitted during generation.
const (
	EventCreating        = "creating"
	EventRendering       = "rendering"
	EventDepsInstall     = "deps-install"
	EventCompletionHooks = "completion-hooks"
	EventDone            = "done"
)

// Options carries the per-call parameters for Create.
type Options struct {
	TargetDir      string // Absolute directory to generate into
	ProjectName    string // Display name injected into templates
	PackageManager string // npm, yarn, or pnpm
}

// Callbacks receives creation lifecycle signals. Any field may be nil.
// Callbacks are passed into Create rather than registered globally so
// cleanup is guaranteed by scope on every exit path.
type Callbacks struct {
	Step     func(event string)    // Named lifecycle events
	Progress func(pct float64)     // Fractional progress in [0, 1]
	Log      func(line string)     // Textual log lines
}

func (c Callbacks) step(event string) {
	if c.Step != nil {
		c.Step(event)
	}
}

func (c Callbacks) progress(pct float64) {
	if c.Progress != nil {
		c.Progress(pct)
	}
}

func (c Callbacks) log(line string) {
	if c.Log != nil {
		c.Log(line)
	}
}

// ResolvedPreset is the final, fully-resolved input to generation.
type ResolvedPreset struct {
	Name           string         `yaml:"name" json:"name"`
	Features       []string       `yaml:"features" json:"features"`
	UseConfigFiles bool           `yaml:"useConfigFiles" json:"useConfigFiles"`
	Raw            map[string]any `yaml:"raw,omitempty" json:"raw,omitempty"`
}

// Installer installs project dependencies into dir. Log lines are
// streamed through logLine.
type Installer func(ctx context.Context, dir, packageManager string, logLine func(string)) error

// Engine is the scaffolding engine consumed by the creation session.
type Engine interface {
	// Presets returns the loaded preset catalog, built-ins first.
	Presets() []models.Preset

	// FeatureChoices returns the selectable features, disabled.
	FeatureChoices() []models.Feature

	// InjectedPrompts returns the questions the engine wants asked in
	// addition to preset/feature selection.
	InjectedPrompts() []prompt.Question

	// ResolvePreset fetches and resolves a remote preset by name or
	// URL. When clone is true the source is git-cloned.
	ResolvePreset(ctx context.Context, name string, clone bool) (*ResolvedPreset, error)

	// PromptAndResolvePreset resolves a preset from the patched
	// answer set. This covers the manual preset and local named
	// presets.
	PromptAndResolvePreset(answers prompt.Answers) (*ResolvedPreset, error)

	// DefaultPresetData returns the built-in default preset, used
	// when the request names the literal default id.
	DefaultPresetData() *ResolvedPreset

	// Create generates the project into opts.TargetDir from the
	// resolved preset, emitting lifecycle events through cb.
	Create(ctx context.Context, opts Options, preset *ResolvedPreset, cb Callbacks) error
}

// templateEngine is the embedded-template implementation of Engine.
type templateEngine struct {
	presets   []models.Preset
	features  []models.Feature
	presetDir string
	installer Installer
	logger    *slog.Logger
}

// Config customizes engine construction.
type Config struct {
	// PresetDir is an optional directory of user preset manifests
	// loaded in addition to the built-ins.
	PresetDir string

	// Installer overrides the default package-manager installer.
	// Useful in tests; nil selects the default.
	Installer Installer

	Logger *slog.Logger
}

// New constructs the engine, loading built-in presets and any user
// manifests from cfg.PresetDir.
func New(cfg Config) (Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	presets, err := loadBuiltinPresets()
	if err != nil {
		return nil, fmt.Errorf("load built-in presets: %w", err)
	}
	if cfg.PresetDir != "" {
		userPresets, err := LoadPresetDir(cfg.PresetDir)
		if err != nil {
			return nil, fmt.Errorf("load user presets: %w", err)
		}
		presets = append(presets, userPresets...)
	}

	installer := cfg.Installer
	if installer == nil {
		installer = defaultInstaller
	}

	return &templateEngine{
		presets:   presets,
		features:  builtinFeatures(),
		presetDir: cfg.PresetDir,
		installer: installer,
		logger:    logger,
	}, nil
}

func (e *templateEngine) Presets() []models.Preset {
	out := make([]models.Preset, len(e.presets))
	copy(out, e.presets)
	return out
}

func (e *templateEngine) FeatureChoices() []models.Feature {
	out := make([]models.Feature, len(e.features))
	copy(out, e.features)
	return out
}

func (e *templateEngine) DefaultPresetData() *ResolvedPreset {
	return &ResolvedPreset{
		Name:     models.PresetDefault,
		Features: []string{"babel", "linter"},
	}
}

// PromptAndResolvePreset resolves the preset named by the answers. The
// manual preset takes its features from the features answer; a named
// preset takes them from the catalog.
func (e *templateEngine) PromptAndResolvePreset(answers prompt.Answers) (*ResolvedPreset, error) {
	presetID, _ := answers["preset"].(string)
	if presetID == "" {
		presetID = models.PresetManual
	}

	useConfigFiles, _ := answers["useConfigFiles"].(string)

	if presetID == models.PresetManual {
		resolved := &ResolvedPreset{
			Name:           models.PresetManual,
			Features:       answers.StringSlice("features"),
			UseConfigFiles: useConfigFiles == "files",
		}
		if save, _ := answers["save"].(string); save != "" {
			// Saving is a convenience; a failure must not block creation.
			if err := e.savePreset(save, resolved); err != nil {
				e.logger.Warn("save preset", "name", save, "error", err)
			}
		}
		return resolved, nil
	}

	for _, p := range e.presets {
		if p.ID == presetID {
			return &ResolvedPreset{
				Name:           p.Name,
				Features:       p.Features,
				UseConfigFiles: useConfigFiles == "files" || p.RawFlag("useConfigFiles"),
				Raw:            p.Raw,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, presetID)
}

// ResolvePreset fetches a remote preset. Names that point at a local
// directory are read directly; everything else is git-cloned into a
// temp directory first.
func (e *templateEngine) ResolvePreset(ctx context.Context, name string, clone bool) (*ResolvedPreset, error) {
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return loadResolvedPreset(name)
	}

	tmp, err := os.MkdirTemp("", "forge-preset-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	src := remotePresetURL(name, clone)
	e.logger.Debug("fetching remote preset", "source", src)

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", src, tmp)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrRemotePresetFetch, name, string(out))
	}

	return loadResolvedPreset(tmp)
}

// remotePresetURL expands shorthand "owner/repo" names to a full URL.
func remotePresetURL(name string, clone bool) string {
	if filepath.IsAbs(name) || strings.Contains(name, "://") || strings.HasPrefix(name, "git@") {
		return name
	}
	if clone {
		return "git@github.com:" + name + ".git"
	}
	return "https://github.com/" + name + ".git"
}

// defaultInstaller shells out to the chosen package manager. Missing
// binaries are reported as log lines, not failures, so generation
// still succeeds on machines without the package manager installed.
func defaultInstaller(ctx context.Context, dir, packageManager string, logLine func(string)) error {
	if packageManager == "" {
		packageManager = "npm"
	}
	if _, err := exec.LookPath(packageManager); err != nil {
		logLine(fmt.Sprintf("skipping dependency install: %s not found in PATH", packageManager))
		return nil
	}

	cmd := exec.CommandContext(ctx, packageManager, "install")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	for line := range splitLines(string(out)) {
		logLine(line)
	}
	if err != nil {
		return fmt.Errorf("%s install: %w", packageManager, err)
	}
	return nil
}

// splitLines yields non-empty lines of s.
func splitLines(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i <= len(s); i++ {
			if i == len(s) || s[i] == '\n' {
				line := s[start:i]
				start = i + 1
				if line == "" {
					continue
				}
				if !yield(line) {
					return
				}
			}
		}
	}
}

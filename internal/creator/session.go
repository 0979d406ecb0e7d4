// Package creator implements the project-creation session: it owns the
// feature and preset catalogs, keeps them reconciled with the prompt
// session, and drives the scaffolding engine exactly once per session
// under the progress reporter's guard.
package creator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/forgekit/forge/internal/engine"
	"github.com/forgekit/forge/internal/progress"
	"github.com/forgekit/forge/internal/prompt"
	"github.com/forgekit/forge/pkg/models"
)

// OperationID is the fixed progress-reporter id for project creation.
// Only one creation session is meaningful per process, so a single id
// suffices; the reporter's Wrap serializes overlapping create calls.
const OperationID = "project-create"

// State is the lifecycle state of the creation session.
type State int

const (
	// StateIdle means no catalogs are loaded.
	StateIdle State = iota
	// StateConfiguring means catalogs are loaded and mutable.
	StateConfiguring
	// StateCreating means a create call is in flight.
	StateCreating
	// StateFailed means the last create call failed. The next catalog
	// access re-initializes the session.
	StateFailed
)

// ProjectImporter lands successfully created directories in the
// project registry.
type ProjectImporter interface {
	Import(path string) (*models.Project, error)
}

// Deps are the creation session's collaborators. Engine, Prompts, and
// Progress are required; the rest default to working implementations
// when zero.
type Deps struct {
	Engine   engine.Engine
	Prompts  *prompt.Session
	Progress *progress.Reporter
	Registry ProjectImporter

	// RemoveAll deletes the target directory on a forced create.
	RemoveAll func(path string) error

	// Notify sends a best-effort desktop notification on completion.
	Notify func(title, body string) error

	// Getwd resolves the current working directory.
	Getwd func() (string, error)

	Logger *slog.Logger
}

// Session is the creation state machine. One instance per process.
type Session struct {
	mu          sync.Mutex
	deps        Deps
	logger      *slog.Logger
	state       State
	initialized bool
	features    []models.Feature
	presets     []models.Preset

	// observing gates the engine event callbacks in addition to the
	// reporter's record guard, so deregistration is explicit and
	// idempotent.
	observing atomic.Bool
}

// NewSession creates a creation session around the given collaborators.
func NewSession(deps Deps) *Session {
	if deps.RemoveAll == nil {
		deps.RemoveAll = os.RemoveAll
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Notify == nil {
		deps.Notify = func(string, string) error { return nil }
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{deps: deps, logger: logger, state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ensureInitLocked lazily loads the catalogs and seeds the prompt
// session. It runs at most once per session; a completed or failed
// create resets the flag so the next access re-initializes.
func (s *Session) ensureInitLocked() error {
	if s.initialized {
		return nil
	}

	features := s.deps.Engine.FeatureChoices()
	features = append(features, models.Feature{
		ID:          models.FeatureUseConfigFiles,
		Name:        "Use config files",
		Description: "Keep tool configuration in dedicated files instead of package.json",
	})
	s.features = features

	presets := s.deps.Engine.Presets()
	presets = append(presets, models.Preset{
		ID:          models.PresetManual,
		Name:        "Manual",
		Description: "Manually select features",
	})
	s.presets = presets

	s.deps.Prompts.Reset()
	for _, q := range s.deps.Engine.InjectedPrompts() {
		if err := s.deps.Prompts.Add(q); err != nil {
			return fmt.Errorf("seed prompt session: %w", err)
		}
	}
	s.resyncFeaturesLocked()

	s.observing.Store(true)
	s.initialized = true
	s.state = StateConfiguring
	return nil
}

// deregisterObservers stops forwarding engine events to the progress
// reporter. Idempotent; called on every create exit path.
func (s *Session) deregisterObservers() {
	s.observing.Store(false)
}

// engineCallbacks builds the three creation observers: lifecycle steps,
// percentage progress, and log lines. All three are double-guarded:
// they no-op once deregistered, and the reporter itself drops updates
// for a retired operation id, so late or out-of-order events after
// completion vanish silently.
func (s *Session) engineCallbacks() engine.Callbacks {
	return engine.Callbacks{
		Step: func(event string) {
			if !s.observing.Load() {
				return
			}
			s.deps.Progress.Set(progress.Update{ID: OperationID, Status: &event})
		},
		Progress: func(pct float64) {
			if !s.observing.Load() {
				return
			}
			s.deps.Progress.Set(progress.Update{ID: OperationID, Progress: &pct})
		},
		Log: func(line string) {
			if !s.observing.Load() {
				return
			}
			if _, ok := s.deps.Progress.Get(OperationID); !ok {
				return
			}
			s.logger.Info("create", "log", line)
			s.deps.Progress.Set(progress.Update{ID: OperationID, Info: &line})
		},
	}
}

// Create runs the full creation flow for the request. Concurrent calls
// are serialized by the session lock; a second call for the same
// operation id while one is wrapped is rejected by the reporter. On
// success the new directory is imported into the project registry; on
// any error the session transitions through Failed and the catalogs
// are reloaded lazily on the next access.
func (s *Session) Create(ctx context.Context, req models.CreationRequest) (*models.Project, error) {
	s.mu.Lock()
	if err := s.ensureInitLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateCreating
	callbacks := s.engineCallbacks()
	useConfigFiles := false
	for _, f := range s.features {
		if f.ID == models.FeatureUseConfigFiles && f.Enabled {
			useConfigFiles = true
		}
	}
	s.mu.Unlock()

	var target string
	err := s.deps.Progress.Wrap(OperationID, func(set *progress.Setter) error {
		set.Status("creating")

		cwd, err := s.deps.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		var name string
		target, name = resolveTarget(cwd, req.TargetFolder)

		// The only validation failure in the flow; it must abort
		// before anything destructive or generative happens.
		set.Info("Checking target directory")
		if _, statErr := os.Stat(target); statErr == nil {
			if !req.Force {
				return fmt.Errorf("%w: %s", ErrTargetExists, target)
			}
			set.Info("Cleaning target directory")
			if err := s.deps.RemoveAll(target); err != nil {
				return fmt.Errorf("clean target directory: %w", err)
			}
		}
		set.ClearInfo()

		answers := s.deps.Prompts.Answers()
		s.deps.Prompts.Reset()
		if useConfigFiles {
			// Resynchronization keeps the synthetic marker out of the
			// features answer; reintroduce it here so patching can
			// translate it into the engine's answer shape.
			answers["features"] = append(answers.StringSlice("features"), models.FeatureUseConfigFiles)
		}
		patched := patchAnswers(answers, req)

		set.Info("Resolving preset")
		resolved, err := s.resolvePreset(ctx, req, patched)
		if err != nil {
			return err
		}
		set.ClearInfo()

		set.Info("Generating project")
		opts := engine.Options{
			TargetDir:      target,
			ProjectName:    name,
			PackageManager: req.PackageManager,
		}
		if err := s.deps.Engine.Create(ctx, opts, resolved, callbacks); err != nil {
			return fmt.Errorf("generate project: %w", err)
		}
		set.ClearInfo()
		return nil
	})

	s.deregisterObservers()

	s.mu.Lock()
	s.initialized = false
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	// Best-effort: a failed notification must not fail creation.
	if notifyErr := s.deps.Notify("Project created", filepath.Base(target)); notifyErr != nil {
		s.logger.Debug("desktop notification failed", "error", notifyErr)
	}

	if s.deps.Registry == nil {
		return nil, nil
	}
	project, err := s.deps.Registry.Import(target)
	if err != nil {
		return nil, fmt.Errorf("import created project: %w", err)
	}
	return project, nil
}

// resolvePreset picks the final preset by precedence: remote resolver,
// built-in default data, then the interactive resolver over the
// patched answers (manual and local named presets).
func (s *Session) resolvePreset(ctx context.Context, req models.CreationRequest, answers prompt.Answers) (*engine.ResolvedPreset, error) {
	switch {
	case req.RemotePreset:
		resolved, err := s.deps.Engine.ResolvePreset(ctx, req.PresetID, req.Clone)
		if err != nil {
			return nil, fmt.Errorf("resolve remote preset: %w", err)
		}
		return resolved, nil
	case req.PresetID == models.PresetDefault:
		return s.deps.Engine.DefaultPresetData(), nil
	default:
		resolved, err := s.deps.Engine.PromptAndResolvePreset(answers)
		if err != nil {
			return nil, fmt.Errorf("resolve preset: %w", err)
		}
		return resolved, nil
	}
}

// resolveTarget computes the absolute target directory. "." aliases
// the current directory, using its basename as the project name.
func resolveTarget(cwd, folder string) (target, name string) {
	switch {
	case folder == "." || folder == "":
		target = filepath.Clean(cwd)
	case filepath.IsAbs(folder):
		target = filepath.Clean(folder)
	default:
		target = filepath.Join(cwd, folder)
	}
	return target, filepath.Base(target)
}

// patchAnswers rebuilds the final answer set for preset resolution:
// it injects the package manager choice, translates the synthetic
// use-config-files feature into the engine's useConfigFiles answer,
// and sets the preset id and optional save name.
func patchAnswers(answers prompt.Answers, req models.CreationRequest) prompt.Answers {
	patched := make(prompt.Answers, len(answers)+3)
	for k, v := range answers {
		patched[k] = v
	}

	if req.PackageManager != "" {
		patched["packageManager"] = req.PackageManager
	}

	features := patched.StringSlice("features")
	filtered := make([]string, 0, len(features))
	for _, id := range features {
		if id == models.FeatureUseConfigFiles {
			patched["useConfigFiles"] = "files"
			continue
		}
		filtered = append(filtered, id)
	}
	patched["features"] = filtered

	patched["preset"] = req.PresetID
	if req.SaveName != "" {
		patched["save"] = req.SaveName
	}
	return patched
}

// Package cli provides the Cobra command tree and dependency wiring
// for the forge CLI. This file defines the Dependencies struct
// (Composition Root) that wires the domain packages together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/forgekit/forge/internal/creator"
	"github.com/forgekit/forge/internal/engine"
	"github.com/forgekit/forge/internal/locale"
	"github.com/forgekit/forge/internal/notify"
	"github.com/forgekit/forge/internal/pkgmeta"
	"github.com/forgekit/forge/internal/progress"
	"github.com/forgekit/forge/internal/projectreg"
	"github.com/forgekit/forge/internal/prompt"
)

// Dependencies holds the domain services used by CLI commands. This is
// the Composition Root: the only place where concrete types are
// instantiated and wired together.
type Dependencies struct {
	Engine   engine.Engine
	Prompts  *prompt.Session
	Progress *progress.Reporter
	Registry *projectreg.Registry
	Session  *creator.Session
	Logger   *slog.Logger
}

// deps is the global dependencies instance, initialized by
// InitDependencies. CLI commands access this through the package-level
// variable.
var deps *Dependencies

// InitDependencies creates and wires the domain dependencies. It
// should be called once during application startup.
func InitDependencies() error {
	logger := newLogger()
	home, err := forgeHome()
	if err != nil {
		return fmt.Errorf("resolve forge home: %w", err)
	}

	eng, err := engine.New(engine.Config{
		PresetDir: filepath.Join(home, "presets"),
		Logger:    logger.With("component", "engine"),
	})
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	store, err := projectreg.OpenStore(filepath.Join(home, "registry.yaml"))
	if err != nil {
		return fmt.Errorf("open project registry: %w", err)
	}
	registry := projectreg.NewRegistry(store, projectreg.Deps{
		ReadName:    pkgmeta.ReadName,
		SetCwd:      os.Chdir,
		ResetLocale: locale.Reset,
		DiscoverPlugins: func(path string) {
			logger.Debug("plugins discovered", "path", path, "plugins", pkgmeta.Plugins(path))
		},
		Logger: logger.With("component", "registry"),
	})

	// Reopen the project from the previous session, if any, so commands
	// that read the current project see it without an explicit open.
	registry.OpenLast()

	prompts := prompt.NewSession()
	reporter := progress.NewReporter()

	deps = &Dependencies{
		Engine:   eng,
		Prompts:  prompts,
		Progress: reporter,
		Registry: registry,
		Logger:   logger,
		Session: creator.NewSession(creator.Deps{
			Engine:   eng,
			Prompts:  prompts,
			Progress: reporter,
			Registry: registry,
			Notify:   notify.Send,
			Logger:   logger.With("component", "creator"),
		}),
	}
	return nil
}

// GetDeps returns the current Dependencies instance. Returns nil if
// InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// forgeHome returns the directory holding forge's registry and user
// presets: $FORGE_HOME when set, otherwise ~/.forge.
func forgeHome() (string, error) {
	if dir := os.Getenv("FORGE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".forge"), nil
}

// newLogger builds the process logger. Logging stays silent unless
// FORGE_DEBUG is set, since command output owns the terminal.
func newLogger() *slog.Logger {
	if os.Getenv("FORGE_DEBUG") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

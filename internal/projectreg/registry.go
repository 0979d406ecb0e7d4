package projectreg

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/forgekit/forge/pkg/models"
)

// Deps are the registry's narrow collaborators. Every field is
// optional; zero values select working defaults or no-ops.
type Deps struct {
	// ReadName resolves a project's display name from its path.
	ReadName func(path string) string

	// SetCwd points the process working directory at an opened project.
	SetCwd func(path string) error

	// ResetLocale clears per-project locale state on open.
	ResetLocale func()

	// DiscoverPlugins scans an opened project's path for plugins.
	DiscoverPlugins func(path string)

	// NewID generates a collision-resistant short identifier.
	NewID func() string

	Logger *slog.Logger
}

// Registry tracks known projects and the current/last pointers. The
// pointers live in memory; only the project list and the last-opened
// id are persisted.
type Registry struct {
	mu      sync.Mutex
	store   *Store
	deps    Deps
	logger  *slog.Logger
	current *models.Project
	last    *models.Project
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store *Store, deps Deps) *Registry {
	if deps.ReadName == nil {
		deps.ReadName = func(path string) string { return path }
	}
	if deps.SetCwd == nil {
		deps.SetCwd = func(string) error { return nil }
	}
	if deps.ResetLocale == nil {
		deps.ResetLocale = func() {}
	}
	if deps.DiscoverPlugins == nil {
		deps.DiscoverPlugins = func(string) {}
	}
	if deps.NewID == nil {
		deps.NewID = ShortID
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{store: store, deps: deps, logger: logger}
}

// ShortID returns a collision-resistant short identifier.
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// List returns all known projects.
func (r *Registry) List() []models.Project {
	return r.store.Projects()
}

// Current returns the currently open project, or nil.
func (r *Registry) Current() *models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Last returns the previously open project, or nil.
func (r *Registry) Last() *models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Import registers the directory at path as a project and opens it.
// This is also the landing step after a successful creation.
func (r *Registry) Import(path string) (*models.Project, error) {
	p := models.Project{
		ID:   r.deps.NewID(),
		Path: path,
		Name: r.deps.ReadName(path),
	}
	if err := r.store.Append(p); err != nil {
		return nil, fmt.Errorf("append project: %w", err)
	}
	r.logger.Info("project imported", "id", p.ID, "path", path)
	return r.Open(p.ID), nil
}

// Open makes the project with the given id current: it shifts the
// last pointer, points the working directory at the project, resets
// locale state, triggers plugin discovery, and persists the id for
// the next process start. An unknown id logs a warning and returns
// nil, leaving the current pointer unchanged.
func (r *Registry) Open(id string) *models.Project {
	p, ok := r.store.Find(id)
	if !ok {
		r.logger.Warn("project not found", "id", id)
		return nil
	}

	r.mu.Lock()
	r.last = r.current
	r.current = &p
	r.mu.Unlock()

	if err := r.deps.SetCwd(p.Path); err != nil {
		r.logger.Warn("set working directory", "path", p.Path, "error", err)
	}
	r.deps.ResetLocale()
	r.deps.DiscoverPlugins(p.Path)

	if err := r.store.SetLastOpenProject(id); err != nil {
		r.logger.Warn("persist last open project", "id", id, "error", err)
	}
	return &p
}

// OpenLast re-opens the project persisted as last-opened, if any.
// Called once at process start.
func (r *Registry) OpenLast() *models.Project {
	id := r.store.LastOpenProject()
	if id == "" {
		return nil
	}
	return r.Open(id)
}

// Remove deletes the project record. If it is currently open the
// current pointer is cleared, and if it was the persisted last-opened
// id that slot is cleared too. Idempotent on unknown ids.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	if r.current != nil && r.current.ID == id {
		r.current = nil
	}
	if r.last != nil && r.last.ID == id {
		r.last = nil
	}
	r.mu.Unlock()

	if err := r.store.Delete(id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if r.store.LastOpenProject() == id {
		if err := r.store.SetLastOpenProject(""); err != nil {
			return fmt.Errorf("clear last open project: %w", err)
		}
	}
	return nil
}

// SetFavorite updates the favorite flag and returns the refreshed
// record.
func (r *Registry) SetFavorite(id string, favorite bool) (*models.Project, error) {
	p, ok := r.store.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	p.Favorite = favorite
	if err := r.store.Update(p); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.current != nil && r.current.ID == id {
		r.current = &p
	}
	r.mu.Unlock()
	return &p, nil
}

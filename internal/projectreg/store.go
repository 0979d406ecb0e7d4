// Package projectreg implements the durable project registry: a YAML
// document holding the list of known projects and the id of the last
// opened one, plus the open/remove/favorite operations around it.
package projectreg

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/forgekit/forge/pkg/models"
)

// storeData is the on-disk document shape.
type storeData struct {
	Projects []models.Project `yaml:"projects"`
	Config   storeConfig      `yaml:"config"`
}

type storeConfig struct {
	LastOpenProject string `yaml:"lastOpenProject,omitempty"`
}

// Store persists the registry document. Writes are atomic via temp
// file + os.Rename. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	data storeData
}

// OpenStore loads (or lazily creates) the registry document at path.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return s, nil
}

// Projects returns a copy of the stored project list.
func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, len(s.data.Projects))
	copy(out, s.data.Projects)
	return out
}

// Find returns the project with the given id.
func (s *Store) Find(id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Append adds a project record and writes to disk.
func (s *Store) Append(p models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Projects = append(s.data.Projects, p)
	return s.saveLocked()
}

// Update replaces the record with the same id and writes to disk.
func (s *Store) Update(p models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Projects {
		if s.data.Projects[i].ID == p.ID {
			s.data.Projects[i] = p
			return s.saveLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrProjectNotFound, p.ID)
}

// Delete removes the record with the given id and writes to disk.
// Unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Projects {
		if s.data.Projects[i].ID == id {
			s.data.Projects = append(s.data.Projects[:i], s.data.Projects[i+1:]...)
			return s.saveLocked()
		}
	}
	return nil
}

// LastOpenProject returns the persisted last-opened project id.
func (s *Store) LastOpenProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Config.LastOpenProject
}

// SetLastOpenProject persists the last-opened project id. An empty id
// clears the slot.
func (s *Store) SetLastOpenProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Config.LastOpenProject = id
	return s.saveLocked()
}

// saveLocked marshals and atomically writes the document.
func (s *Store) saveLocked() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	return atomicWrite(s.path, raw)
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".forge-registry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}

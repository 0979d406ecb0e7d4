package projectreg

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgekit/forge/pkg/models"
)

func newTestRegistry(t *testing.T) (*Registry, *Store) {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "registry.yaml"))
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	seq := 0
	reg := NewRegistry(store, Deps{
		ReadName: filepath.Base,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return reg, store
}

func TestImportOpensProject(t *testing.T) {
	t.Parallel()

	reg, store := newTestRegistry(t)
	p, err := reg.Import("/tmp/my-app")
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if p == nil || p.Name != "my-app" {
		t.Fatalf("unexpected project: %+v", p)
	}
	if cur := reg.Current(); cur == nil || cur.ID != p.ID {
		t.Error("import must open the project")
	}
	if store.LastOpenProject() != p.ID {
		t.Error("import must persist the last-opened id")
	}
}

func TestOpenUnknownID(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	opened, _ := reg.Import("/tmp/a")

	if got := reg.Open("unknown-id"); got != nil {
		t.Errorf("Open(unknown) = %+v, want nil", got)
	}
	if cur := reg.Current(); cur == nil || cur.ID != opened.ID {
		t.Error("Open(unknown) must leave currentProject unchanged")
	}
}

func TestOpenShiftsLastPointer(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	a, _ := reg.Import("/tmp/a")
	b, _ := reg.Import("/tmp/b")

	if cur := reg.Current(); cur.ID != b.ID {
		t.Fatalf("current = %s, want %s", cur.ID, b.ID)
	}
	if last := reg.Last(); last == nil || last.ID != a.ID {
		t.Errorf("last pointer not shifted, got %+v", reg.Last())
	}

	reg.Open(a.ID)
	if last := reg.Last(); last == nil || last.ID != b.ID {
		t.Errorf("last pointer after re-open = %+v, want %s", reg.Last(), b.ID)
	}
}

func TestOpenTriggersCollaborators(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(filepath.Join(t.TempDir(), "registry.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var cwd string
	localeResets := 0
	var discovered []string
	reg := NewRegistry(store, Deps{
		SetCwd:          func(p string) error { cwd = p; return nil },
		ResetLocale:     func() { localeResets++ },
		DiscoverPlugins: func(p string) { discovered = append(discovered, p) },
	})

	p, err := reg.Import("/tmp/app")
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if cwd != p.Path {
		t.Errorf("cwd = %q, want %q", cwd, p.Path)
	}
	if localeResets != 1 {
		t.Errorf("locale resets = %d, want 1", localeResets)
	}
	if len(discovered) != 1 || discovered[0] != p.Path {
		t.Errorf("plugin discovery = %v", discovered)
	}
}

func TestOpenLast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(store, Deps{})
	p, err := reg.Import("/tmp/app")
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a new process: reload the store from disk.
	store2, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	reg2 := NewRegistry(store2, Deps{})
	reopened := reg2.OpenLast()
	if reopened == nil || reopened.ID != p.ID {
		t.Errorf("OpenLast() = %+v, want project %s", reopened, p.ID)
	}
}

func TestOpenLastEmpty(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	if got := reg.OpenLast(); got != nil {
		t.Errorf("OpenLast() on empty registry = %+v, want nil", got)
	}
}

func TestRemoveCurrentProject(t *testing.T) {
	t.Parallel()

	reg, store := newTestRegistry(t)
	p, _ := reg.Import("/tmp/app")

	if err := reg.Remove(p.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if reg.Current() != nil {
		t.Error("removing the open project must clear currentProject")
	}
	if store.LastOpenProject() != "" {
		t.Error("removing the last-opened project must clear the persisted pointer")
	}
	if _, ok := store.Find(p.ID); ok {
		t.Error("record must be deleted from the store")
	}
}

func TestRemoveUnknownIDIdempotent(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	if err := reg.Remove("ghost"); err != nil {
		t.Errorf("Remove(unknown) must be idempotent, got %v", err)
	}
	if err := reg.Remove("ghost"); err != nil {
		t.Errorf("second Remove(unknown) error: %v", err)
	}
}

func TestRemoveOtherProjectKeepsPointers(t *testing.T) {
	t.Parallel()

	reg, store := newTestRegistry(t)
	a, _ := reg.Import("/tmp/a")
	b, _ := reg.Import("/tmp/b")

	if err := reg.Remove(a.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if cur := reg.Current(); cur == nil || cur.ID != b.ID {
		t.Error("removing another project must not clear currentProject")
	}
	if store.LastOpenProject() != b.ID {
		t.Error("persisted pointer must survive removal of another project")
	}
}

func TestSetFavorite(t *testing.T) {
	t.Parallel()

	reg, store := newTestRegistry(t)
	p, _ := reg.Import("/tmp/app")

	updated, err := reg.SetFavorite(p.ID, true)
	if err != nil {
		t.Fatalf("SetFavorite() error: %v", err)
	}
	if !updated.Favorite {
		t.Error("expected favorite flag set")
	}
	if stored, _ := store.Find(p.ID); !stored.Favorite {
		t.Error("favorite flag must be persisted")
	}

	if _, err := reg.SetFavorite("ghost", true); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestStorePersistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "registry.yaml")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Append(models.Project{ID: "x", Path: "/tmp/x", Name: "x"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("registry file not written: %v", err)
	}
	if len(raw) == 0 {
		t.Error("registry file is empty")
	}

	reloaded, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.Find("x"); !ok {
		t.Error("project lost across reload")
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 100 {
		id := ShortID()
		if len(id) != 12 {
			t.Fatalf("ShortID() length = %d, want 12", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

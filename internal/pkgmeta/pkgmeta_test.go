package pkgmeta

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePackageJSON(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"declared name", `{"name": "my-app"}`, "my-app"},
		{"empty name", `{"name": ""}`, ""},
		{"no name field", `{"version": "1.0.0"}`, ""},
		{"malformed json", `{not json`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writePackageJSON(t, dir, tt.content)
			want := tt.want
			if want == "" {
				want = filepath.Base(dir)
			}
			if got := ReadName(dir); got != want {
				t.Errorf("ReadName() = %q, want %q", got, want)
			}
		})
	}
}

func TestReadNameMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := ReadName(dir); got != filepath.Base(dir) {
		t.Errorf("ReadName() = %q, want basename fallback", got)
	}
}

func TestPlugins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePackageJSON(t, dir, `{
		"name": "app",
		"dependencies": {
			"@forge/plugin-router": "latest",
			"lodash": "^4.0.0"
		},
		"devDependencies": {
			"@forge/plugin-linter": "latest",
			"@forge/plugin-babel": "latest",
			"jest": "^29.0.0"
		}
	}`)

	want := []string{"@forge/plugin-babel", "@forge/plugin-linter", "@forge/plugin-router"}
	if got := Plugins(dir); !reflect.DeepEqual(got, want) {
		t.Errorf("Plugins() = %v, want %v", got, want)
	}
}

func TestPluginsMissingFile(t *testing.T) {
	t.Parallel()

	if got := Plugins(t.TempDir()); got != nil {
		t.Errorf("Plugins() = %v, want nil", got)
	}
}

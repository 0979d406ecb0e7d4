// Package pkgmeta reads project metadata out of a package.json file.
package pkgmeta

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const pluginPrefix = "@forge/plugin-"

type packageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func readPackage(dir string) (*packageJSON, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ReadName returns the package name declared in dir's package.json.
// When the file is missing, unreadable, or has no name field, the
// directory basename is used instead.
func ReadName(dir string) string {
	pkg, err := readPackage(dir)
	if err != nil || pkg.Name == "" {
		return filepath.Base(dir)
	}
	return pkg.Name
}

// Plugins lists the plugin package ids declared in dir's package.json,
// sorted. Both dependencies and devDependencies are scanned. A missing
// or malformed package.json yields an empty list.
func Plugins(dir string) []string {
	pkg, err := readPackage(dir)
	if err != nil {
		return nil
	}
	var plugins []string
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies} {
		for name := range deps {
			if strings.HasPrefix(name, pluginPrefix) {
				plugins = append(plugins, name)
			}
		}
	}
	sort.Strings(plugins)
	return plugins
}

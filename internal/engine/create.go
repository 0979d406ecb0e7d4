package engine

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/forgekit/forge/pkg/version"
)

//go:embed all:templates
var templatesFS embed.FS

// templateContext is the data passed to every project template.
type templateContext struct {
	ProjectName    string
	PackageManager string
	Features       []string
	Has            map[string]bool
	UseConfigFiles bool
	ForgeVersion   string
}

// Create generates the project into opts.TargetDir. Files ending in
// .tmpl are rendered with strict missing-key checking and written
// without the suffix; everything else is copied as-is.
func (e *templateEngine) Create(ctx context.Context, opts Options, preset *ResolvedPreset, cb Callbacks) error {
	cb.step(EventCreating)
	cb.log(fmt.Sprintf("Creating project %s from preset %s", opts.ProjectName, preset.Name))

	target := filepath.Clean(opts.TargetDir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	tmplCtx := newTemplateContext(opts, preset)

	cb.step(EventRendering)
	sub, err := fs.Sub(templatesFS, "templates/base")
	if err != nil {
		return fmt.Errorf("open embedded templates: %w", err)
	}

	paths, err := collectTemplatePaths(sub)
	if err != nil {
		return err
	}

	for i, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.renderFile(sub, path, target, tmplCtx); err != nil {
			return err
		}
		cb.log("write " + strings.TrimSuffix(path, ".tmpl"))
		cb.progress(float64(i+1) / float64(len(paths)+2))
	}

	if preset.UseConfigFiles {
		if err := writeConfigFile(target, preset); err != nil {
			return err
		}
		cb.log("write forge.config.yaml")
	}
	cb.progress(float64(len(paths)+1) / float64(len(paths)+2))

	cb.step(EventDepsInstall)
	if err := e.installer(ctx, target, opts.PackageManager, cb.log); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}

	cb.step(EventCompletionHooks)
	cb.progress(1)
	cb.step(EventDone)
	return nil
}

// newTemplateContext builds the render context for a resolved preset.
func newTemplateContext(opts Options, preset *ResolvedPreset) templateContext {
	has := make(map[string]bool, len(builtinFeatures()))
	for _, f := range builtinFeatures() {
		has[f.ID] = false
	}
	for _, id := range preset.Features {
		has[featureIDFor(id)] = true
	}

	pm := opts.PackageManager
	if pm == "" {
		pm = "npm"
	}

	return templateContext{
		ProjectName:    opts.ProjectName,
		PackageManager: pm,
		Features:       preset.Features,
		Has:            has,
		UseConfigFiles: preset.UseConfigFiles,
		ForgeVersion:   version.GetVersion(),
	}
}

// featureIDFor maps a plugin id back to its feature id so templates
// can branch on feature ids regardless of how the preset named them.
func featureIDFor(id string) string {
	for _, f := range builtinFeatures() {
		if f.ID == id {
			return id
		}
		for _, p := range f.Plugins {
			if p == id {
				return f.ID
			}
		}
	}
	return id
}

// collectTemplatePaths returns the sorted file paths of the base
// template tree.
func collectTemplatePaths(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." || entry.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk templates: %w", err)
	}
	return paths, nil
}

// renderFile renders or copies a single template into target.
func (e *templateEngine) renderFile(fsys fs.FS, path, target string, tmplCtx templateContext) error {
	if err := validateTargetPath(target, path); err != nil {
		return err
	}

	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	destRel := path
	if strings.HasSuffix(path, ".tmpl") {
		rendered, err := renderTemplate(path, content, tmplCtx)
		if err != nil {
			return err
		}
		content = rendered
		destRel = strings.TrimSuffix(path, ".tmpl")
	}

	destPath := filepath.Join(target, filepath.FromSlash(destRel))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", destRel, err)
	}
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", destPath, err)
	}
	return nil
}

// renderTemplate executes a template with strict mode (missingkey=error).
func renderTemplate(name string, content []byte, data templateContext) ([]byte, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("template render %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// writeConfigFile persists the resolved preset as a standalone config
// file, the "files" flavor of the useConfigFiles answer.
func writeConfigFile(target string, preset *ResolvedPreset) error {
	data, err := yaml.Marshal(preset)
	if err != nil {
		return fmt.Errorf("marshal config file: %w", err)
	}
	path := filepath.Join(target, "forge.config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// validateTargetPath ensures a template path cannot escape target.
func validateTargetPath(target, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, string(filepath.Separator)+"..") {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}
	return nil
}

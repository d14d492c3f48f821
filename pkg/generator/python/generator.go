// Package python renders the parsed spec into a typed Python client package.
package python

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pygen-dev/pygen/pkg/parser"
)

//go:embed templates/*
var templatesFS embed.FS

// Options configures output placement.
type Options struct {
	// OutDir is the directory the client package is written to. It is
	// created if missing.
	OutDir string
	// ShouldSkip, when set, suppresses writing files whose path relative to
	// OutDir it reports true for.
	ShouldSkip func(relPath string) bool
}

// outputs maps each template to the file it renders to.
var outputs = []struct {
	template string
	target   string
}{
	{"__init__.py.gotmpl", "__init__.py"},
	{"_types.py.gotmpl", "_types.py"},
	{"models.py.gotmpl", "models.py"},
	{"client.py.gotmpl", "client.py"},
	{"py.typed.gotmpl", "py.typed"},
	{"pyproject.toml.gotmpl", "pyproject.toml"},
	{"README.md.gotmpl", "README.md"},
}

// Generate writes the complete client package.
func Generate(opts Options, meta parser.Metadata, models []parser.Model, operations []parser.Operation) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return err
	}

	funcMap := template.FuncMap{
		"byMethod":       groupByMethod,
		"overloadDecl":   overloadDecl,
		"routeEntry":     routeEntry,
		"docstring":      formatDocstring,
		"modelDocstring": modelDocstring,
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}

	data := map[string]any{
		"Meta":       meta,
		"Models":     models,
		"Operations": operations,
	}

	for _, out := range outputs {
		if opts.ShouldSkip != nil && opts.ShouldSkip(out.target) {
			continue
		}
		if err := renderFile(out.template, filepath.Join(opts.OutDir, out.target), funcMap, data); err != nil {
			return err
		}
	}
	return nil
}

// renderFile renders a template file to the target path
func renderFile(templateName, targetPath string, funcMap template.FuncMap, data map[string]any) error {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	file, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", targetPath, err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return nil
}

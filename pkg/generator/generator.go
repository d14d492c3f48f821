// Package generator ties the pipeline together: load and resolve a spec,
// parse it into models and operations, render the client package.
package generator

import (
	"context"
	"fmt"

	"github.com/pygen-dev/pygen/pkg/generator/python"
	"github.com/pygen-dev/pygen/pkg/parser"
	"github.com/pygen-dev/pygen/pkg/spec"
)

// minOpenAPIVersion is the lowest spec version the translation rules are
// written against. Older documents still generate, with a warning.
const minOpenAPIVersion = "3.0.0"

// Options configures one generation run.
type Options struct {
	// Input is the path or URL of the OpenAPI document.
	Input string
	// OutDir is the directory the client package is written to.
	OutDir string
	// Report receives diagnostics; nil discards them.
	Report parser.Reporter
	// ShouldSkip suppresses output files by path relative to OutDir.
	ShouldSkip func(relPath string) bool
	// Loader tunes spec fetching for remote inputs.
	Loader []spec.Option
}

// Summary describes what a generation run produced.
type Summary struct {
	ProjectName string
	Version     string
	Models      int
	Operations  int
}

// Generate runs the whole pipeline.
func Generate(ctx context.Context, opts Options) (*Summary, error) {
	doc, err := spec.Load(ctx, opts.Input, opts.Loader...)
	if err != nil {
		return nil, err
	}

	meta := parser.ExtractMetadata(doc)
	opts.Report.Infof("loaded spec: %s v%s", meta.ProjectName, meta.Version)

	version := doc.String("openapi")
	if version == "" {
		version = "0.0.0"
	}
	if version < minOpenAPIVersion {
		opts.Report.Warnf(
			"OpenAPI version %s is below minimum %s, generated code may not work",
			version, minOpenAPIVersion,
		)
	}

	schemaParser, err := parser.NewSchemaParser(doc, opts.Report)
	if err != nil {
		return nil, fmt.Errorf("parse schemas: %w", err)
	}
	models, err := schemaParser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse schemas: %w", err)
	}

	operationParser, err := parser.NewOperationParser(doc, opts.Report)
	if err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}
	operations, err := operationParser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}

	opts.Report.Infof("parsed %d models, %d operations", len(models), len(operations))

	renderOpts := python.Options{OutDir: opts.OutDir, ShouldSkip: opts.ShouldSkip}
	if err := python.Generate(renderOpts, meta, models, operations); err != nil {
		return nil, fmt.Errorf("render client: %w", err)
	}

	return &Summary{
		ProjectName: meta.ProjectName,
		Version:     meta.Version,
		Models:      len(models),
		Operations:  len(operations),
	}, nil
}

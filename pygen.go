// Package pygen generates type-safe Python clients from OpenAPI
// specifications.
//
// This package offers a simple API for the common case; the pkg/generator,
// pkg/parser, and pkg/spec packages expose the individual pipeline stages
// for advanced scenarios.
//
// Quick Start:
//
//	import "github.com/pygen-dev/pygen"
//
//	// Generate a Python client
//	err := pygen.GenerateClient(
//		context.Background(),
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./sdk",
//	)
package pygen

import (
	"context"

	"github.com/pygen-dev/pygen/pkg/generator"
	"github.com/pygen-dev/pygen/pkg/parser"
)

// GenerateClient generates a Python client package with default settings.
//
// Parameters:
//   - input: path to an OpenAPI specification file or an HTTP(S) URL
//   - outDir: output directory for the generated client
func GenerateClient(ctx context.Context, input, outDir string) error {
	_, err := generator.Generate(ctx, generator.Options{Input: input, OutDir: outDir})
	return err
}

// GenerateClientWithReport is GenerateClient with a diagnostic sink, and
// returns a summary of what was produced.
func GenerateClientWithReport(ctx context.Context, input, outDir string, report parser.Reporter) (*generator.Summary, error) {
	return generator.Generate(ctx, generator.Options{Input: input, OutDir: outDir, Report: report})
}

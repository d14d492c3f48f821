// Package cli implements the command handlers behind the pygen binary.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pygen-dev/pygen/internal/preview"
	"github.com/pygen-dev/pygen/pkg/config"
	"github.com/pygen-dev/pygen/pkg/generator"
	"github.com/pygen-dev/pygen/pkg/parser"
	"github.com/pygen-dev/pygen/pkg/spec"
)

// RunGenerateParams carries the generate command's flags. Flags override the
// config file, which overrides built-in defaults.
type RunGenerateParams struct {
	ConfigPath string
	Spec       string
	OutDir     string
	Verbose    bool
	Yes        bool

	// Confirm reads the user's answer to the security prompt; defaults to
	// stdin.
	Confirm io.Reader
}

const securityWarning = `
---------------------------- Security Notice ----------------------------
Code generators can execute malicious payloads from untrusted OpenAPI
specs. Example: a schema named "User:\nimport os; os.system(...)" could
inject code into the generated client.

This generator sanitizes inputs, but the safest approach is to review the
spec yourself.

Tip: use 'pygen preview <spec>' to inspect a spec before generating.
-------------------------------------------------------------------------`

// RunGenerate drives a full generation run for the CLI.
func RunGenerate(p RunGenerateParams) error {
	cfg := &config.Config{}
	if p.ConfigPath != "" {
		loaded, err := config.Load(p.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	input := p.Spec
	if input == "" {
		input = cfg.Spec
	}
	if input == "" {
		return errors.New("a spec path or URL is required (argument or config.spec)")
	}
	outDir := p.OutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	if outDir == "" {
		outDir = "./sdk"
	}
	verbose := p.Verbose || cfg.Verbose

	if !p.Yes && !cfg.SkipConfirm {
		fmt.Println(securityWarning)
		fmt.Printf("\nAbout to generate client from: %s\n", input)
		in := p.Confirm
		if in == nil {
			in = os.Stdin
		}
		if !confirm(in, "I trust this spec and want to proceed [y/N]: ") {
			return errors.New("aborted")
		}
	}

	fmt.Println("Preparing to generate client...")
	fmt.Printf("  - Source: %s\n", input)
	fmt.Printf("  - Output: %s\n", outDir)

	var loaderOpts []spec.Option
	if cfg.HTTP.TimeoutSeconds > 0 {
		loaderOpts = append(loaderOpts, spec.WithHTTPTimeout(cfg.HTTP.Timeout()))
	}
	if cfg.HTTP.MaxRetries > 0 {
		loaderOpts = append(loaderOpts, spec.WithMaxRetries(cfg.HTTP.MaxRetries))
	}

	summary, err := generator.Generate(context.Background(), generator.Options{
		Input:      input,
		OutDir:     outDir,
		Report:     NewLogReporter(verbose),
		ShouldSkip: cfg.ShouldExcludeFile,
		Loader:     loaderOpts,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nSuccessfully generated %s v%s in %s (%d models, %d operations)\n",
		summary.ProjectName, summary.Version, outDir, summary.Models, summary.Operations)
	return nil
}

// RunPreview loads a spec and serves it with Swagger UI and Redoc.
func RunPreview(input string, port int) error {
	doc, err := spec.Load(context.Background(), input)
	if err != nil {
		return err
	}
	return preview.Serve(doc, port)
}

// RunValidate loads and validates a spec without generating anything.
func RunValidate(input string) error {
	if _, err := spec.Load(context.Background(), input); err != nil {
		return err
	}
	fmt.Printf("%s is a valid OpenAPI document\n", input)
	return nil
}

// NewLogReporter adapts diagnostics onto the standard logger. Debug
// diagnostics are dropped unless verbose is set.
func NewLogReporter(verbose bool) parser.Reporter {
	return func(d parser.Diagnostic) {
		if d.Severity == parser.SeverityDebug && !verbose {
			return
		}
		log.Printf("[%s] %s", d.Severity, d.Message)
	}
}

func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

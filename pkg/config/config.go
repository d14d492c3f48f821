package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds generation settings read from a pygen.yaml file. Command-line
// flags take precedence over values declared here.
type Config struct {
	// Spec is the path or URL of the OpenAPI document.
	Spec string `yaml:"spec"`
	// OutDir is the directory the generated client is written to.
	OutDir string `yaml:"outDir"`
	// Verbose enables debug diagnostics.
	Verbose bool `yaml:"verbose"`
	// SkipConfirm suppresses the security confirmation prompt.
	SkipConfirm bool `yaml:"skipConfirm"`
	// Exclude lists output files (relative to outDir) that must not be
	// written, e.g. a hand-maintained README.md.
	Exclude []string `yaml:"exclude"`
	// HTTP tunes spec fetching for remote inputs.
	HTTP HTTP `yaml:"http"`
}

// HTTP tunes remote spec fetching.
type HTTP struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
	MaxRetries     int `yaml:"maxRetries"`
}

// Timeout returns the configured HTTP timeout, or zero when unset.
func (h HTTP) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// ShouldExcludeFile reports whether a generated file should be skipped.
// Entries match a file path relative to the output directory, or a whole
// directory when the entry names one.
func (c *Config) ShouldExcludeFile(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, exclude := range c.Exclude {
		normalized := strings.TrimSuffix(filepath.ToSlash(exclude), "/")
		if normalized == "" {
			continue
		}
		if relPath == normalized || strings.HasPrefix(relPath, normalized+"/") {
			return true
		}
	}
	return false
}

// Load reads configuration from a YAML file. Relative paths are resolved
// against the working directory; an http(s) spec URL is kept as-is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Spec == "" {
		return nil, errors.New("config.spec is required")
	}
	if cfg.OutDir != "" && !filepath.IsAbs(cfg.OutDir) {
		abs, _ := filepath.Abs(cfg.OutDir)
		cfg.OutDir = abs
	}
	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep URL as-is
	} else if !filepath.IsAbs(cfg.Spec) {
		abs, _ := filepath.Abs(cfg.Spec)
		cfg.Spec = abs
	}
	return &cfg, nil
}

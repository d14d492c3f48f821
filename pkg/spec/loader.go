package spec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/pygen-dev/pygen/pkg/document"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
)

// Error is a structured loader error carrying the input it relates to.
type Error struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Cause    error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }

// Load reads an OpenAPI v3 document from a filesystem path or an http(s) URL,
// validates it, and returns it with every internal reference expanded. The
// returned document preserves the declaration order of the source.
func Load(ctx context.Context, input string, opts ...Option) (*document.Map, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &Error{Code: InputError, Message: "spec: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	location := input
	var raw []byte

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		fetched, fetchErr := fetchWithRetry(ctx, input, settings)
		if fetchErr != nil {
			return nil, &Error{
				Code:     NetworkError,
				Message:  fmt.Sprintf("fetch %s: %v", input, fetchErr),
				Location: input,
				Cause:    fetchErr,
			}
		}
		raw = fetched
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &Error{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
		}
		location = abs
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, &Error{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
		}
		raw = data
	}

	return LoadData(ctx, raw, location)
}

// LoadData validates raw spec bytes and returns the resolved document.
// location only labels errors.
func LoadData(ctx context.Context, raw []byte, location string) (*document.Map, error) {
	if err := validate(ctx, raw); err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Location = location
			return nil, e
		}
		return nil, err
	}

	decoded, err := document.Decode(raw)
	if err != nil {
		return nil, &Error{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Location: location, Cause: err}
	}
	doc, ok := decoded.(*document.Map)
	if !ok {
		return nil, &Error{Code: ParseError, Message: "spec: document root is not a mapping", Location: location}
	}

	resolved, err := Resolve(doc)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Location = location
			return nil, e
		}
		return nil, err
	}
	return resolved, nil
}

// validate runs the spec through kin-openapi as a structural gate before any
// translation happens. The validated model is discarded afterwards; the
// order-preserving document is the source of truth downstream.
func validate(ctx context.Context, raw []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return &Error{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Cause: err}
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return &Error{Code: ValidationError, Message: fmt.Sprintf("validate spec: %v", err), Cause: err}
	}
	return nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < 300 {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			return data, readErr
		}
		if err != nil {
			lastErr = err
		} else if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
		} else {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

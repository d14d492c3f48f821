package spec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pygen-dev/pygen/pkg/document"
)

const petstoreV3 = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	var se *Error
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var se *Error
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte(petstoreV3), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := doc.String("openapi"); got != "3.0.3" {
		t.Errorf("openapi = %q", got)
	}

	// The array item reference comes back expanded.
	items, ok := document.Dig(doc,
		"paths", "/pets", "get", "responses", "200",
		"content", "application/json", "schema", "items")
	if !ok {
		t.Fatal("response schema items missing")
	}
	itemsMap, ok := items.(*document.Map)
	if !ok || itemsMap.Has("$ref") {
		t.Fatalf("items = %v, want expanded schema", items)
	}
	if got := itemsMap.String("type"); got != "object" {
		t.Errorf("items type = %q", got)
	}
}

func TestLoad_FromURL(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(petstoreV3))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/spec.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	title, _ := document.Dig(doc, "info", "title")
	if title != "Petstore" {
		t.Errorf("title = %v", title)
	}
}

func TestLoad_RetriesTransientErrors(t *testing.T) {
	t.Parallel()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(petstoreV3))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL,
		WithMaxRetries(3), WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	// Unused port to provoke a quick failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/spec.yaml",
		WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(time.Millisecond))
	if err == nil {
		t.Fatal("expected network error")
	}
	var se *Error
	if !errors.As(err, &se) || se.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoadData_ParseError(t *testing.T) {
	t.Parallel()
	_, err := LoadData(context.Background(), []byte("{not yaml: ["), "inline")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var se *Error
	if !errors.As(err, &se) || se.Code != ParseError {
		t.Fatalf("expected ParseError, got %v (%T)", err, err)
	}
	if se.Location != "inline" {
		t.Errorf("location = %q", se.Location)
	}
}

func TestLoadData_ValidationError(t *testing.T) {
	t.Parallel()
	// Structurally valid YAML, but not a valid OpenAPI document.
	_, err := LoadData(context.Background(), []byte("openapi: 3.0.3\npaths: {}\n"), "inline")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var se *Error
	if !errors.As(err, &se) || se.Code != ValidationError {
		t.Fatalf("expected ValidationError, got %v (%T)", err, err)
	}
}

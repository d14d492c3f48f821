package parser

import (
	"strings"
	"testing"

	"github.com/pygen-dev/pygen/pkg/document"
)

func mustDecode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return v
}

func newTestTranslator(t *testing.T, specYAML string) (*Translator, *Collector) {
	t.Helper()
	doc := document.NewMap()
	if specYAML != "" {
		doc = mustDecode(t, specYAML).(*document.Map)
	}
	c := &Collector{}
	lookup, err := NewSchemaLookup(doc, c.Report())
	if err != nil {
		t.Fatalf("NewSchemaLookup: %v", err)
	}
	return NewTranslator(lookup, c.Report()), c
}

func TestTranslateBooleanSchemas(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	if got := tr.RenderType(nil); got != "Any" {
		t.Errorf("translate(nil) = %q, expected Any", got)
	}
	if got := tr.RenderType(true); got != "Any" {
		t.Errorf("translate(true) = %q, expected Any", got)
	}
	if got := tr.RenderType(document.NewMap()); got != "Any" {
		t.Errorf("translate({}) = %q, expected Any", got)
	}
	if got := tr.RenderType(false); got != "Never" {
		t.Errorf("translate(false) = %q, expected Never", got)
	}
}

func TestTranslatePrimitives(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	tests := []struct {
		schema   string
		expected string
	}{
		{"type: string", "str"},
		{"type: string\nformat: binary", "bytes"},
		{"type: integer", "int"},
		{"type: number", "float"},
		{"type: boolean", "bool"},
		{"type: \"null\"", "None"},
		{"type: string\nnullable: true", "str | None"},
		{"type: array\nitems:\n  type: integer", "list[int]"},
		{"type: object\nadditionalProperties:\n  type: string", "dict[str, str]"},
	}

	for _, test := range tests {
		got := tr.RenderType(mustDecode(t, test.schema))
		if got != test.expected {
			t.Errorf("translate(%q) = %q, expected %q", test.schema, got, test.expected)
		}
	}
}

func TestTranslateEnum(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "enum:\n  - asc\n  - desc\n"))
	if got != `Literal["asc", "desc"]` {
		t.Errorf("string enum = %q", got)
	}

	got = tr.RenderType(mustDecode(t, "enum:\n  - 1\n  - two\n  - true\n"))
	if got != `Literal[1, "two", True]` {
		t.Errorf("mixed enum = %q", got)
	}
}

func TestTranslateUnionOrderIndependent(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	a := tr.RenderType(mustDecode(t, "oneOf:\n  - type: string\n  - type: integer\n"))
	b := tr.RenderType(mustDecode(t, "oneOf:\n  - type: integer\n  - type: string\n"))
	if a != b {
		t.Errorf("union rendering order-dependent: %q vs %q", a, b)
	}
	if a != "int | str" {
		t.Errorf("union = %q, expected %q", a, "int | str")
	}
}

func TestTranslateUnionDeduplicates(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "oneOf:\n  - type: string\n  - type: string\n  - type: integer\n"))
	if got != "int | str" {
		t.Errorf("union = %q, expected deduplicated %q", got, "int | str")
	}
}

func TestTranslateAnyOfDegrades(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "anyOf:\n  - type: string\n"))
	if got != "Any" {
		t.Errorf("anyOf = %q, expected Any", got)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("anyOf degradation should emit a warning")
	}
}

func TestTranslateAllOf(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "allOf:\n  - type: string\n"))
	if got != "str" {
		t.Errorf("single allOf = %q, expected str", got)
	}

	got = tr.RenderType(mustDecode(t, "allOf:\n  - type: string\n  - type: integer\n"))
	if got != "Any" {
		t.Errorf("multi allOf = %q, expected Any", got)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("multi-member allOf should emit a warning")
	}
}

func TestTranslateMultiType(t *testing.T) {
	tr, _ := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "type:\n  - string\n  - integer\n"))
	if got != "int | str" {
		t.Errorf("multi-type = %q, expected %q", got, "int | str")
	}

	// The null member is discarded from the rendered union; nullability is
	// only reflected by the schema's own nullable marker.
	got = tr.RenderType(mustDecode(t, "type:\n  - string\n  - \"null\"\n"))
	if got != "str" {
		t.Errorf("multi-type with null = %q, expected %q", got, "str")
	}
}

func TestTranslateBareObjectWarns(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "type: object\n"))
	if got != "dict[str, Any]" {
		t.Errorf("bare object = %q, expected dict[str, Any]", got)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("bare object should emit a warning")
	}
}

func TestTranslateArrayWithoutItems(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "type: array\n"))
	if got != "list[Any]" {
		t.Errorf("array without items = %q, expected list[Any]", got)
	}
	if c.Count(SeverityDebug) == 0 {
		t.Error("missing items should emit a debug diagnostic")
	}
}

func TestTranslateUnknownType(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	got := tr.RenderType(mustDecode(t, "type: fancy\n"))
	if got != "Any" {
		t.Errorf("unknown type = %q, expected Any", got)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("unknown type should emit a warning")
	}
}

func TestTranslateResolvesModelReference(t *testing.T) {
	spec := `
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
      required:
        - name
`
	tr, _ := newTestTranslator(t, spec)

	// An expansion-produced copy with permuted key order must still resolve.
	copy := mustDecode(t, `
required:
  - name
properties:
  name:
    type: string
type: object
`)
	if got := tr.RenderType(copy); got != "Pet" {
		t.Errorf("reference copy = %q, expected Pet", got)
	}
}

func TestTranslateDeepNestingDegrades(t *testing.T) {
	tr, c := newTestTranslator(t, "")

	// Anonymous nesting far beyond anything a real spec declares; the
	// lookup cannot short-circuit it, only the depth guard can.
	inner := document.NewMap()
	inner.Set("type", "string")
	schema := any(inner)
	for i := 0; i < maxTranslateDepth*3; i++ {
		wrap := document.NewMap()
		wrap.Set("type", "array")
		wrap.Set("items", schema)
		schema = wrap
	}

	got := tr.RenderType(schema)
	if !strings.Contains(got, "Any") {
		t.Errorf("deeply nested schema = %q, expected degraded Any element", got)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("depth guard should emit a warning")
	}
}

func TestRenderNullableSuppression(t *testing.T) {
	anyNode := NewTypeNode("Any")
	anyNode.Nullable = true
	if got := anyNode.Render(); got != "Any" {
		t.Errorf("nullable Any = %q, expected Any", got)
	}

	never := NewTypeNode("Never")
	never.Nullable = true
	if got := never.Render(); got != "Never" {
		t.Errorf("nullable Never = %q, expected Never", got)
	}

	union := NewTypeNode("Union", NewTypeNode("str"), NewTypeNode("None"))
	union.Nullable = true
	if got := union.Render(); got != "str" {
		t.Errorf("union with explicit None = %q, expected str", got)
	}
}

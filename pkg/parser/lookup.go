package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/pygen-dev/pygen/pkg/document"
)

// SchemaLookup resolves schema subtrees back to the names under which they
// were registered in components/schemas. Reference expansion copies a named
// schema everywhere it is used; hashing the canonical (key-order-normalized)
// serialization matches any such copy back to its original name.
//
// Hash collisions are theoretically possible and ignored: SHA-256 over the
// canonical form makes an accidental collision vanishingly unlikely at the
// scale of an API spec.
type SchemaLookup struct {
	byHash map[string]string
}

// NewSchemaLookup builds the lookup table from a resolved spec. Schema names
// pass through identifier sanitization; an unusable name aborts the build.
func NewSchemaLookup(doc *document.Map, report Reporter) (*SchemaLookup, error) {
	l := &SchemaLookup{byHash: map[string]string{}}

	schemas, ok := document.Dig(doc, "components", "schemas")
	if ok {
		if m, isMap := schemas.(*document.Map); isMap {
			for _, name := range m.Keys() {
				schema, _ := m.Get(name)
				sanitized, err := SanitizeIdentifier(name)
				if err != nil {
					return nil, fmt.Errorf("schema %q: %w", name, err)
				}
				if h := schemaHash(schema); h != "" {
					l.byHash[h] = sanitized
				}
			}
		}
	}

	report.Debugf("built schema lookup with %d entries", len(l.byHash))
	return l, nil
}

// Get returns the model name registered for the given schema subtree.
func (l *SchemaLookup) Get(schema any) (string, bool) {
	h := schemaHash(schema)
	if h == "" {
		return "", false
	}
	name, ok := l.byHash[h]
	return name, ok
}

// Len returns the number of registered schemas.
func (l *SchemaLookup) Len() int { return len(l.byHash) }

// schemaHash returns a stable content hash of a schema subtree. document.Map
// serializes with sorted keys, so independently-expanded copies of the same
// schema hash identically regardless of key order.
func schemaHash(schema any) string {
	data, err := gojson.Marshal(schema)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

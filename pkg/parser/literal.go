package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
)

// PythonLiteral renders a deserialized spec value as a Python literal
// expression. Strings pass through string-literal sanitization, so default
// values from an untrusted document cannot break out of their quoting.
func PythonLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return `"` + SanitizeString(t) + `"`
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, PythonLiteral(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *document.Map:
		parts := make([]string, 0, t.Len())
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			parts = append(parts, `"`+SanitizeString(k)+`": `+PythonLiteral(val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		// Unknown scalar kinds stringify through their quoted form.
		return `"` + SanitizeString(fmt.Sprint(t)) + `"`
	}
}

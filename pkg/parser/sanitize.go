// Sanitization of spec-derived text before it is embedded in generated
// Python source. Every name, enum value, and description in an OpenAPI
// document is attacker-controlled; anything emitted verbatim is a code
// injection vector.
//
// See: CVE-2020-15142, GHSA-9x4c-63pf-525f

package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
)

// ErrEmptyIdentifier is returned when no valid identifier can be derived
// from the input. This aborts generation: a nameless model or parameter has
// no representation in the output.
var ErrEmptyIdentifier = errors.New("cannot derive identifier from value")

// pythonKeywords are the hard keywords of the target language. A sanitized
// identifier must never equal one of these.
var pythonKeywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
}

// pythonBuiltins are builtin names that generated identifiers would shadow.
// "id" is deliberately absent: it is ubiquitous in APIs and shadowing it in
// a generated signature is harmless.
var pythonBuiltins = []string{
	"abs", "aiter", "all", "anext", "any", "ascii", "bin", "bool",
	"breakpoint", "bytearray", "bytes", "callable", "chr", "classmethod",
	"compile", "complex", "copyright", "credits", "delattr", "dict", "dir",
	"divmod", "enumerate", "eval", "exec", "exit", "filter", "float",
	"format", "frozenset", "getattr", "globals", "hasattr", "hash", "help",
	"hex", "input", "int", "isinstance", "issubclass", "iter", "len",
	"license", "list", "locals", "map", "max", "memoryview", "min", "next",
	"object", "oct", "open", "ord", "pow", "print", "property", "quit",
	"range", "repr", "reversed", "round", "set", "setattr", "slice",
	"sorted", "staticmethod", "str", "sum", "super", "tuple", "type",
	"vars", "zip",
	"ArithmeticError", "AssertionError", "AttributeError", "BaseException",
	"BufferError", "BytesWarning", "DeprecationWarning", "EOFError",
	"Ellipsis", "EnvironmentError", "Exception", "FileExistsError",
	"FileNotFoundError", "FloatingPointError", "GeneratorExit", "IOError",
	"ImportError", "IndentationError", "IndexError", "InterruptedError",
	"KeyError", "KeyboardInterrupt", "LookupError", "MemoryError",
	"NameError", "NotADirectoryError", "NotImplemented",
	"NotImplementedError", "OSError", "OverflowError", "PermissionError",
	"RecursionError", "ReferenceError", "RuntimeError", "RuntimeWarning",
	"StopAsyncIteration", "StopIteration", "SyntaxError", "SyntaxWarning",
	"SystemError", "SystemExit", "TabError", "TimeoutError", "TypeError",
	"UnboundLocalError", "UnicodeDecodeError", "UnicodeEncodeError",
	"UnicodeError", "UnicodeWarning", "UserWarning", "ValueError",
	"Warning", "ZeroDivisionError",
}

// reservedWords is the combined deny list for identifier mode.
var reservedWords = buildReservedWords()

func buildReservedWords() map[string]struct{} {
	out := make(map[string]struct{}, len(pythonKeywords)+len(pythonBuiltins)+8)
	for _, w := range pythonKeywords {
		out[w] = struct{}{}
	}
	for _, w := range pythonBuiltins {
		out[w] = struct{}{}
	}
	for _, w := range []string{"self", "cls", "true", "false", "null", "undefined"} {
		out[w] = struct{}{}
	}
	return out
}

var (
	identInvalid   = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SanitizeIdentifier converts an arbitrary string into a valid Python
// identifier. Characters outside [A-Za-z0-9_] become underscores, runs of
// underscores collapse, and the result is prefixed or suffixed as needed so
// it is never empty (error), never starts with a digit, and never equals a
// reserved word.
func SanitizeIdentifier(value string) (string, error) {
	sanitized := identInvalid.ReplaceAllString(value, "_")
	sanitized = underscoreRuns.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, value)
	}

	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	if _, reserved := reservedWords[sanitized]; reserved {
		sanitized += "_"
	}

	return sanitized, nil
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// SanitizeString escapes a string for safe inclusion inside a quoted Python
// string literal.
func SanitizeString(value string) string {
	return stringEscaper.Replace(value)
}

var docEscaper = strings.NewReplacer(
	`"""`, `\"\"\"`,
	`'''`, `\'\'\'`,
)

// SanitizeDoc escapes only the triple-quote delimiters so a string is safe
// inside a docstring. Other characters are left untouched.
func SanitizeDoc(value string) string {
	return docEscaper.Replace(value)
}

// SafeBool extracts a boolean from a schema mapping without evaluating the
// stored value. Non-boolean values coerce by emptiness, matching the loose
// truthiness that real-world specs rely on.
func SafeBool(m *document.Map, key string, fallback bool) bool {
	v, ok := m.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case *document.Map:
		return t.Len() > 0
	default:
		return true
	}
}

// SafeStatus parses a response-code key into a StatusCode. The literal
// "default" and any other non-integer key return ok=false rather than an
// error; callers skip those entries.
func SafeStatus(code string) (StatusCode, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0, false
	}
	return StatusCode(n), true
}

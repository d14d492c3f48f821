package python

import (
	"fmt"
	"strings"

	"github.com/pygen-dev/pygen/pkg/parser"
)

// methodOps groups the operations sharing one HTTP method.
type methodOps struct {
	Method     string
	Operations []parser.Operation
}

var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// groupByMethod returns one group per supported HTTP method, empty groups
// included so the client always exposes every verb.
func groupByMethod(operations []parser.Operation) []methodOps {
	grouped := map[string][]parser.Operation{}
	for _, op := range operations {
		grouped[op.Method] = append(grouped[op.Method], op)
	}
	out := make([]methodOps, 0, len(methodOrder))
	for _, method := range methodOrder {
		out = append(out, methodOps{Method: method, Operations: grouped[method]})
	}
	return out
}

// overloadDecl builds the typed overload signature for one operation. All
// arguments are keyword-only so grouping never fights Python's
// defaults-after-required rule.
func overloadDecl(op parser.Operation) string {
	parts := []string{"self", fmt.Sprintf("path: Literal[%q]", op.Path)}
	if len(op.Args) > 0 {
		parts = append(parts, "*")
	}
	for _, a := range op.Args {
		decl := a.Name + ": " + a.Type
		switch a.Default {
		case parser.DefaultRequired:
			// no default, the caller must pass it
		case parser.DefaultUnset:
			decl += " = UNSET"
		default:
			decl += " = " + a.Default
		}
		parts = append(parts, decl)
	}
	return fmt.Sprintf("def %s(%s) -> Response[%s, %s]:",
		op.Method, strings.Join(parts, ", "),
		op.Responses.SuccessType, op.Responses.ErrorType)
}

// routeEntry renders the runtime routing table entry for one operation: how
// each keyword argument maps onto the request. Only non-empty sections are
// emitted.
func routeEntry(op parser.Operation) string {
	var paths, required, defaults []string
	locations := map[parser.Location][]string{}
	var body *parser.Arg

	for i := range op.Args {
		a := op.Args[i]
		switch a.In {
		case parser.LocationPath:
			paths = append(paths, fmt.Sprintf("%q", a.Name))
		case parser.LocationBody:
			body = &op.Args[i]
		default:
			locations[a.In] = append(locations[a.In], fmt.Sprintf("%q: %q", a.Name, a.APIName))
		}
		switch a.Default {
		case parser.DefaultRequired:
			required = append(required, fmt.Sprintf("%q", a.Name))
		case parser.DefaultUnset:
		default:
			defaults = append(defaults, fmt.Sprintf("%q: %s", a.Name, a.Default))
		}
	}

	var parts []string
	if len(paths) > 0 {
		parts = append(parts, `"path": [`+strings.Join(paths, ", ")+`]`)
	}
	for _, loc := range []parser.Location{parser.LocationQuery, parser.LocationHeader, parser.LocationCookie} {
		if entries := locations[loc]; len(entries) > 0 {
			parts = append(parts, fmt.Sprintf("%q: {%s}", string(loc), strings.Join(entries, ", ")))
		}
	}
	if body != nil {
		kind := strings.TrimSuffix(body.Name, "_body")
		parts = append(parts, fmt.Sprintf(`"body": (%q, %q)`, body.Name, kind))
	}
	if len(required) > 0 {
		parts = append(parts, `"required": [`+strings.Join(required, ", ")+`]`)
	}
	if len(defaults) > 0 {
		parts = append(parts, `"defaults": {`+strings.Join(defaults, ", ")+`}`)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatDocstring renders a docstring at the given indentation. The first
// line carries the opening quotes; single-line docs close on the same line.
func formatDocstring(doc, indent string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	return docstringLines(strings.Split(doc, "\n"), indent)
}

func docstringLines(lines []string, indent string) string {
	if len(lines) == 1 {
		return `"""` + lines[0] + `"""`
	}
	var b strings.Builder
	b.WriteString(`"""` + lines[0] + "\n")
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + `"""`)
	return b.String()
}

// modelDocstring renders a model docstring with an Attributes section for
// every property that has something to say.
func modelDocstring(m parser.Model, indent string) string {
	var attrs []string
	for _, p := range m.Properties {
		var notes []string
		if d := strings.Join(strings.Fields(p.Doc), " "); d != "" {
			notes = append(notes, d)
		}
		if p.ReadOnly {
			notes = append(notes, "Read-only.")
		}
		if p.WriteOnly {
			notes = append(notes, "Write-only.")
		}
		if p.Default != "" {
			notes = append(notes, "Defaults to "+p.Default+".")
		}
		if len(notes) > 0 {
			attrs = append(attrs, p.Name+": "+strings.Join(notes, " "))
		}
	}

	doc := strings.TrimSpace(m.Doc)
	if doc == "" && len(attrs) == 0 {
		return ""
	}

	var lines []string
	if doc != "" {
		lines = append(lines, strings.Split(doc, "\n")...)
	}
	if len(attrs) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Attributes:")
		for _, a := range attrs {
			lines = append(lines, "    "+a)
		}
	}
	return docstringLines(lines, indent)
}

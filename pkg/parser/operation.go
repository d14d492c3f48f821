package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
	"github.com/pygen-dev/pygen/pkg/utils"
)

// validMethods are the HTTP methods an operation may use. Other path-item
// keys (parameters, description, extensions) are skipped.
var validMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

// validLocations are the parameter locations the generator supports.
var validLocations = map[string]struct{}{
	"path": {}, "query": {}, "header": {}, "cookie": {},
}

// bodyContentTypes is the priority order for request-body content types,
// paired with the argument name each content kind conventionally gets.
var bodyContentTypes = []struct {
	mime    string
	argName string
}{
	{"application/json", "json"},
	{"application/x-www-form-urlencoded", "data"},
	{"multipart/form-data", "files"},
	{"application/octet-stream", "content"},
}

// locationWrappers mark non-path, non-body arguments so the generated
// runtime can route them into the request.
var locationWrappers = map[Location]string{
	LocationQuery:  "Query",
	LocationHeader: "Header",
	LocationCookie: "Cookie",
}

// OperationParser turns the paths of a resolved spec into operations.
type OperationParser struct {
	doc        *document.Map
	translator *Translator
	report     Reporter
}

// NewOperationParser builds a parser over a resolved spec.
func NewOperationParser(doc *document.Map, report Reporter) (*OperationParser, error) {
	lookup, err := NewSchemaLookup(doc, report)
	if err != nil {
		return nil, err
	}
	return &OperationParser{
		doc:        doc,
		translator: NewTranslator(lookup, report),
		report:     report,
	}, nil
}

// Parse returns every operation in the spec, paths and methods in
// declaration order.
func (p *OperationParser) Parse() ([]Operation, error) {
	var operations []Operation

	paths, ok := p.doc.ChildMap("paths")
	if !ok {
		return operations, nil
	}

	for _, path := range paths.Keys() {
		p.report.Debugf("parsing path %s", path)

		pathItem, ok := paths.ChildMap(path)
		if !ok {
			p.report.Warnf("path %s is not an object, skipping", path)
			continue
		}

		// Parameters declared at path level apply to every operation.
		pathParams := pathItem.Slice("parameters")

		for _, key := range pathItem.Keys() {
			method := strings.ToUpper(key)
			if _, valid := validMethods[method]; !valid {
				p.report.Debugf("skipping non-operation key %s in path %s", key, path)
				continue
			}
			opData, ok := pathItem.ChildMap(key)
			if !ok {
				p.report.Warnf("operation %s %s is not an object, skipping", method, path)
				continue
			}

			rawParams := append(append([]any{}, pathParams...), opData.Slice("parameters")...)
			params, err := p.parseParameters(rawParams)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			body := p.parseRequestBody(opData)

			responses, _ := opData.Get("responses")

			operations = append(operations, Operation{
				Method:    method,
				Path:      utils.NormalizePath(SanitizeString(path)),
				Args:      p.buildArgs(params, body),
				Responses: p.parseResponses(responses),
				Doc:       SanitizeDoc(synthesizeDoc(opData, pathItem)),
			})
		}
	}

	return operations, nil
}

func (p *OperationParser) parseParameters(params []any) ([]Arg, error) {
	var parsed []Arg

	for _, raw := range params {
		param, ok := raw.(*document.Map)
		if !ok {
			p.report.Warnf("parameter entry is not an object, skipping")
			continue
		}

		name := param.String("name")
		in := param.String("in")
		if _, valid := validLocations[in]; !valid {
			p.report.Warnf(
				"skipping parameter %s with unsupported location %q (supported: path, query, header, cookie)",
				name, in,
			)
			continue
		}

		pyName, err := SanitizeIdentifier(utils.ToSnakeCase(name))
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}

		schema, _ := param.Get("schema")
		required := SafeBool(param, "required", false)

		// Default state: a declared schema default becomes a literal; a
		// required parameter must be supplied; anything else is omitted from
		// the request when not given.
		var defaultState string
		if m, ok := schema.(*document.Map); ok && m.Has("default") {
			v, _ := m.Get("default")
			defaultState = PythonLiteral(v)
		} else if required {
			defaultState = DefaultRequired
		} else {
			defaultState = DefaultUnset
		}

		parsed = append(parsed, Arg{
			Name:     pyName,
			APIName:  name,
			Type:     p.translator.RenderType(schema),
			In:       Location(in),
			Required: required,
			Default:  defaultState,
			Doc:      SanitizeDoc(param.String("description")),
		})
	}

	return parsed, nil
}

func (p *OperationParser) parseRequestBody(op *document.Map) *Arg {
	body, ok := op.ChildMap("requestBody")
	if !ok {
		return nil
	}

	content, _ := body.ChildMap("content")
	required := SafeBool(body, "required", false)
	defaultState := DefaultUnset
	if required {
		defaultState = DefaultRequired
	}
	doc := body.String("description")
	if doc == "" {
		doc = "Request body."
	}
	doc = SanitizeDoc(doc)

	for _, ct := range bodyContentTypes {
		media, ok := content.ChildMap(ct.mime)
		if !ok {
			continue
		}
		schema, _ := media.Get("schema")
		return &Arg{
			Name:     ct.argName,
			In:       LocationBody,
			Type:     p.translator.RenderType(schema),
			Required: required,
			Default:  defaultState,
			Doc:      doc,
		}
	}

	supported := make([]string, 0, len(bodyContentTypes))
	for _, ct := range bodyContentTypes {
		supported = append(supported, ct.mime)
	}
	p.report.Warnf(
		"request body has unsupported content type, only supported types are: %s",
		strings.Join(supported, ", "),
	)
	return &Arg{
		Name:     "data",
		In:       LocationBody,
		Type:     "Any",
		Required: required,
		Default:  defaultState,
		Doc:      doc,
	}
}

// buildArgs merges parameters and body into one argument list: the body is
// renamed on a name collision, non-path arguments gain their location
// wrapper, and the list is grouped path, body, query, header, cookie with
// declaration order preserved inside each group.
func (p *OperationParser) buildArgs(params []Arg, body *Arg) []Arg {
	args := append([]Arg{}, params...)

	if body != nil {
		taken := map[string]struct{}{}
		for _, a := range args {
			taken[a.Name] = struct{}{}
		}
		if _, collides := taken[body.Name]; collides {
			renamed := body.Name + "_body"
			p.report.Infof("renamed colliding body argument %s to %s", body.Name, renamed)
			body.Name = renamed
		}
		args = append(args, *body)
	}

	for i := range args {
		if wrapper, ok := locationWrappers[args[i].In]; ok {
			args[i].Type = wrapper + "[" + args[i].Type + "]"
		}
	}

	sort.SliceStable(args, func(i, j int) bool {
		return argOrder[args[i].In] < argOrder[args[j].In]
	})
	return args
}

// responseEntry is one declared status with its chosen content shape.
type responseEntry struct {
	status StatusCode
	kind   string // "json", "bytes", or "none"
	schema any    // set only for json
}

func (p *OperationParser) parseResponses(raw any) Responses {
	var entries []responseEntry

	if responses, ok := raw.(*document.Map); ok {
		for _, code := range responses.Keys() {
			// The "default" entry is ambiguous between success and error.
			if code == "default" {
				p.report.Debugf("skipping 'default' response, use a numeric status code to include it")
				continue
			}
			status, ok := SafeStatus(code)
			if !ok {
				p.report.Warnf("skipping response with invalid status code %q", code)
				continue
			}

			resp, ok := responses.ChildMap(code)
			if !ok {
				p.report.Warnf("response %s is not an object, skipping", code)
				continue
			}
			content, _ := resp.ChildMap("content")

			// Content priority per status: JSON > binary > no content.
			if schema, ok := document.Dig(content, "application/json", "schema"); ok && truthy(schema) {
				entries = append(entries, responseEntry{status: status, kind: "json", schema: schema})
			} else if content.Has("application/octet-stream") {
				entries = append(entries, responseEntry{status: status, kind: "bytes"})
			} else if content.Len() == 0 {
				entries = append(entries, responseEntry{status: status, kind: "none"})
			} else {
				p.report.Warnf(
					"response %s has no supported content type (supported: application/json, application/octet-stream)",
					code,
				)
			}
		}
	}

	return Responses{
		SuccessType: p.successType(entries),
		ErrorType:   p.errorType(entries),
	}
}

// successType aggregates all 2xx entries into a union: no content maps to
// None, binary to bytes, JSON to the translated schema type.
func (p *OperationParser) successType(entries []responseEntry) string {
	var types []string
	for _, e := range entries {
		if !e.status.IsSuccess() {
			continue
		}
		switch e.kind {
		case "none":
			types = append(types, "None")
		case "bytes":
			types = append(types, "bytes")
		default:
			types = append(types, p.translator.RenderType(e.schema))
		}
	}
	return unionOf(types)
}

// errorType aggregates 4xx/5xx entries. Binary and schema-less error bodies
// have no useful typed shape and are skipped with a warning.
func (p *OperationParser) errorType(entries []responseEntry) string {
	var types []string
	for _, e := range entries {
		if !e.status.IsClientError() && !e.status.IsServerError() {
			continue
		}
		switch e.kind {
		case "none":
			types = append(types, "None")
		case "json":
			types = append(types, p.translator.RenderType(e.schema))
		default:
			p.report.Warnf("error response %d has unsupported content type %s", int(e.status), e.kind)
		}
	}
	return unionOf(types)
}

// unionOf renders a sorted, deduplicated union. Any always sorts last so
// narrower types are preferred when pattern-matched; an empty union defaults
// to Any.
func unionOf(types []string) string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(types))
	hasAny := false
	for _, t := range types {
		if t == "Any" {
			hasAny = true
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	if hasAny {
		uniq = append(uniq, "Any")
	}
	if len(uniq) == 0 {
		return "Any"
	}
	return strings.Join(uniq, " | ")
}

// synthesizeDoc builds one documentation string from the operation summary,
// operation description, and path-level description, in that order, skipping
// blanks and a path description already contained in the operation's.
func synthesizeDoc(op, pathItem *document.Map) string {
	summary := strings.TrimSpace(op.String("summary"))
	opDesc := strings.TrimSpace(op.String("description"))
	pathDesc := strings.TrimSpace(pathItem.String("description"))

	var paragraphs []string
	for _, s := range []string{summary, opDesc} {
		if s != "" {
			paragraphs = append(paragraphs, s)
		}
	}
	if pathDesc != "" && !strings.Contains(opDesc, pathDesc) {
		paragraphs = append(paragraphs, pathDesc)
	}
	return strings.Join(paragraphs, "\n\n")
}

// truthy mirrors the emptiness coercion used for schema presence checks: an
// empty mapping or nil does not count as a usable schema.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case *document.Map:
		return t.Len() > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

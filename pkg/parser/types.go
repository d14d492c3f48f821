package parser

import (
	"sort"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
)

// maxTranslateDepth bounds schema recursion. Named self-referential schemas
// terminate through the lookup short-circuit; this guard covers anonymous
// schemas that are self-referential through nested items/properties, which
// the lookup cannot catch.
const maxTranslateDepth = 64

// TypeNode represents a Python type annotation as a tree: a name, ordered
// type arguments, and a nullability flag. Two nodes are structurally equal
// iff their rendered forms are equal; Render is the canonical form used for
// deduplication keys.
type TypeNode struct {
	Name     string
	Args     []*TypeNode
	Nullable bool
}

// NewTypeNode constructs a node with the given type arguments.
func NewTypeNode(name string, args ...*TypeNode) *TypeNode {
	return &TypeNode{Name: name, Args: args}
}

// Render produces the canonical Python annotation for the node.
//
// Union members render sorted and deduplicated, with a literal None member
// discarded; nullability is reflected by a trailing "| None" instead. The
// suffix is suppressed for Any and Never, for None itself, and for unions
// that carried an explicit None member.
func (n *TypeNode) Render() string {
	var base string
	unionHadNone := false

	switch {
	case n.Name == "Union":
		seen := map[string]struct{}{}
		parts := make([]string, 0, len(n.Args))
		for _, arg := range n.Args {
			r := arg.Render()
			if r == "None" {
				unionHadNone = true
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			parts = append(parts, r)
		}
		sort.Strings(parts)
		if len(parts) == 0 {
			base = "None"
		} else {
			base = strings.Join(parts, " | ")
		}
	case len(n.Args) > 0:
		rendered := make([]string, 0, len(n.Args))
		for _, arg := range n.Args {
			rendered = append(rendered, arg.Render())
		}
		base = n.Name + "[" + strings.Join(rendered, ", ") + "]"
	default:
		base = n.Name
	}

	nonNullable := n.Name == "Any" || n.Name == "Never" || base == "None"
	if n.Nullable && !nonNullable && !unionHadNone {
		return base + " | None"
	}
	return base
}

// Translator converts schema subtrees into TypeNodes, resolving named models
// through the schema lookup first.
type Translator struct {
	lookup *SchemaLookup
	report Reporter
}

// NewTranslator returns a Translator backed by the given lookup table.
func NewTranslator(lookup *SchemaLookup, report Reporter) *Translator {
	return &Translator{lookup: lookup, report: report}
}

// Translate converts a schema subtree into a type expression tree.
func (t *Translator) Translate(schema any) *TypeNode {
	return t.translate(schema, 0)
}

// RenderType is a convenience for Translate(schema).Render().
func (t *Translator) RenderType(schema any) string {
	return t.Translate(schema).Render()
}

func (t *Translator) translate(schema any, depth int) *TypeNode {
	// Boolean schemas (JSON Schema draft 2020-12 / OpenAPI 3.1): true and
	// absent mean "no constraints", false means "no value is valid".
	switch s := schema.(type) {
	case nil:
		return NewTypeNode("Any")
	case bool:
		if s {
			return NewTypeNode("Any")
		}
		return NewTypeNode("Never")
	case *document.Map:
		return t.translateMap(s, depth)
	default:
		t.report.Warnf("schema is not a mapping (%T), defaulting to Any", schema)
		return NewTypeNode("Any")
	}
}

func (t *Translator) translateMap(s *document.Map, depth int) *TypeNode {
	if s.Len() == 0 {
		return NewTypeNode("Any")
	}
	if depth > maxTranslateDepth {
		t.report.Warnf("schema nesting exceeds %d levels, defaulting to Any", maxTranslateDepth)
		return NewTypeNode("Any")
	}

	// A subtree matching a registered schema is a model reference. This also
	// stops recursion for named self-referential models.
	if name, ok := t.lookup.Get(s); ok {
		return NewTypeNode(name)
	}

	// An unexpanded $ref survives expansion only inside reference cycles;
	// resolve it by name.
	if ref := s.String("$ref"); ref != "" {
		return t.refByName(ref)
	}

	var node *TypeNode
	switch {
	case s.Has("enum"):
		node = t.handleEnum(s)
	case s.Has("oneOf") || s.Has("anyOf"):
		node = t.handlePoly(s, depth)
	case s.Has("allOf"):
		node = t.handleAllOf(s, depth)
	default:
		if tags, multi := typeList(s); multi {
			node = t.handleMulti(s, tags, depth)
		} else {
			node = t.handleTagged(s, depth)
		}
	}

	node.Nullable = SafeBool(s, "nullable", false)
	return node
}

// refByName maps a $ref pointer to a model reference by its final segment.
func (t *Translator) refByName(ref string) *TypeNode {
	parts := strings.Split(ref, "/")
	name, err := SanitizeIdentifier(parts[len(parts)-1])
	if err != nil {
		t.report.Warnf("unusable $ref %q, defaulting to Any", ref)
		return NewTypeNode("Any")
	}
	return NewTypeNode(name)
}

func (t *Translator) handleEnum(s *document.Map) *TypeNode {
	values := s.Slice("enum")
	args := make([]*TypeNode, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok {
			args = append(args, NewTypeNode(`"`+SanitizeString(str)+`"`))
		} else {
			args = append(args, NewTypeNode(PythonLiteral(v)))
		}
	}
	return NewTypeNode("Literal", args...)
}

func (t *Translator) handlePoly(s *document.Map, depth int) *TypeNode {
	if branches := s.Slice("oneOf"); len(branches) > 0 {
		t.report.Debugf("handling oneOf schema for polymorphism")
		return t.union(branches, depth)
	}
	// anyOf is not distinguished from oneOf yet; degrading to Any keeps the
	// limitation visible instead of silently wrong.
	t.report.Warnf("anyOf handling is not supported yet, defaulting to Any")
	return NewTypeNode("Any")
}

func (t *Translator) handleAllOf(s *document.Map, depth int) *TypeNode {
	branches := s.Slice("allOf")
	// allOf with a single member is the common $ref wrapper pattern.
	if len(branches) == 1 {
		return t.translate(branches[0], depth+1)
	}
	t.report.Warnf("multi-member allOf intersection is not modeled, defaulting to Any")
	return NewTypeNode("Any")
}

// handleMulti translates an OpenAPI 3.1 multi-type list such as
// type: ["string", "null"]. Each named type translates independently with
// nullability suppressed per branch, so "null" in the list does not double
// as a nullable suffix.
func (t *Translator) handleMulti(s *document.Map, tags []string, depth int) *TypeNode {
	args := make([]*TypeNode, 0, len(tags))
	for _, tag := range tags {
		sub := s.Clone()
		sub.Set("type", tag)
		sub.Set("nullable", false)
		args = append(args, t.translate(sub, depth+1))
	}
	return NewTypeNode("Union", args...)
}

// handleTagged dispatches on the declared or inferred type tag. The switch
// is closed over the known tags; anything else degrades to Any with a
// diagnostic.
func (t *Translator) handleTagged(s *document.Map, depth int) *TypeNode {
	tag := s.String("type")
	if tag == "" {
		if s.Has("properties") || s.Has("additionalProperties") {
			tag = "object"
		} else if s.Has("items") {
			tag = "array"
		}
	}

	switch tag {
	case "object":
		return t.handleObject(s, depth)
	case "array":
		return t.handleArray(s, depth)
	case "string":
		if s.String("format") == "binary" {
			return NewTypeNode("bytes")
		}
		return NewTypeNode("str")
	case "integer":
		return NewTypeNode("int")
	case "boolean":
		return NewTypeNode("bool")
	case "number":
		return NewTypeNode("float")
	case "null":
		return NewTypeNode("None")
	default:
		if raw, ok := s.Get("type"); ok {
			t.report.Warnf("unknown schema type %v, defaulting to Any", raw)
		} else {
			t.report.Warnf("schema without a recognizable type, defaulting to Any")
		}
		return NewTypeNode("Any")
	}
}

// handleObject covers object schemas not resolved through the lookup. A
// schema-valued additionalProperties becomes dict[str, T]; everything else
// is an inline object whose shape is discarded.
func (t *Translator) handleObject(s *document.Map, depth int) *TypeNode {
	var value *TypeNode
	if add, ok := s.ChildMap("additionalProperties"); ok {
		value = t.translate(add, depth+1)
	} else {
		value = NewTypeNode("Any")
		t.report.Warnf("inline object schema detected, defaulting to dict[str, Any]")
	}
	return NewTypeNode("dict", NewTypeNode("str"), value)
}

func (t *Translator) handleArray(s *document.Map, depth int) *TypeNode {
	if items, ok := s.Get("items"); ok && items != nil {
		return NewTypeNode("list", t.translate(items, depth+1))
	}
	t.report.Debugf("array schema missing items key, defaulting to list[Any]")
	return NewTypeNode("list", NewTypeNode("Any"))
}

// union translates branches and wraps them in a structurally deduplicated
// Union node.
func (t *Translator) union(branches []any, depth int) *TypeNode {
	seen := map[string]struct{}{}
	args := make([]*TypeNode, 0, len(branches))
	for _, branch := range branches {
		node := t.translate(branch, depth+1)
		key := node.Render()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		args = append(args, node)
	}
	return NewTypeNode("Union", args...)
}

// typeList returns the type tags when the schema declares type as a list.
func typeList(s *document.Map) ([]string, bool) {
	raw, ok := s.Get("type")
	if !ok {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	tags := make([]string, 0, len(list))
	for _, v := range list {
		if str, ok := v.(string); ok {
			tags = append(tags, str)
		}
	}
	return tags, true
}

package parser

import (
	"fmt"

	"github.com/pygen-dev/pygen/pkg/document"
)

// FlattenSchema recursively merges allOf chains into a single schema with one
// properties mapping and one required list. Each branch flattens before
// merging, and a later branch's properties override identically-named ones
// from earlier branches; the schema's own properties override everything.
// This models "own fields override inherited fields" without a type
// hierarchy. A schema without allOf is returned unchanged.
func FlattenSchema(schema *document.Map) *document.Map {
	branches := schema.Slice("allOf")
	if len(branches) == 0 {
		return schema
	}

	flatProps := document.NewMap()
	var flatRequired []string
	seenRequired := map[string]struct{}{}

	merge := func(sub *document.Map) {
		if props, ok := sub.ChildMap("properties"); ok {
			for _, name := range props.Keys() {
				v, _ := props.Get(name)
				flatProps.Set(name, v)
			}
		}
		for _, r := range sub.Slice("required") {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if _, seen := seenRequired[name]; !seen {
				seenRequired[name] = struct{}{}
				flatRequired = append(flatRequired, name)
			}
		}
	}

	for _, branch := range branches {
		if sub, ok := branch.(*document.Map); ok {
			merge(FlattenSchema(sub))
		}
	}
	// Own properties and required names land last so they win.
	merge(schema)

	required := make([]any, 0, len(flatRequired))
	for _, name := range flatRequired {
		required = append(required, name)
	}

	flattened := schema.Clone()
	flattened.Set("properties", flatProps)
	flattened.Set("required", required)
	// Remove allOf to prevent downstream double-processing.
	flattened.Delete("allOf")
	return flattened
}

// SchemaParser turns the named schemas of a resolved spec into models.
type SchemaParser struct {
	doc        *document.Map
	translator *Translator
	report     Reporter
}

// NewSchemaParser builds a parser over a resolved spec. Building fails only
// when a schema name cannot be sanitized into an identifier.
func NewSchemaParser(doc *document.Map, report Reporter) (*SchemaParser, error) {
	lookup, err := NewSchemaLookup(doc, report)
	if err != nil {
		return nil, err
	}
	return &SchemaParser{
		doc:        doc,
		translator: NewTranslator(lookup, report),
		report:     report,
	}, nil
}

// Parse returns one model per named schema, in declaration order.
func (p *SchemaParser) Parse() ([]Model, error) {
	var models []Model

	raw, ok := document.Dig(p.doc, "components", "schemas")
	if !ok {
		return models, nil
	}
	schemas, ok := raw.(*document.Map)
	if !ok {
		return models, nil
	}

	for _, name := range schemas.Keys() {
		p.report.Debugf("parsing schema %s", name)

		v, _ := schemas.Get(name)
		schema, ok := v.(*document.Map)
		if !ok {
			p.report.Warnf("schema %s is not an object, skipping", name)
			continue
		}

		sanitized, err := SanitizeIdentifier(name)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}

		flat := FlattenSchema(schema)
		requiredNames := map[string]struct{}{}
		for _, r := range flat.Slice("required") {
			if s, ok := r.(string); ok {
				requiredNames[s] = struct{}{}
			}
		}

		var props []Property
		if properties, ok := flat.ChildMap("properties"); ok {
			for _, propName := range properties.Keys() {
				propSchema, _ := properties.Get(propName)
				_, required := requiredNames[propName]
				prop, err := p.parseProperty(propName, propSchema, required)
				if err != nil {
					return nil, fmt.Errorf("schema %q: %w", name, err)
				}
				props = append(props, prop)
			}
		}

		models = append(models, Model{
			Name:       sanitized,
			Properties: props,
			Doc:        SanitizeDoc(schema.String("description")),
			RefName:    name,
		})
	}

	return models, nil
}

func (p *SchemaParser) parseProperty(name string, schema any, required bool) (Property, error) {
	sanitized, err := SanitizeIdentifier(name)
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", name, err)
	}

	pyType := p.translator.RenderType(schema)
	if !required {
		// Absence is a distinct state from an explicit null.
		pyType = "NotRequired[" + pyType + "]"
	}

	m, _ := schema.(*document.Map)
	defaultLit := ""
	if v, ok := m.Get("default"); ok {
		defaultLit = PythonLiteral(v)
	}

	return Property{
		Name:      sanitized,
		Type:      pyType,
		Required:  required,
		Doc:       SanitizeDoc(m.String("description")),
		ReadOnly:  SafeBool(m, "readOnly", false),
		WriteOnly: SafeBool(m, "writeOnly", false),
		Default:   defaultLit,
	}, nil
}

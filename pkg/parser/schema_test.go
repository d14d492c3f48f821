package parser

import (
	"testing"
)

func TestFlattenSchemaNoAllOf(t *testing.T) {
	schema := mustDecodeMap(t, `
type: object
properties:
  name:
    type: string
`)
	if got := FlattenSchema(schema); got != schema {
		t.Error("schema without allOf should be returned unchanged")
	}
}

func TestFlattenSchemaChain(t *testing.T) {
	// Three levels, each redefining "kind". The outermost (most derived)
	// definition wins; required names accumulate across every level.
	schema := mustDecodeMap(t, `
allOf:
  - allOf:
      - type: object
        properties:
          kind:
            type: integer
          base_field:
            type: string
        required: [base_field]
      - type: object
        properties:
          kind:
            type: number
          mid_field:
            type: string
        required: [mid_field]
type: object
properties:
  kind:
    type: string
  own_field:
    type: string
required: [own_field, base_field]
`)
	flat := FlattenSchema(schema)

	if flat.Has("allOf") {
		t.Error("flattened schema still carries allOf")
	}

	props, ok := flat.ChildMap("properties")
	if !ok {
		t.Fatal("flattened schema has no properties map")
	}
	kind, ok := props.ChildMap("kind")
	if !ok {
		t.Fatal("flattened schema dropped kind")
	}
	if got := kind.String("type"); got != "string" {
		t.Errorf("kind type = %q, want outermost definition string", got)
	}
	for _, name := range []string{"base_field", "mid_field", "own_field"} {
		if !props.Has(name) {
			t.Errorf("flattened properties missing %s", name)
		}
	}

	var required []string
	for _, r := range flat.Slice("required") {
		required = append(required, r.(string))
	}
	want := map[string]bool{"base_field": true, "mid_field": true, "own_field": true}
	if len(required) != len(want) {
		t.Fatalf("required = %v, want exactly %v", required, want)
	}
	for _, name := range required {
		if !want[name] {
			t.Errorf("unexpected required name %s", name)
		}
	}
}

func TestFlattenSchemaIdempotent(t *testing.T) {
	schema := mustDecodeMap(t, `
allOf:
  - type: object
    properties:
      a:
        type: string
    required: [a]
properties:
  b:
    type: integer
`)
	once := FlattenSchema(schema)
	twice := FlattenSchema(once)
	if twice != once {
		t.Error("second flatten should be a no-op on an already-flat schema")
	}
}

func TestSchemaParserParse(t *testing.T) {
	doc := mustDecodeMap(t, `
components:
  schemas:
    Pet:
      type: object
      description: A pet in the store.
      required: [name]
      properties:
        name:
          type: string
        tag:
          type: string
          default: none
        id:
          type: integer
          readOnly: true
    Order:
      type: object
      properties:
        petId:
          type: integer
`)
	c := &Collector{}
	p, err := NewSchemaParser(doc, c.Report())
	if err != nil {
		t.Fatalf("NewSchemaParser: %v", err)
	}
	models, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name != "Pet" || models[1].Name != "Order" {
		t.Errorf("model order = [%s, %s], want declaration order [Pet, Order]", models[0].Name, models[1].Name)
	}

	pet := models[0]
	if pet.Doc != "A pet in the store." {
		t.Errorf("Pet doc = %q", pet.Doc)
	}
	if len(pet.Properties) != 3 {
		t.Fatalf("Pet has %d properties, want 3", len(pet.Properties))
	}

	name := pet.Properties[0]
	if name.Name != "name" || name.Type != "str" || !name.Required {
		t.Errorf("name property = %+v", name)
	}

	tag := pet.Properties[1]
	if tag.Type != "NotRequired[str]" {
		t.Errorf("tag type = %q, optional properties wrap in NotRequired", tag.Type)
	}
	if tag.Default != `"none"` {
		t.Errorf("tag default = %q, want %q", tag.Default, `"none"`)
	}

	id := pet.Properties[2]
	if !id.ReadOnly {
		t.Error("id property should be read-only")
	}
	if id.WriteOnly {
		t.Error("id property should not be write-only")
	}
}

func TestSchemaParserModelReference(t *testing.T) {
	// Order's pet property is an expanded copy of Pet; the translator must
	// resolve it back to the model name instead of inlining a dict.
	doc := mustDecodeMap(t, `
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
    Order:
      type: object
      required: [pet]
      properties:
        pet:
          type: object
          properties:
            name:
              type: string
`)
	p, err := NewSchemaParser(doc, nil)
	if err != nil {
		t.Fatalf("NewSchemaParser: %v", err)
	}
	models, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	order := models[1]
	if got := order.Properties[0].Type; got != "Pet" {
		t.Errorf("Order.pet type = %q, want Pet", got)
	}
}

func TestSchemaParserFlattensAllOf(t *testing.T) {
	doc := mustDecodeMap(t, `
components:
  schemas:
    Base:
      type: object
      required: [id]
      properties:
        id:
          type: string
    Derived:
      allOf:
        - type: object
          required: [id]
          properties:
            id:
              type: string
      properties:
        extra:
          type: integer
`)
	p, err := NewSchemaParser(doc, nil)
	if err != nil {
		t.Fatalf("NewSchemaParser: %v", err)
	}
	models, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	derived := models[1]
	if len(derived.Properties) != 2 {
		t.Fatalf("Derived has %d properties, want 2", len(derived.Properties))
	}
	if derived.Properties[0].Name != "id" || !derived.Properties[0].Required {
		t.Errorf("inherited id = %+v, want required", derived.Properties[0])
	}
	if derived.Properties[1].Type != "NotRequired[int]" {
		t.Errorf("extra type = %q", derived.Properties[1].Type)
	}
}

func TestSchemaParserSkipsNonObjectSchema(t *testing.T) {
	doc := mustDecodeMap(t, `
components:
  schemas:
    Broken: just a string
    Fine:
      type: object
`)
	c := &Collector{}
	p, err := NewSchemaParser(doc, c.Report())
	if err != nil {
		t.Fatalf("NewSchemaParser: %v", err)
	}
	models, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(models) != 1 || models[0].Name != "Fine" {
		t.Errorf("models = %+v, want only Fine", models)
	}
	if c.Count(SeverityWarn) == 0 {
		t.Error("skipping a malformed schema should warn")
	}
}

// Package parser translates a resolved OpenAPI document into the models and
// operations a renderer turns into Python SDK source.
package parser

// Default-state sentinels for arguments. They are emitted verbatim into
// generated signatures, where the supporting runtime defines them:
//
//   - DefaultRequired marks an argument the caller must supply. It lets
//     required arguments follow optional ones while keeping the
//     path/body/query/header/cookie grouping.
//   - DefaultUnset marks an argument that is omitted from the request
//     entirely when not supplied, as opposed to an explicit None.
//
// Any other Default value is a Python literal taken from the schema.
const (
	DefaultRequired = "REQUIRED"
	DefaultUnset    = "UNSET"
)

// StatusCode is an HTTP status code. Unlike a closed enum it accepts any
// numeric code, including the nonstandard application-specific ones some
// APIs use.
type StatusCode int

// IsSuccess reports whether the code is in the 2xx range.
func (c StatusCode) IsSuccess() bool { return c >= 200 && c < 300 }

// IsClientError reports whether the code is in the 4xx range.
func (c StatusCode) IsClientError() bool { return c >= 400 && c < 500 }

// IsServerError reports whether the code is in the 5xx range.
func (c StatusCode) IsServerError() bool { return c >= 500 && c < 600 }

// Location is where an argument travels in the request.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
	LocationBody   Location = "body"
)

// argOrder fixes the argument grouping in generated signatures.
var argOrder = map[Location]int{
	LocationPath:   0,
	LocationBody:   1,
	LocationQuery:  2,
	LocationHeader: 3,
	LocationCookie: 4,
}

// Arg is one argument of a generated operation method: a path, query,
// header, or cookie parameter, or the request body.
type Arg struct {
	// Name is the sanitized snake_case Python name.
	Name string
	// APIName is the original parameter name from the spec; empty for body.
	APIName string
	// Type is the rendered Python type annotation.
	Type string
	// In is the argument location.
	In Location
	// Required reports whether the argument must be supplied.
	Required bool
	// Default is DefaultRequired, DefaultUnset, or a Python literal.
	Default string
	// Doc is the sanitized parameter documentation.
	Doc string
}

// Responses carries the aggregated response types of an operation.
type Responses struct {
	// SuccessType is the union of all 2xx response types.
	SuccessType string
	// ErrorType is the union of all 4xx/5xx response types.
	ErrorType string
}

// Operation is a fully parsed API operation.
type Operation struct {
	// Method is the HTTP method, uppercase.
	Method string
	// Path is the sanitized path with parameter names in snake_case.
	Path string
	// Args holds all arguments ordered path, body, query, header, cookie.
	Args []Arg
	// Responses holds the success and error type unions.
	Responses Responses
	// Doc is the synthesized operation documentation.
	Doc string
}

// Property is one property of a parsed model.
type Property struct {
	// Name is the sanitized Python name.
	Name string
	// Type is the rendered Python type annotation, wrapped in NotRequired
	// when the property may be absent.
	Type string
	// Required reports whether the property is in the schema's required set.
	Required bool
	// Doc is the sanitized property documentation.
	Doc string
	// ReadOnly and WriteOnly mirror the schema flags.
	ReadOnly  bool
	WriteOnly bool
	// Default is the property's default as a Python literal, "" when the
	// schema declares none.
	Default string
}

// Model is a parsed named schema.
type Model struct {
	// Name is the sanitized Python class name.
	Name string
	// Properties in declaration order, after inheritance flattening.
	Properties []Property
	// Doc is the sanitized model documentation.
	Doc string
	// RefName is the original schema name from components/schemas.
	RefName string
}

package codegen

import (
	"github.com/mark3labs/oapigen/internal/ordered"
)

// HttpMethod is an HTTP method as it appears on an Operation.
type HttpMethod string

const (
	GET     HttpMethod = "GET"
	HEAD    HttpMethod = "HEAD"
	OPTIONS HttpMethod = "OPTIONS"
	POST    HttpMethod = "POST"
	PUT     HttpMethod = "PUT"
	PATCH   HttpMethod = "PATCH"
	DELETE  HttpMethod = "DELETE"
	TRACE   HttpMethod = "TRACE"
)

// methodOrder is the order in which operations of one path are built.
var methodOrder = []HttpMethod{GET, HEAD, OPTIONS, POST, PUT, PATCH, DELETE, TRACE}

// VendorExtensions holds the x- entries of a source object in source order.
type VendorExtensions = ordered.Map[string, any]

// Document is the generator-agnostic model handed to a renderer.
type Document struct {
	Info   Info              `json:"info"`
	Groups []*OperationGroup `json:"groups"`
	// Schemas indexes the top-level named schemas. Nested named schemas are
	// indexed by their owning object schema's Schemas field.
	Schemas *ordered.Map[string, SchemaID] `json:"schemas"`
	// Arena holds every schema built for the document; SchemaID n is Arena[n-1].
	Arena                []*Schema             `json:"arena"`
	Servers              []*Server             `json:"servers,omitempty"`
	SecuritySchemes      []*SecurityScheme     `json:"securitySchemes,omitempty"`
	SecurityRequirements *SecurityRequirements `json:"securityRequirements,omitempty"`
	ExternalDocs         *ExternalDocs         `json:"externalDocs,omitempty"`
}

// Schema returns the schema with the given id, or nil.
func (d *Document) Schema(id SchemaID) *Schema {
	if !id.Valid() || int(id) > len(d.Arena) {
		return nil
	}
	return d.Arena[id-1]
}

// Lookup returns the top-level named schema called name, or nil.
func (d *Document) Lookup(name string) *Schema {
	id, ok := d.Schemas.Get(name)
	if !ok {
		return nil
	}
	return d.Schema(id)
}

// Models returns the top-level named schemas in index order.
func (d *Document) Models() []*Schema {
	out := make([]*Schema, 0, d.Schemas.Len())
	for _, id := range d.Schemas.All() {
		out = append(out, d.Schema(id))
	}
	return out
}

type Info struct {
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	TermsOfService   string            `json:"termsOfService,omitempty"`
	Contact          *Contact          `json:"contact,omitempty"`
	License          *License          `json:"license,omitempty"`
	Version          string            `json:"version"`
	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type Server struct {
	URL              string                                `json:"url"`
	Description      string                                `json:"description,omitempty"`
	Variables        *ordered.Map[string, *ServerVariable] `json:"variables,omitempty"`
	VendorExtensions *VendorExtensions                     `json:"vendorExtensions,omitempty"`
}

type ServerVariable struct {
	Default     string   `json:"default"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

type ExternalDocs struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// OperationGroup collects the operations a grouping strategy assigned to it.
type OperationGroup struct {
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	Description string       `json:"description,omitempty"`
	Operations  []*Operation `json:"operations"`
	Consumes    []*MediaType `json:"consumes,omitempty"`
	Produces    []*MediaType `json:"produces,omitempty"`
}

type Operation struct {
	Name        string     `json:"name"`
	OperationID string     `json:"operationId,omitempty"`
	HTTPMethod  HttpMethod `json:"httpMethod"`
	// Path is relative to the owning group's base path; FullPath is the
	// path as declared in the input.
	Path        string   `json:"path"`
	FullPath    string   `json:"fullPath"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`

	Parameters   *ordered.Map[string, *Parameter] `json:"parameters,omitempty"`
	QueryParams  *ordered.Map[string, *Parameter] `json:"queryParams,omitempty"`
	PathParams   *ordered.Map[string, *Parameter] `json:"pathParams,omitempty"`
	HeaderParams *ordered.Map[string, *Parameter] `json:"headerParams,omitempty"`
	CookieParams *ordered.Map[string, *Parameter] `json:"cookieParams,omitempty"`
	FormParams   *ordered.Map[string, *Parameter] `json:"formParams,omitempty"`

	HasParamExamples       bool `json:"hasParamExamples,omitempty"`
	HasQueryParamExamples  bool `json:"hasQueryParamExamples,omitempty"`
	HasPathParamExamples   bool `json:"hasPathParamExamples,omitempty"`
	HasHeaderParamExamples bool `json:"hasHeaderParamExamples,omitempty"`
	HasCookieParamExamples bool `json:"hasCookieParamExamples,omitempty"`
	HasFormParamExamples   bool `json:"hasFormParamExamples,omitempty"`

	RequestBody            *RequestBody `json:"requestBody,omitempty"`
	HasRequestBodyExamples bool         `json:"hasRequestBodyExamples,omitempty"`

	Responses           *ordered.Map[string, *Response] `json:"responses,omitempty"`
	DefaultResponse     *Response                       `json:"defaultResponse,omitempty"`
	HasResponseExamples bool                            `json:"hasResponseExamples,omitempty"`

	ReturnType       string           `json:"returnType,omitempty"`
	ReturnNativeType *UsageNativeType `json:"returnNativeType,omitempty"`

	Consumes []*MediaType `json:"consumes,omitempty"`
	Produces []*MediaType `json:"produces,omitempty"`

	SecurityRequirements *SecurityRequirements `json:"securityRequirements,omitempty"`
	ExternalDocs         *ExternalDocs         `json:"externalDocs,omitempty"`
	VendorExtensions     *VendorExtensions     `json:"vendorExtensions,omitempty"`
}

// Value is a raw value together with its rendering in the target language.
type Value struct {
	Value        any    `json:"value"`
	LiteralValue string `json:"literalValue"`
}

// SchemaUsage is a schema at one point of use. Flags may differ from the
// schema's own when the use site overrides them.
type SchemaUsage struct {
	Schema     SchemaID         `json:"schema"`
	SchemaType SchemaType       `json:"schemaType"`
	Type       string           `json:"type"`
	Format     string           `json:"format,omitempty"`
	NativeType *UsageNativeType `json:"nativeType"`

	Required   bool `json:"required"`
	Nullable   bool `json:"nullable,omitempty"`
	ReadOnly   bool `json:"readOnly,omitempty"`
	WriteOnly  bool `json:"writeOnly,omitempty"`
	Deprecated bool `json:"deprecated,omitempty"`

	// DefaultValue is the explicit default, if any. Properties always carry
	// one, falling back to the generator's DefaultValue hook.
	DefaultValue *Value                         `json:"defaultValue,omitempty"`
	Examples     *ordered.Map[string, *Example] `json:"examples,omitempty"`
}

type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Description string `json:"description,omitempty"`
	SchemaUsage

	CollectionFormat string `json:"collectionFormat,omitempty"`
	Style            string `json:"style,omitempty"`
	Explode          *bool  `json:"explode,omitempty"`

	IsQueryParam  bool `json:"isQueryParam,omitempty"`
	IsPathParam   bool `json:"isPathParam,omitempty"`
	IsHeaderParam bool `json:"isHeaderParam,omitempty"`
	IsCookieParam bool `json:"isCookieParam,omitempty"`
	IsFormParam   bool `json:"isFormParam,omitempty"`

	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`
}

type RequestBody struct {
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Required         bool              `json:"required"`
	Contents         []*Content        `json:"contents,omitempty"`
	DefaultContent   *Content          `json:"defaultContent,omitempty"`
	Consumes         []*MediaType      `json:"consumes,omitempty"`
	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`
}

// Content is the schema usage for one media type of a body.
type Content struct {
	MediaType *MediaType `json:"mediaType"`
	SchemaUsage
}

type MediaType struct {
	// MediaType is the media type as declared, including parameters.
	MediaType string `json:"mediaType"`
	// MimeType is the lower-cased type/subtype without parameters.
	MimeType string `json:"mimeType"`
	// Encoding is the charset parameter, if any.
	Encoding string `json:"encoding,omitempty"`
}

type Response struct {
	// Key is the status entry as declared: "200", "4XX" or "default".
	Key string `json:"key"`
	// Code is the numeric status. It is 0 for the "default" entry and N00
	// for an NXX range.
	Code      int  `json:"code"`
	CodeRange bool `json:"codeRange,omitempty"`
	// DefaultEntry marks the "default" status entry.
	DefaultEntry bool `json:"defaultEntry,omitempty"`
	// IsDefault marks the canonical response used for return type inference.
	IsDefault bool `json:"isDefault,omitempty"`

	Description      string                        `json:"description"`
	Contents         []*Content                    `json:"contents,omitempty"`
	DefaultContent   *Content                      `json:"defaultContent,omitempty"`
	Produces         []*MediaType                  `json:"produces,omitempty"`
	Headers          *ordered.Map[string, *Header] `json:"headers,omitempty"`
	VendorExtensions *VendorExtensions             `json:"vendorExtensions,omitempty"`
}

type Header struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SchemaUsage
	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`
}

type Example struct {
	Name        string `json:"name"`
	MediaType   string `json:"mediaType,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Value       any    `json:"value"`
	// ValueLiteral is the value rendered by the generator's ToLiteral hook.
	ValueLiteral string `json:"valueLiteral"`
	ValueString  string `json:"valueString"`
	ValuePretty  string `json:"valuePretty"`
}

type SecurityScheme struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	// Scheme and BearerFormat apply to http schemes.
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty"`
	// ParamName and In apply to apiKey schemes.
	ParamName        string            `json:"paramName,omitempty"`
	In               string            `json:"in,omitempty"`
	Flows            []*OAuthFlow      `json:"flows,omitempty"`
	OpenIDConnectURL string            `json:"openIdConnectUrl,omitempty"`
	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`
}

type OAuthFlow struct {
	Type             string                       `json:"type"`
	AuthorizationURL string                       `json:"authorizationUrl,omitempty"`
	TokenURL         string                       `json:"tokenUrl,omitempty"`
	RefreshURL       string                       `json:"refreshUrl,omitempty"`
	Scopes           *ordered.Map[string, string] `json:"scopes,omitempty"`
}

// SecurityRequirements lists alternative requirements; any one satisfies
// the operation. Optional is set when an empty requirement is among them.
type SecurityRequirements struct {
	Optional     bool                   `json:"optional"`
	Requirements []*SecurityRequirement `json:"requirements"`
}

// SecurityRequirement lists schemes that must all be satisfied together.
type SecurityRequirement struct {
	Schemes []*SecurityRequirementScheme `json:"schemes"`
}

type SecurityRequirementScheme struct {
	Scheme *SecurityScheme `json:"scheme"`
	Scopes []string        `json:"scopes,omitempty"`
}

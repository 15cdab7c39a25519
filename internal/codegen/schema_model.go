package codegen

import (
	"strings"

	"github.com/mark3labs/oapigen/internal/ordered"
	"gopkg.in/yaml.v3"
)

// SchemaID identifies a schema in Document.Arena. The zero value means none.
type SchemaID int

// Valid reports whether id refers to a schema.
func (id SchemaID) Valid() bool { return id > 0 }

// SchemaType classifies a schema.
type SchemaType string

const (
	SchemaObject   SchemaType = "OBJECT"
	SchemaMap      SchemaType = "MAP"
	SchemaArray    SchemaType = "ARRAY"
	SchemaEnum     SchemaType = "ENUM"
	SchemaString   SchemaType = "STRING"
	SchemaNumber   SchemaType = "NUMBER"
	SchemaInteger  SchemaType = "INTEGER"
	SchemaBoolean  SchemaType = "BOOLEAN"
	SchemaDate     SchemaType = "DATE"
	SchemaDateTime SchemaType = "DATETIME"
	SchemaTime     SchemaType = "TIME"
	SchemaFile     SchemaType = "FILE"
)

// IsCollection reports whether t is ARRAY or MAP.
func (t SchemaType) IsCollection() bool { return t == SchemaArray || t == SchemaMap }

// IsModel reports whether schemas of type t are indexed in a naming scope.
func (t SchemaType) IsModel() bool { return t == SchemaObject || t == SchemaEnum }

// IsPrimitive reports whether t is a scalar type.
func (t SchemaType) IsPrimitive() bool { return !t.IsModel() && !t.IsCollection() }

// SchemaPurpose tells the naming hooks why an anonymous schema needs a name.
type SchemaPurpose string

const (
	PurposeArrayItem   SchemaPurpose = "ARRAY_ITEM"
	PurposeMapValue    SchemaPurpose = "MAP_VALUE"
	PurposeModel       SchemaPurpose = "MODEL"
	PurposeParameter   SchemaPurpose = "PARAMETER"
	PurposeProperty    SchemaPurpose = "PROPERTY"
	PurposeRequestBody SchemaPurpose = "REQUEST_BODY"
	PurposeResponse    SchemaPurpose = "RESPONSE"
	PurposeHeader      SchemaPurpose = "HEADER"
)

// Schema is one node of the schema arena. Fields are grouped by the schema
// types that use them; the rest stay zero.
type Schema struct {
	ID         SchemaID   `json:"id"`
	SchemaType SchemaType `json:"schemaType"`
	Type       string     `json:"type,omitempty"`
	Format     string     `json:"format,omitempty"`

	// Name is empty for anonymous collections and primitives.
	Name string `json:"name,omitempty"`
	// ScopedName is the chain of names from the root scope to this schema.
	ScopedName     []string `json:"scopedName,omitempty"`
	SerializedName string   `json:"serializedName,omitempty"`
	Description    string   `json:"description,omitempty"`
	Title          string   `json:"title,omitempty"`

	Nullable   bool `json:"nullable,omitempty"`
	ReadOnly   bool `json:"readOnly,omitempty"`
	WriteOnly  bool `json:"writeOnly,omitempty"`
	Deprecated bool `json:"deprecated,omitempty"`

	NativeType *NativeType `json:"nativeType,omitempty"`

	// Owner is the object schema whose scope indexes this schema, or 0 for
	// the root scope. Indexed is false for schemas kept out of every scope.
	Owner    SchemaID `json:"owner,omitempty"`
	Indexed  bool     `json:"indexed,omitempty"`
	Excluded bool     `json:"excluded,omitempty"`
	// Pointer locates the schema in the input document.
	Pointer string `json:"pointer,omitempty"`

	Examples         *ordered.Map[string, *Example] `json:"examples,omitempty"`
	ExternalDocs     *ExternalDocs                  `json:"externalDocs,omitempty"`
	VendorExtensions *VendorExtensions              `json:"vendorExtensions,omitempty"`

	// OBJECT
	Properties           *ordered.Map[string, *Property] `json:"properties,omitempty"`
	AdditionalProperties SchemaID                        `json:"additionalProperties,omitempty"`
	// Schemas is the naming scope of schemas nested in this object.
	Schemas             *ordered.Map[string, SchemaID] `json:"schemas,omitempty"`
	Discriminator       *Discriminator                 `json:"discriminator,omitempty"`
	DiscriminatorValues []*DiscriminatorValue          `json:"discriminatorValues,omitempty"`
	Parent              SchemaID                       `json:"parent,omitempty"`
	ParentNativeType    *NativeType                    `json:"parentNativeType,omitempty"`
	Children            []SchemaID                     `json:"children,omitempty"`
	IsInterface         bool                           `json:"isInterface,omitempty"`
	Implements          []SchemaID                     `json:"implements,omitempty"`
	Implementors        []SchemaID                     `json:"implementors,omitempty"`
	MinProperties       *int64                         `json:"minProperties,omitempty"`
	MaxProperties       *int64                         `json:"maxProperties,omitempty"`

	// ENUM
	EnumValueType       SchemaType                       `json:"enumValueType,omitempty"`
	EnumValueNativeType *NativeType                      `json:"enumValueNativeType,omitempty"`
	EnumValues          *ordered.Map[string, *EnumValue] `json:"enumValues,omitempty"`

	// ARRAY and MAP
	Component   *SchemaUsage `json:"component,omitempty"`
	MinItems    *int64       `json:"minItems,omitempty"`
	MaxItems    *int64       `json:"maxItems,omitempty"`
	UniqueItems bool         `json:"uniqueItems,omitempty"`

	// Scalars
	MinLength        *int64   `json:"minLength,omitempty"`
	MaxLength        *int64   `json:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	node *yaml.Node
	// collectionParent is the allOf member whose collection type becomes
	// ParentNativeType.
	collectionParent SchemaID
}

// FullName returns the scoped name joined with dots.
func (s *Schema) FullName() string { return strings.Join(s.ScopedName, ".") }

// linked reports whether s takes part in any inheritance, interface or
// discriminator relation.
func (s *Schema) linked() bool {
	return s.Parent.Valid() || len(s.Children) > 0 ||
		len(s.Implements) > 0 || len(s.Implementors) > 0 ||
		len(s.DiscriminatorValues) > 0 ||
		(s.Discriminator != nil && len(s.Discriminator.References) > 0)
}

// Property is one member of an object schema.
type Property struct {
	// Name is the property key as serialized on the wire.
	Name string `json:"name"`
	// Identifier is Name shaped by the generator's ToIdentifier hook.
	Identifier  string `json:"identifier"`
	Description string `json:"description,omitempty"`
	SchemaUsage
	InitialValue     *Value            `json:"initialValue,omitempty"`
	VendorExtensions *VendorExtensions `json:"vendorExtensions,omitempty"`

	declaredDefault bool
}

type EnumValue struct {
	Name         string `json:"name"`
	Value        any    `json:"value"`
	LiteralValue string `json:"literalValue"`
	Description  string `json:"description,omitempty"`
}

// Discriminator is owned by the schema that declares it.
type Discriminator struct {
	PropertyName string `json:"propertyName"`
	// Property is the usage of the discriminator property, taken from the
	// owner's properties when declared there.
	Property *SchemaUsage                 `json:"property"`
	Mapping  *ordered.Map[string, string] `json:"mapping,omitempty"`
	// References lists the schemas the discriminator dispatches to.
	References []*DiscriminatorReference `json:"references,omitempty"`
}

type DiscriminatorReference struct {
	Schema       SchemaID `json:"schema"`
	Value        string   `json:"value"`
	LiteralValue string   `json:"literalValue"`
}

// DiscriminatorValue is the value a schema contributes to an ancestor's
// discriminator.
type DiscriminatorValue struct {
	Schema       SchemaID `json:"schema"`
	PropertyName string   `json:"propertyName"`
	Value        string   `json:"value"`
	LiteralValue string   `json:"literalValue"`
}

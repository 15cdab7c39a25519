package codegen

import (
	"context"
)

// Generator is the set of hooks a target language supplies to the core.
// Every hook must be a deterministic function of its arguments.
type Generator interface {
	ToClassName(name string) string
	ToIdentifier(name string) string
	ToConstantName(name string) string
	ToEnumMemberName(name string) string
	ToOperationName(path string, method HttpMethod) string
	ToOperationGroupName(name string) string

	// ToSchemaName shapes a schema name into a valid type name.
	ToSchemaName(name string, opts SchemaNameOptions) string
	// ToSuggestedSchemaName turns a contextual name for an anonymous schema
	// into a name candidate.
	ToSuggestedSchemaName(name string, opts SchemaNameSuggestionOptions) string
	// ToIteratedSchemaName returns a variant of name for the given collision
	// iteration. It must return a different string for every iteration.
	ToIteratedSchemaName(name string, scopeNames []string, iteration int) string

	ToLiteral(value any, opts LiteralOptions) (string, error)
	ToNativeType(opts NativeTypeOptions) (*NativeType, error)
	ToNativeObjectType(opts NativeObjectTypeOptions) (*NativeType, error)
	ToNativeArrayType(opts NativeArrayTypeOptions) (*NativeType, error)
	ToNativeMapType(opts NativeMapTypeOptions) (*NativeType, error)
	NativeTypeUsageTransformer(opts UsageOptions) NativeTypeTransformer

	// DefaultValue must always return a value, which may be the target
	// language's undefined or null.
	DefaultValue(opts ValueOptions) Value
	// InitialValue returns nil when a field has no initial value.
	InitialValue(opts ValueOptions) *Value

	OperationGroupingStrategy() GroupingStrategy
}

// SchemaPostProcessor is implemented by generators that inspect or exclude
// schemas once construction is complete.
type SchemaPostProcessor interface {
	PostProcessSchema(schema *Schema, doc *Document) PostProcessResult
}

// DocumentPostProcessor is implemented by generators that adjust the
// finished document.
type DocumentPostProcessor interface {
	PostProcessDocument(doc *Document) error
}

// Exporter is the output phase of a generator. The core never calls it.
type Exporter interface {
	ExportTemplates(ctx context.Context, outputPath string, doc *Document) error
	// WatchPaths lists extra files that should trigger a rebuild.
	WatchPaths() []string
	// CleanPathPatterns lists glob patterns, relative to the output path,
	// of files the generator owns.
	CleanPathPatterns() []string
}

type PostProcessResult int

const (
	PostProcessKeep PostProcessResult = iota
	PostProcessExclude
)

type SchemaNameOptions struct {
	SchemaType SchemaType
}

type SchemaNameSuggestionOptions struct {
	SchemaType SchemaType
	Purpose    SchemaPurpose
}

type LiteralOptions struct {
	SchemaType SchemaType
	Type       string
	Format     string
	NativeType *NativeType
	Required   bool
}

type NativeTypeOptions struct {
	SchemaType       SchemaType
	Type             string
	Format           string
	VendorExtensions *VendorExtensions
}

type NativeObjectTypeOptions struct {
	SchemaType       SchemaType
	Name             string
	ScopedName       []string
	VendorExtensions *VendorExtensions
}

// CollectionPurpose tells the array and map hooks whether the type is used
// as a field type or as a parent type.
type CollectionPurpose string

const (
	CollectionProperty CollectionPurpose = "PROPERTY"
	CollectionParent   CollectionPurpose = "PARENT"
)

type NativeArrayTypeOptions struct {
	ComponentType    *NativeType
	UniqueItems      bool
	Purpose          CollectionPurpose
	VendorExtensions *VendorExtensions
}

type NativeMapTypeOptions struct {
	KeyType          *NativeType
	ComponentType    *NativeType
	Purpose          CollectionPurpose
	VendorExtensions *VendorExtensions
}

type UsageOptions struct {
	SchemaType SchemaType
	Required   bool
	Nullable   bool
	ReadOnly   bool
	WriteOnly  bool
}

type ValueOptions struct {
	SchemaType SchemaType
	Type       string
	Format     string
	NativeType *NativeType
	Required   bool
	Nullable   bool
}

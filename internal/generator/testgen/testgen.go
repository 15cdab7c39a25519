// Package testgen is a deterministic generator whose hooks decorate names and
// types with readable markers. Its output makes the core's decisions easy
// to assert on.
package testgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/mark3labs/oapigen/internal/codegen"
)

// Config holds the optional behaviour of the generator.
type Config struct {
	// Grouping overrides the default group-by-path strategy.
	Grouping codegen.GroupingStrategy
	// Exclude, when set, excludes every schema it returns true for.
	Exclude func(*codegen.Schema) bool
}

type Generator struct {
	cfg Config
}

var (
	_ codegen.Generator           = (*Generator)(nil)
	_ codegen.SchemaPostProcessor = (*Generator)(nil)
	_ codegen.Exporter            = (*Generator)(nil)
)

func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

func (g *Generator) ToClassName(name string) string    { return name + "_class" }
func (g *Generator) ToIdentifier(name string) string   { return name + "_identifier" }
func (g *Generator) ToConstantName(name string) string { return name + "_constant" }

func (g *Generator) ToEnumMemberName(name string) string {
	return strings.Replace(name, "-", "", 1) + "_enum_member"
}

func (g *Generator) ToOperationName(path string, method codegen.HttpMethod) string {
	return fmt.Sprintf("%s %s operation", method, path)
}

func (g *Generator) ToOperationGroupName(name string) string { return name + " api" }

func (g *Generator) ToSchemaName(name string, _ codegen.SchemaNameOptions) string { return name }

func (g *Generator) ToSuggestedSchemaName(name string, opts codegen.SchemaNameSuggestionOptions) string {
	if opts.Purpose == codegen.PurposeArrayItem || opts.Purpose == codegen.PurposeMapValue {
		name = inflection.Singular(name)
	}
	switch opts.SchemaType {
	case codegen.SchemaEnum:
		name += "_enum"
	case codegen.SchemaObject:
		name += "_model"
	}
	return name
}

func (g *Generator) ToIteratedSchemaName(name string, _ []string, iteration int) string {
	return name + strconv.Itoa(iteration)
}

func (g *Generator) ToLiteral(value any, _ codegen.LiteralOptions) (string, error) {
	return fmt.Sprintf("literal %v", value), nil
}

func (g *Generator) ToNativeType(opts codegen.NativeTypeOptions) (*codegen.NativeType, error) {
	return codegen.NewNativeType(opts.Type), nil
}

func (g *Generator) ToNativeObjectType(opts codegen.NativeObjectTypeOptions) (*codegen.NativeType, error) {
	return codegen.NewNativeType(strings.Join(opts.ScopedName, ".")), nil
}

func (g *Generator) ToNativeArrayType(opts codegen.NativeArrayTypeOptions) (*codegen.NativeType, error) {
	return codegen.NewNativeType("array "+opts.ComponentType.String(), codegen.WithComponentType(opts.ComponentType)), nil
}

func (g *Generator) ToNativeMapType(opts codegen.NativeMapTypeOptions) (*codegen.NativeType, error) {
	return codegen.NewNativeType("map "+opts.ComponentType.String(), codegen.WithComponentType(opts.ComponentType)), nil
}

func (g *Generator) NativeTypeUsageTransformer(codegen.UsageOptions) codegen.NativeTypeTransformer {
	return nil
}

func (g *Generator) DefaultValue(opts codegen.ValueOptions) codegen.Value {
	if !opts.Required {
		return codegen.Value{LiteralValue: "undefined"}
	}
	return zeroValue(opts.SchemaType)
}

func (g *Generator) InitialValue(opts codegen.ValueOptions) *codegen.Value {
	if !opts.Required {
		return nil
	}
	v := zeroValue(opts.SchemaType)
	return &v
}

func zeroValue(t codegen.SchemaType) codegen.Value {
	switch t {
	case codegen.SchemaArray:
		return codegen.Value{Value: []any{}, LiteralValue: "[]"}
	case codegen.SchemaObject:
		return codegen.Value{Value: map[string]any{}, LiteralValue: "{}"}
	case codegen.SchemaNumber:
		return codegen.Value{Value: 0.0, LiteralValue: "0.0"}
	case codegen.SchemaInteger:
		return codegen.Value{Value: 0, LiteralValue: "0"}
	case codegen.SchemaBoolean:
		return codegen.Value{Value: false, LiteralValue: "false"}
	}
	return codegen.Value{LiteralValue: "undefined"}
}

func (g *Generator) OperationGroupingStrategy() codegen.GroupingStrategy {
	if g.cfg.Grouping != nil {
		return g.cfg.Grouping
	}
	return codegen.GroupByPath
}

func (g *Generator) PostProcessSchema(schema *codegen.Schema, _ *codegen.Document) codegen.PostProcessResult {
	if g.cfg.Exclude != nil && g.cfg.Exclude(schema) {
		return codegen.PostProcessExclude
	}
	return codegen.PostProcessKeep
}

func (g *Generator) ExportTemplates(context.Context, string, *codegen.Document) error { return nil }
func (g *Generator) WatchPaths() []string                                             { return nil }
func (g *Generator) CleanPathPatterns() []string                                      { return nil }

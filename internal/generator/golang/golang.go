// Package golang is a Go-flavoured generator. It shapes names and native
// types for Go, and exports a JSON snapshot of the built document that
// templates can be rendered from.
package golang

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jinzhu/inflection"
	"github.com/mark3labs/oapigen/internal/codegen"
)

const (
	goTypeExtension = "x-go-type"
	goNameExtension = "x-go-name"
)

type Generator struct {
	cfg      Config
	grouping codegen.GroupingStrategy
	exclude  map[string]bool
	out      io.Writer
}

var (
	_ codegen.Generator             = (*Generator)(nil)
	_ codegen.SchemaPostProcessor   = (*Generator)(nil)
	_ codegen.DocumentPostProcessor = (*Generator)(nil)
	_ codegen.Exporter              = (*Generator)(nil)
)

// Option configures a Generator.
type Option func(*Generator)

// WithPlanOutput sets where the dry-run plan is printed. It defaults to
// stdout.
func WithPlanOutput(w io.Writer) Option {
	return func(g *Generator) { g.out = w }
}

// New validates cfg and returns a generator for it.
func New(cfg Config, opts ...Option) (*Generator, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grouping, ok := codegen.StrategyNamed(cfg.Grouping)
	if !ok {
		return nil, fmt.Errorf("golang: unknown grouping %q", cfg.Grouping)
	}
	g := &Generator{
		cfg:      cfg,
		grouping: grouping,
		exclude:  make(map[string]bool, len(cfg.ExcludeSchemas)),
		out:      os.Stdout,
	}
	for _, name := range cfg.ExcludeSchemas {
		g.exclude[name] = true
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the validated configuration.
func (g *Generator) Config() Config { return g.cfg }

func (g *Generator) ToClassName(name string) string    { return identifier(pascal(name), "T") }
func (g *Generator) ToIdentifier(name string) string   { return identifier(camel(name), "v") }
func (g *Generator) ToConstantName(name string) string { return identifier(pascal(name), "C") }

func (g *Generator) ToEnumMemberName(name string) string {
	return identifier(pascal(name), "Value")
}

func (g *Generator) ToOperationName(path string, method codegen.HttpMethod) string {
	return identifier(camel(string(method)+" "+path), "op")
}

func (g *Generator) ToOperationGroupName(name string) string {
	return identifier(pascal(name), "Group") + "API"
}

func (g *Generator) ToSchemaName(name string, _ codegen.SchemaNameOptions) string {
	return identifier(pascal(name), "Schema")
}

func (g *Generator) ToSuggestedSchemaName(name string, opts codegen.SchemaNameSuggestionOptions) string {
	if opts.Purpose == codegen.PurposeArrayItem || opts.Purpose == codegen.PurposeMapValue {
		name = inflection.Singular(name)
	}
	switch opts.Purpose {
	case codegen.PurposeRequestBody:
		name += " body"
	case codegen.PurposeArrayItem:
		name += " item"
	case codegen.PurposeMapValue:
		name += " value"
	}
	return name
}

func (g *Generator) ToIteratedSchemaName(name string, _ []string, iteration int) string {
	return name + strconv.Itoa(iteration+1)
}

func (g *Generator) OperationGroupingStrategy() codegen.GroupingStrategy { return g.grouping }

// PostProcessSchema drops the top-level schemas named in ExcludeSchemas.
func (g *Generator) PostProcessSchema(schema *codegen.Schema, _ *codegen.Document) codegen.PostProcessResult {
	if !schema.Owner.Valid() && schema.Indexed && g.exclude[schema.Name] {
		return codegen.PostProcessExclude
	}
	return codegen.PostProcessKeep
}

// PostProcessDocument rejects documents where two models end up with the
// same Go type, which x-go-name renames and scope joining can both cause.
func (g *Generator) PostProcessDocument(doc *codegen.Document) error {
	seen := map[string]string{}
	for _, schema := range doc.Arena {
		if schema.Excluded || !schema.SchemaType.IsModel() || schema.NativeType == nil {
			continue
		}
		t := schema.NativeType.NativeType
		if other, dup := seen[t]; dup {
			return fmt.Errorf("schemas %s and %s both map to Go type %s", other, schema.Pointer, t)
		}
		seen[t] = schema.Pointer
	}
	return nil
}

func (g *Generator) WatchPaths() []string { return g.cfg.Watch }

func (g *Generator) CleanPathPatterns() []string { return []string{"**/*.json"} }

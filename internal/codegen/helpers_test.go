package codegen_test

import (
	"context"
	"testing"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/mark3labs/oapigen/internal/generator/testgen"
	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *input.Document {
	t.Helper()
	in, err := input.Parse([]byte(src), "test.yaml")
	require.NoError(t, err)
	return in
}

func buildWith(t *testing.T, gen codegen.Generator, src string, opts ...codegen.BuildOption) (*codegen.Document, error) {
	t.Helper()
	return codegen.Build(context.Background(), parse(t, src), gen, opts...)
}

func build(t *testing.T, src string, opts ...codegen.BuildOption) *codegen.Document {
	t.Helper()
	doc, err := buildWith(t, testgen.New(testgen.Config{}), src, opts...)
	require.NoError(t, err)
	return doc
}

func firstOperation(t *testing.T, doc *codegen.Document) *codegen.Operation {
	t.Helper()
	require.NotEmpty(t, doc.Groups)
	require.NotEmpty(t, doc.Groups[0].Operations)
	return doc.Groups[0].Operations[0]
}

func param(t *testing.T, params *ordered.Map[string, *codegen.Parameter], name string) *codegen.Parameter {
	t.Helper()
	p, ok := params.Get(name)
	require.True(t, ok, "parameter %q", name)
	return p
}

func property(t *testing.T, s *codegen.Schema, name string) *codegen.Property {
	t.Helper()
	require.NotNil(t, s)
	p, ok := s.Properties.Get(name)
	require.True(t, ok, "property %q of %s", name, s.FullName())
	return p
}

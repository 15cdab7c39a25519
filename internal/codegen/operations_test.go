package codegen_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/mark3labs/oapigen/internal/generator/testgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetPaths = `
openapi: 3.0.3
info: {title: t, version: "1"}
tags:
  - name: widgets
    description: Widget operations
paths:
  /widgets:
    get:
      operationId: listWidgets
      tags: [widgets]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: array, items: {type: string}}
    post:
      operationId: createWidget
      tags: [widgets, admin]
      requestBody:
        content:
          application/xml:
            schema: {type: string}
      responses:
        "204": {description: ok}
  /widgets/{id}:
    delete:
      tags: [admin]
      parameters:
        - {name: id, in: path, schema: {type: string}}
      responses:
        "204": {description: ok}
  /:
    get:
      responses:
        "204": {description: ok}
  x-internal: {}
`

func operationNames(g *codegen.OperationGroup) []string {
	var out []string
	for _, op := range g.Operations {
		out = append(out, op.Name)
	}
	return out
}

func TestGroupByPath(t *testing.T) {
	t.Parallel()
	doc := build(t, widgetPaths)
	require.Len(t, doc.Groups, 2)

	widgets := doc.Groups[0]
	assert.Equal(t, "widgets", widgets.Name)
	assert.Equal(t, "/widgets", widgets.Path)
	assert.Equal(t, "Widget operations", widgets.Description)
	assert.Equal(t, []string{"listWidgets_identifier", "createWidget_identifier", "DELETE /widgets/{id} operation"}, operationNames(widgets))
	assert.Equal(t, "", widgets.Operations[0].Path)
	assert.Equal(t, "/{id}", widgets.Operations[2].Path)
	assert.Equal(t, "/widgets/{id}", widgets.Operations[2].FullPath)
	require.Len(t, widgets.Consumes, 1)
	assert.Equal(t, "application/xml", widgets.Consumes[0].MediaType)
	require.Len(t, widgets.Produces, 1)
	assert.Equal(t, "application/json", widgets.Produces[0].MediaType)

	root := doc.Groups[1]
	assert.Equal(t, "default", root.Name)
	assert.Equal(t, "", root.Path)
	assert.Equal(t, "/", root.Operations[0].Path)
}

func TestGroupByTag(t *testing.T) {
	t.Parallel()
	doc, err := buildWith(t, testgen.New(testgen.Config{Grouping: codegen.GroupByTag}), widgetPaths)
	require.NoError(t, err)

	var names []string
	for _, g := range doc.Groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"widgets", "admin", "default"}, names)
	assert.Len(t, doc.Groups[0].Operations, 2)
	assert.Equal(t, "/widgets", doc.Groups[0].Operations[0].Path, "tag grouping keeps the full path")
}

func TestGroupByTagOrPath(t *testing.T) {
	t.Parallel()
	doc, err := buildWith(t, testgen.New(testgen.Config{Grouping: codegen.GroupByTagOrPath}), widgetPaths)
	require.NoError(t, err)
	require.Len(t, doc.Groups, 3)
	assert.Equal(t, "default", doc.Groups[2].Name)
	assert.Equal(t, "/", doc.Groups[2].Operations[0].Path)
}

func TestStrategyNamed(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]codegen.GroupingStrategy{
		"":            codegen.GroupByPath,
		"path":        codegen.GroupByPath,
		"Tag":         codegen.GroupByTag,
		"tag-or-path": codegen.GroupByTagOrPath,
	} {
		got, ok := codegen.StrategyNamed(name)
		require.True(t, ok, name)
		assert.Equal(t, reflect.ValueOf(want).Pointer(), reflect.ValueOf(got).Pointer(), name)
	}
	_, ok := codegen.StrategyNamed("random")
	assert.False(t, ok)
}

func TestOperationFilters(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		opts []codegen.BuildOption
		want []string
	}{
		{"include tags", []codegen.BuildOption{codegen.WithIncludeTags("admin")}, []string{"createWidget_identifier", "DELETE /widgets/{id} operation"}},
		{"exclude tags", []codegen.BuildOption{codegen.WithExcludeTags("admin")}, []string{"listWidgets_identifier", "GET / operation"}},
		{"methods", []codegen.BuildOption{codegen.WithMethods("post", "DELETE")}, []string{"createWidget_identifier", "DELETE /widgets/{id} operation"}},
		{"paths", []codegen.BuildOption{codegen.WithPathPatterns(`^/widgets/`)}, []string{"DELETE /widgets/{id} operation"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := build(t, widgetPaths, tc.opts...)
			var names []string
			for _, g := range doc.Groups {
				names = append(names, operationNames(g)...)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestInvalidPathPattern(t *testing.T) {
	t.Parallel()
	_, err := buildWith(t, testgen.New(testgen.Config{}), widgetPaths, codegen.WithPathPatterns("("))
	require.Error(t, err)
	assert.ErrorIs(t, err, codegen.ErrInvalidConfiguration)
}

func TestBuildHonoursContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := codegen.Build(ctx, parse(t, widgetPaths), testgen.New(testgen.Config{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOperationSecurity(t *testing.T) {
	t.Parallel()
	doc := build(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
security:
  - key: []
paths:
  /a:
    get:
      security:
        - {}
        - key: []
        - missing: []
      responses:
        "204": {description: ok}
  /b:
    get:
      responses:
        "204": {description: ok}
  /c:
    get:
      security: []
      responses:
        "204": {description: ok}
components:
  securitySchemes:
    key:
      type: apiKey
      name: X-Key
      in: header
`)
	require.Len(t, doc.Groups, 3)

	a := doc.Groups[0].Operations[0].SecurityRequirements
	require.NotNil(t, a)
	assert.True(t, a.Optional)
	require.Len(t, a.Requirements, 1)
	require.Len(t, a.Requirements[0].Schemes, 1)
	assert.Equal(t, "X-Key", a.Requirements[0].Schemes[0].Scheme.ParamName)

	b := doc.Groups[1].Operations[0].SecurityRequirements
	assert.Same(t, doc.SecurityRequirements, b, "operations without security inherit the document's")
	assert.False(t, b.Optional)

	assert.Nil(t, doc.Groups[2].Operations[0].SecurityRequirements)
}

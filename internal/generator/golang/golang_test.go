package golang

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info: {title: Petstore, version: "1"}
paths:
  /pets:
    get:
      operationId: list_pets
      tags: [pets]
      parameters:
        - {name: limit, in: query, schema: {type: integer, format: int32}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
  /health:
    get:
      responses:
        "204": {description: ok}
components:
  schemas:
    Pet:
      type: object
      required: [id, kind]
      properties:
        id: {type: string, format: uuid}
        kind: {$ref: '#/components/schemas/Kind'}
        born: {type: string, format: date-time}
        owner:
          type: object
          properties:
            name: {type: string}
        tags:
          type: array
          items: {type: string}
          default: [a, b]
    Kind:
      type: string
      enum: [cat, dog]
      default: dog
      x-go-name: PetKind
    Money:
      type: string
      x-go-type: decimal.Decimal
    Internal:
      type: object
      properties:
        secret: {type: string}
`

func buildDoc(t *testing.T, g *Generator) *codegen.Document {
	t.Helper()
	in, err := input.Parse([]byte(petstore), "petstore.yaml")
	require.NoError(t, err)
	doc, err := codegen.Build(context.Background(), in, g)
	require.NoError(t, err)
	return doc
}

func findOperation(t *testing.T, doc *codegen.Document, name string) *codegen.Operation {
	t.Helper()
	for _, group := range doc.Groups {
		for _, op := range group.Operations {
			if op.Name == name {
				return op
			}
		}
	}
	t.Fatalf("operation %s not found", name)
	return nil
}

func newGenerator(t *testing.T, cfg Config, opts ...Option) *Generator {
	t.Helper()
	g, err := New(cfg, opts...)
	require.NoError(t, err)
	return g
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"packageName":         "petstore",
		"useOptionalPointers": true,
		"grouping":            "tag",
	})
	require.NoError(t, err)
	assert.Equal(t, "petstore", cfg.PackageName)
	assert.Equal(t, "document.json", cfg.OutputFile)
	assert.Equal(t, "time.Time", cfg.DateTimeType)
	assert.True(t, cfg.UseOptionalPointers)
}

func TestDecodeConfigRejects(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown key":      {"packageName": "p", "colour": "blue"},
		"missing package":  {"grouping": "path"},
		"keyword package":  {"packageName": "func"},
		"bad grouping":     {"packageName": "p", "grouping": "random"},
		"bad time type":    {"packageName": "p", "dateTimeType": "int"},
		"nested output":    {"packageName": "p", "outputFile": "a/b.json"},
		"empty exclusion":  {"packageName": "p", "excludeSchemas": []string{""}},
		"wrong value type": {"packageName": []string{"x"}},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeConfig(opts)
			assert.Error(t, err)
		})
	}
}

func TestValidationNamesTheOption(t *testing.T) {
	_, err := DecodeConfig(map[string]any{"grouping": "random"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "packageName")
	assert.Contains(t, err.Error(), "grouping")
}

func TestValidatorRegistrationFails(t *testing.T) {
	_, err := newValidator(map[string]validator.Func{"": configRules["goident"]})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `register "" rule`)

	v, err := configValidator()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestNaming(t *testing.T) {
	g := newGenerator(t, Config{PackageName: "api"})

	assert.Equal(t, "PetOwner", g.ToClassName("pet_owner"))
	assert.Equal(t, "petID", g.ToIdentifier("pet_id"))
	assert.Equal(t, "type_", g.ToIdentifier("type"))
	assert.Equal(t, "HTTPServer", g.ToClassName("HTTPServer"))
	assert.Equal(t, "Value42", g.ToEnumMemberName("42"))
	assert.Equal(t, "getPetsID", g.ToOperationName("/pets/{id}", codegen.GET))
	assert.Equal(t, "PetsAPI", g.ToOperationGroupName("pets"))
	assert.Equal(t, "Pet2", g.ToIteratedSchemaName("Pet", nil, 1))
	assert.Equal(t, "tag item", g.ToSuggestedSchemaName("tags", codegen.SchemaNameSuggestionOptions{
		SchemaType: codegen.SchemaObject,
		Purpose:    codegen.PurposeArrayItem,
	}))
}

func TestNativeTypes(t *testing.T) {
	g := newGenerator(t, Config{PackageName: "api", UseOptionalPointers: true})
	doc := buildDoc(t, g)

	pet := doc.Lookup("Pet")
	require.NotNil(t, pet)
	prop := func(name string) *codegen.Property {
		p, ok := pet.Properties.Get(name)
		require.True(t, ok, name)
		return p
	}

	assert.Equal(t, "string", prop("id").NativeType.String())
	assert.Equal(t, "PetKind", prop("kind").NativeType.String(), "x-go-name renames every usage")
	assert.Equal(t, "*time.Time", prop("born").NativeType.String())
	assert.Equal(t, "string", prop("born").NativeType.SerializedType())
	assert.Equal(t, "*PetOwner", prop("owner").NativeType.String())
	assert.Equal(t, "[]string", prop("tags").NativeType.String())
	assert.Equal(t, `[]string{"a", "b"}`, prop("tags").DefaultValue.LiteralValue)
	assert.Equal(t, "nil", prop("owner").DefaultValue.LiteralValue)
	assert.Equal(t, `""`, prop("id").DefaultValue.LiteralValue)

	kind := doc.Lookup("Kind")
	assert.Equal(t, []string{"Cat", "Dog"}, kind.EnumValues.Keys())
	assert.Equal(t, `PetKind("dog")`, prop("kind").DefaultValue.LiteralValue)
	assert.Equal(t, "Kind", kind.NativeType.SerializedType)

	assert.Nil(t, doc.Lookup("Money"), "scalars are not models")

	op := findOperation(t, doc, "listPets")
	assert.Equal(t, "[]Pet", op.ReturnType)
	limit, _ := op.QueryParams.Get("limit")
	assert.Equal(t, "*int32", limit.NativeType.String())
}

func TestGoTypeOverride(t *testing.T) {
	g := newGenerator(t, Config{PackageName: "api"})
	nt, err := g.ToNativeType(codegen.NativeTypeOptions{
		SchemaType:       codegen.SchemaString,
		Type:             "string",
		VendorExtensions: ordered.Of(ordered.Entry[string, any]{Key: "x-go-type", Value: "decimal.Decimal"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "decimal.Decimal", nt.String())
}

func TestDuplicateGoTypes(t *testing.T) {
	const spec = `
openapi: 3.0.3
info: {title: Clash, version: "1"}
paths: {}
components:
  schemas:
    Pet: {type: object, properties: {name: {type: string}}}
    Animal:
      type: object
      x-go-name: Pet
      properties:
        legs: {type: integer}
`
	in, err := input.Parse([]byte(spec), "clash.yaml")
	require.NoError(t, err)
	_, err = codegen.Build(context.Background(), in, newGenerator(t, Config{PackageName: "api"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Go type Pet")
}

func TestExcludeSchemas(t *testing.T) {
	g := newGenerator(t, Config{PackageName: "api", ExcludeSchemas: []string{"Internal"}})
	doc := buildDoc(t, g)
	assert.Nil(t, doc.Lookup("Internal"))
	assert.NotNil(t, doc.Lookup("Pet"))
}

func TestExportTemplates(t *testing.T) {
	dir := t.TempDir()
	g := newGenerator(t, Config{PackageName: "petstore", Grouping: "tag"})
	doc := buildDoc(t, g)

	require.NoError(t, g.ExportTemplates(context.Background(), dir, doc))

	raw, err := os.ReadFile(filepath.Join(dir, "document.json"))
	require.NoError(t, err)
	var snap struct {
		PackageName string `json:"packageName"`
		Document    struct {
			Schemas map[string]int `json:"schemas"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "petstore", snap.PackageName)
	assert.Contains(t, snap.Document.Schemas, "Pet")

	for _, name := range []string{"pets.json", "default.json"} {
		_, err := os.Stat(filepath.Join(dir, "groups", name))
		assert.NoError(t, err, name)
	}

	err = g.ExportTemplates(context.Background(), dir, doc)
	require.Error(t, err, "non-empty output needs force")
	assert.Contains(t, err.Error(), "--force")

	forced := newGenerator(t, Config{PackageName: "petstore", Force: true})
	assert.NoError(t, forced.ExportTemplates(context.Background(), dir, doc))
}

func TestExportDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var buf bytes.Buffer
	g := newGenerator(t, Config{PackageName: "petstore", DryRun: true}, WithPlanOutput(&buf))
	doc := buildDoc(t, g)

	require.NoError(t, g.ExportTemplates(context.Background(), dir, doc))
	assert.Contains(t, buf.String(), "document.json")
	assert.Contains(t, buf.String(), "groups/pets.json")
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")

	_, planned, err := g.Plan(doc)
	require.NoError(t, err)
	require.Len(t, planned, 3)
	assert.Equal(t, "document.json", planned[0].RelPath)
}

func TestPatterns(t *testing.T) {
	g := newGenerator(t, Config{PackageName: "api", Watch: []string{"templates/model.tmpl"}})
	assert.Equal(t, []string{"templates/model.tmpl"}, g.WatchPaths())
	assert.Equal(t, []string{"**/*.json"}, g.CleanPathPatterns())
}

package testgen

import (
	"testing"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamingHooks(t *testing.T) {
	g := New(Config{})

	assert.Equal(t, "pet_class", g.ToClassName("pet"))
	assert.Equal(t, "ab-c_enum_member", g.ToEnumMemberName("a-b-c"))
	assert.Equal(t, "GET /pets operation", g.ToOperationName("/pets", codegen.GET))
	assert.Equal(t, "pets api", g.ToOperationGroupName("pets"))
	assert.Equal(t, "Pet3", g.ToIteratedSchemaName("Pet", nil, 3))

	assert.Equal(t, "tag_model", g.ToSuggestedSchemaName("tags", codegen.SchemaNameSuggestionOptions{
		SchemaType: codegen.SchemaObject,
		Purpose:    codegen.PurposeArrayItem,
	}))
	assert.Equal(t, "colors_enum", g.ToSuggestedSchemaName("colors", codegen.SchemaNameSuggestionOptions{
		SchemaType: codegen.SchemaEnum,
		Purpose:    codegen.PurposeProperty,
	}))
}

func TestNativeTypes(t *testing.T) {
	g := New(Config{})

	obj, err := g.ToNativeObjectType(codegen.NativeObjectTypeOptions{ScopedName: []string{"Pet", "owner_model"}})
	require.NoError(t, err)
	assert.Equal(t, "Pet.owner_model", obj.String())

	arr, err := g.ToNativeArrayType(codegen.NativeArrayTypeOptions{ComponentType: obj})
	require.NoError(t, err)
	assert.Equal(t, "array Pet.owner_model", arr.String())
	assert.Same(t, obj, arr.ComponentType)

	m, err := g.ToNativeMapType(codegen.NativeMapTypeOptions{ComponentType: codegen.NewNativeType("integer")})
	require.NoError(t, err)
	assert.Equal(t, "map integer", m.String())
}

func TestValues(t *testing.T) {
	g := New(Config{})

	assert.Equal(t, "undefined", g.DefaultValue(codegen.ValueOptions{SchemaType: codegen.SchemaInteger}).LiteralValue)
	assert.Nil(t, g.InitialValue(codegen.ValueOptions{SchemaType: codegen.SchemaInteger}))

	for st, want := range map[codegen.SchemaType]string{
		codegen.SchemaArray:   "[]",
		codegen.SchemaObject:  "{}",
		codegen.SchemaNumber:  "0.0",
		codegen.SchemaInteger: "0",
		codegen.SchemaBoolean: "false",
		codegen.SchemaString:  "undefined",
	} {
		opts := codegen.ValueOptions{SchemaType: st, Required: true}
		assert.Equal(t, want, g.DefaultValue(opts).LiteralValue, st)
		require.NotNil(t, g.InitialValue(opts), st)
		assert.Equal(t, want, g.InitialValue(opts).LiteralValue, st)
	}
}

func TestExclusion(t *testing.T) {
	g := New(Config{Exclude: func(s *codegen.Schema) bool { return s.Name == "Drop" }})
	assert.Equal(t, codegen.PostProcessExclude, g.PostProcessSchema(&codegen.Schema{Name: "Drop"}, nil))
	assert.Equal(t, codegen.PostProcessKeep, g.PostProcessSchema(&codegen.Schema{Name: "Keep"}, nil))
}

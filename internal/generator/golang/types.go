package golang

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/oapigen/internal/codegen"
)

// goType returns the x-go-type override of a schema, if any.
func goType(ext *codegen.VendorExtensions) (string, bool) {
	return stringExtension(ext, goTypeExtension)
}

func stringExtension(ext *codegen.VendorExtensions, key string) (string, bool) {
	if ext == nil {
		return "", false
	}
	v, ok := ext.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

func (g *Generator) ToNativeType(opts codegen.NativeTypeOptions) (*codegen.NativeType, error) {
	if t, ok := goType(opts.VendorExtensions); ok {
		return codegen.NewNativeType(t), nil
	}
	switch opts.SchemaType {
	case codegen.SchemaString:
		if opts.Format == "byte" {
			return codegen.NewNativeType("[]byte", codegen.WithSerializedType("string")), nil
		}
		return codegen.NewNativeType("string"), nil
	case codegen.SchemaInteger:
		if opts.Format == "int32" {
			return codegen.NewNativeType("int32"), nil
		}
		return codegen.NewNativeType("int64"), nil
	case codegen.SchemaNumber:
		if opts.Format == "float" {
			return codegen.NewNativeType("float32"), nil
		}
		return codegen.NewNativeType("float64"), nil
	case codegen.SchemaBoolean:
		return codegen.NewNativeType("bool"), nil
	case codegen.SchemaDateTime:
		return codegen.NewNativeType(g.cfg.DateTimeType, codegen.WithSerializedType("string")), nil
	case codegen.SchemaDate, codegen.SchemaTime:
		return codegen.NewNativeType("string"), nil
	case codegen.SchemaFile:
		return codegen.NewNativeType("[]byte"), nil
	}
	return nil, fmt.Errorf("no Go type for %s schema", opts.SchemaType)
}

// ToNativeObjectType names nested models by joining their scope, so Pet's
// inline Owner becomes PetOwner. x-go-name replaces the joined name.
func (g *Generator) ToNativeObjectType(opts codegen.NativeObjectTypeOptions) (*codegen.NativeType, error) {
	if t, ok := goType(opts.VendorExtensions); ok {
		return codegen.NewNativeType(t), nil
	}
	if name, ok := stringExtension(opts.VendorExtensions, goNameExtension); ok {
		return codegen.NewNativeType(name, codegen.WithSerializedType(opts.Name)), nil
	}
	if len(opts.ScopedName) == 0 {
		return nil, fmt.Errorf("object type has no name")
	}
	name := strings.Join(opts.ScopedName, "")
	return codegen.NewNativeType(name, codegen.WithSerializedType(opts.Name)), nil
}

func (g *Generator) ToNativeArrayType(opts codegen.NativeArrayTypeOptions) (*codegen.NativeType, error) {
	if t, ok := goType(opts.VendorExtensions); ok {
		return codegen.NewNativeType(t, codegen.WithComponentType(opts.ComponentType)), nil
	}
	if opts.ComponentType == nil {
		return nil, fmt.Errorf("array type has no component")
	}
	t := "[]" + opts.ComponentType.NativeType
	return codegen.NewNativeType(t, codegen.WithComponentType(opts.ComponentType)), nil
}

func (g *Generator) ToNativeMapType(opts codegen.NativeMapTypeOptions) (*codegen.NativeType, error) {
	if t, ok := goType(opts.VendorExtensions); ok {
		return codegen.NewNativeType(t, codegen.WithComponentType(opts.ComponentType)), nil
	}
	if opts.ComponentType == nil {
		return nil, fmt.Errorf("map type has no component")
	}
	key := "string"
	if opts.KeyType != nil {
		key = opts.KeyType.NativeType
	}
	t := "map[" + key + "]" + opts.ComponentType.NativeType
	return codegen.NewNativeType(t, codegen.WithComponentType(opts.ComponentType)), nil
}

// NativeTypeUsageTransformer makes optional and nullable usages of scalars
// and models pointers when UseOptionalPointers is set. Slices and maps are
// already nillable.
func (g *Generator) NativeTypeUsageTransformer(opts codegen.UsageOptions) codegen.NativeTypeTransformer {
	if !g.cfg.UseOptionalPointers || opts.SchemaType.IsCollection() || (opts.Required && !opts.Nullable) {
		return nil
	}
	return func(_ *codegen.NativeType, field codegen.NativeTypeField, value string) string {
		if field != codegen.FieldNativeType || value == "" || strings.HasPrefix(value, "[]") {
			return value
		}
		return "*" + value
	}
}

// ToLiteral renders value as a Go expression of the target type.
func (g *Generator) ToLiteral(value any, opts codegen.LiteralOptions) (string, error) {
	var component *codegen.NativeType
	typeName := ""
	if opts.NativeType != nil {
		component = opts.NativeType.ComponentType
		typeName = opts.NativeType.LiteralType
	}
	if opts.SchemaType == codegen.SchemaEnum && typeName != "" && value != nil {
		lit, err := scalarLiteral(value)
		if err != nil {
			return "", err
		}
		return typeName + "(" + lit + ")", nil
	}
	return literal(value, typeName, component)
}

func literal(value any, typeName string, component *codegen.NativeType) (string, error) {
	switch v := value.(type) {
	case []any:
		if typeName == "" {
			return "", fmt.Errorf("cannot render untyped list %v", v)
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			lit, err := literal(item, componentType(component), componentOf(component))
			if err != nil {
				return "", err
			}
			parts = append(parts, lit)
		}
		return typeName + "{" + strings.Join(parts, ", ") + "}", nil
	case map[string]any:
		if typeName == "" || !strings.HasPrefix(typeName, "map[") {
			return "", fmt.Errorf("cannot render object literal %v as %q", v, typeName)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			lit, err := literal(v[k], componentType(component), componentOf(component))
			if err != nil {
				return "", err
			}
			parts = append(parts, strconv.Quote(k)+": "+lit)
		}
		return typeName + "{" + strings.Join(parts, ", ") + "}", nil
	}
	return scalarLiteral(value)
}

func componentType(c *codegen.NativeType) string {
	if c == nil {
		return ""
	}
	return c.LiteralType
}

func componentOf(c *codegen.NativeType) *codegen.NativeType {
	if c == nil {
		return nil
	}
	return c.ComponentType
}

func scalarLiteral(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "nil", nil
	case string:
		return strconv.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("cannot render %T as a Go literal", value)
}

// DefaultValue is the Go zero value of the usage, or nil for optional
// pointer usages.
func (g *Generator) DefaultValue(opts codegen.ValueOptions) codegen.Value {
	if g.cfg.UseOptionalPointers && !opts.SchemaType.IsCollection() && (!opts.Required || opts.Nullable) {
		return codegen.Value{LiteralValue: "nil"}
	}
	return zeroValue(opts)
}

func (g *Generator) InitialValue(opts codegen.ValueOptions) *codegen.Value {
	if !opts.Required {
		return nil
	}
	v := g.DefaultValue(opts)
	return &v
}

func zeroValue(opts codegen.ValueOptions) codegen.Value {
	switch opts.SchemaType {
	case codegen.SchemaString, codegen.SchemaDate, codegen.SchemaTime:
		return codegen.Value{Value: "", LiteralValue: `""`}
	case codegen.SchemaInteger:
		return codegen.Value{Value: 0, LiteralValue: "0"}
	case codegen.SchemaNumber:
		return codegen.Value{Value: 0.0, LiteralValue: "0"}
	case codegen.SchemaBoolean:
		return codegen.Value{Value: false, LiteralValue: "false"}
	case codegen.SchemaArray, codegen.SchemaMap, codegen.SchemaFile:
		return codegen.Value{LiteralValue: "nil"}
	}
	if opts.NativeType == nil || opts.NativeType.LiteralType == "" {
		return codegen.Value{LiteralValue: "nil"}
	}
	t := opts.NativeType.LiteralType
	switch {
	case t == "string":
		return codegen.Value{Value: "", LiteralValue: `""`}
	case opts.SchemaType == codegen.SchemaEnum:
		return codegen.Value{LiteralValue: "*new(" + t + ")"}
	}
	return codegen.Value{LiteralValue: t + "{}"}
}

package codegen

import (
	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// buildEnum fills the members of an enum schema. Members are keyed by their
// generated name; a later value that maps to an existing name is dropped.
func (s *State) buildEnum(sch *Schema, n *yaml.Node) error {
	values := input.Items(input.Field(n, "enum"))

	memberType := sch.Type
	if memberType == "" {
		memberType = inferScalarType(values)
		sch.Type = memberType
	}
	sch.EnumValueType = scalarSchemaType(memberType, sch.Format)
	nt, err := s.gen.ToNativeType(NativeTypeOptions{
		SchemaType:       sch.EnumValueType,
		Type:             memberType,
		Format:           sch.Format,
		VendorExtensions: sch.VendorExtensions,
	})
	if err != nil {
		return hookError("ToNativeType", sch.Pointer, n, err)
	}
	sch.EnumValueNativeType = nt

	names := input.Strings(n, "x-enum-varnames")
	if len(names) == 0 {
		names = input.Strings(n, "x-enumNames")
	}
	descriptions := input.Strings(n, "x-enum-descriptions")

	members := ordered.New[string, *EnumValue]()
	for i, item := range values {
		if input.IsNull(item) {
			continue
		}
		raw, err := input.Decode(item)
		if err != nil {
			return unsupported(sch.Pointer, item, "enum value %q: %v", item.Value, err)
		}
		source := item.Value
		if i < len(names) && names[i] != "" {
			source = names[i]
		}
		name := s.gen.ToEnumMemberName(source)
		if members.Has(name) {
			s.log.Debug("duplicate enum member", zap.String("pointer", sch.Pointer), zap.String("member", name))
			continue
		}
		literal, err := s.gen.ToLiteral(raw, LiteralOptions{
			SchemaType: sch.EnumValueType,
			Type:       memberType,
			Format:     sch.Format,
			NativeType: nt,
			Required:   true,
		})
		if err != nil {
			return hookError("ToLiteral", sch.Pointer, item, err)
		}
		value := &EnumValue{Name: name, Value: raw, LiteralValue: literal}
		if i < len(descriptions) {
			value.Description = descriptions[i]
		}
		members.Set(name, value)
	}
	sch.EnumValues = members
	return nil
}

// inferScalarType guesses the member type of an untyped enum from its first
// non-null value.
func inferScalarType(values []*yaml.Node) string {
	for _, v := range values {
		if input.IsNull(v) {
			continue
		}
		switch v.Tag {
		case "!!int":
			return "integer"
		case "!!float":
			return "number"
		case "!!bool":
			return "boolean"
		}
		return "string"
	}
	return "string"
}

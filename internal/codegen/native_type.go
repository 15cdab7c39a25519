package codegen

import (
	"encoding/json"
)

// NativeType is a type in the target language. Different positions may need
// different spellings of the same type, so each has its own field.
type NativeType struct {
	// NativeType is the type as used in declarations.
	NativeType string `json:"nativeType"`
	// SerializedType is the type as it appears on the wire.
	SerializedType string `json:"serializedType"`
	// LiteralType is the type used when writing literals of it.
	LiteralType string `json:"literalType"`
	// ConcreteType is an instantiable type, for languages where NativeType
	// may be an interface.
	ConcreteType string `json:"concreteType"`
	// ParentType is the type used when this type is extended.
	ParentType    string      `json:"parentType"`
	ComponentType *NativeType `json:"componentType,omitempty"`
}

type NativeTypeOption func(*NativeType)

func WithSerializedType(t string) NativeTypeOption {
	return func(n *NativeType) { n.SerializedType = t }
}

func WithLiteralType(t string) NativeTypeOption {
	return func(n *NativeType) { n.LiteralType = t }
}

func WithConcreteType(t string) NativeTypeOption {
	return func(n *NativeType) { n.ConcreteType = t }
}

func WithParentType(t string) NativeTypeOption {
	return func(n *NativeType) { n.ParentType = t }
}

func WithComponentType(c *NativeType) NativeTypeOption {
	return func(n *NativeType) { n.ComponentType = c }
}

// NewNativeType returns a NativeType for t. Spellings not set by an option
// default to t.
func NewNativeType(t string, opts ...NativeTypeOption) *NativeType {
	n := &NativeType{NativeType: t}
	for _, opt := range opts {
		opt(n)
	}
	for _, f := range []*string{&n.SerializedType, &n.LiteralType, &n.ConcreteType, &n.ParentType} {
		if *f == "" {
			*f = t
		}
	}
	return n
}

func (n *NativeType) String() string {
	if n == nil {
		return ""
	}
	return n.NativeType
}

// NativeTypeField names one spelling of a NativeType.
type NativeTypeField int

const (
	FieldNativeType NativeTypeField = iota
	FieldSerializedType
	FieldLiteralType
	FieldConcreteType
	FieldParentType
)

// NativeTypeTransformer rewrites one spelling of a native type for a
// particular use. A nil transformer leaves every spelling unchanged.
type NativeTypeTransformer func(nt *NativeType, field NativeTypeField, value string) string

// UsageNativeType is a view of a schema's native type at one use site. The
// transformer runs on every access, so replacing the schema's NativeType in
// a post-process hook is reflected in every usage.
type UsageNativeType struct {
	schema    *Schema
	transform NativeTypeTransformer
}

func newUsageNativeType(schema *Schema, transform NativeTypeTransformer) *UsageNativeType {
	return &UsageNativeType{schema: schema, transform: transform}
}

// Base returns the schema's untransformed native type.
func (u *UsageNativeType) Base() *NativeType {
	if u == nil || u.schema == nil {
		return nil
	}
	return u.schema.NativeType
}

func (u *UsageNativeType) field(f NativeTypeField) string {
	base := u.Base()
	if base == nil {
		return ""
	}
	var v string
	switch f {
	case FieldNativeType:
		v = base.NativeType
	case FieldSerializedType:
		v = base.SerializedType
	case FieldLiteralType:
		v = base.LiteralType
	case FieldConcreteType:
		v = base.ConcreteType
	case FieldParentType:
		v = base.ParentType
	}
	if u.transform == nil {
		return v
	}
	return u.transform(base, f, v)
}

func (u *UsageNativeType) NativeType() string     { return u.field(FieldNativeType) }
func (u *UsageNativeType) SerializedType() string { return u.field(FieldSerializedType) }
func (u *UsageNativeType) LiteralType() string    { return u.field(FieldLiteralType) }
func (u *UsageNativeType) ConcreteType() string   { return u.field(FieldConcreteType) }
func (u *UsageNativeType) ParentType() string     { return u.field(FieldParentType) }

// ComponentType returns the base's component type, untransformed.
func (u *UsageNativeType) ComponentType() *NativeType {
	if base := u.Base(); base != nil {
		return base.ComponentType
	}
	return nil
}

func (u *UsageNativeType) String() string { return u.NativeType() }

func (u *UsageNativeType) MarshalJSON() ([]byte, error) {
	if u.Base() == nil {
		return []byte("null"), nil
	}
	return json.Marshal(&NativeType{
		NativeType:     u.NativeType(),
		SerializedType: u.SerializedType(),
		LiteralType:    u.LiteralType(),
		ConcreteType:   u.ConcreteType(),
		ParentType:     u.ParentType(),
		ComponentType:  u.ComponentType(),
	})
}

package codegen

import (
	"github.com/mark3labs/oapigen/internal/input"
	"gopkg.in/yaml.v3"
)

// schemaUsage builds the schema at n and returns its usage at that site.
func (s *State) schemaUsage(n *yaml.Node, req schemaRequest) (*SchemaUsage, error) {
	id, err := s.buildSchema(n, req)
	if err != nil {
		return nil, err
	}
	return s.usageOf(id, req.required, n, req.pointer)
}

// stringUsage is the usage of the shared fallback schema {type: string}.
func (s *State) stringUsage(pointer string, required bool) (*SchemaUsage, error) {
	return s.schemaUsage(s.stringNode, schemaRequest{pointer: pointer, required: required})
}

// usageOf wraps schema id at a use site. Flags declared next to a $ref at
// the site override the schema's own.
func (s *State) usageOf(id SchemaID, required bool, site *yaml.Node, pointer string) (*SchemaUsage, error) {
	sch := s.schema(id)
	u := &SchemaUsage{
		Schema:     id,
		SchemaType: sch.SchemaType,
		Type:       sch.Type,
		Format:     sch.Format,
		Required:   required,
		Nullable:   sch.Nullable,
		ReadOnly:   sch.ReadOnly,
		WriteOnly:  sch.WriteOnly,
		Deprecated: sch.Deprecated,
	}
	if site = input.Resolve(site); site != nil && site != sch.node {
		if b, ok := input.Bool(site, "nullable"); ok {
			u.Nullable = b
		}
		if b, ok := input.Bool(site, "x-nullable"); ok {
			u.Nullable = b
		}
		if b, ok := input.Bool(site, "readOnly"); ok {
			u.ReadOnly = b
		}
		if b, ok := input.Bool(site, "writeOnly"); ok {
			u.WriteOnly = b
		}
		if b, ok := input.Bool(site, "deprecated"); ok {
			u.Deprecated = b
		}
	}
	s.bindUsage(u)

	def := input.Field(site, "default")
	if def == nil {
		def = input.Field(sch.node, "default")
	}
	if def != nil {
		// Copies of u share the value, so it can be filled in later.
		v := &Value{}
		u.DefaultValue = v
		err := s.whenReady(id, func() error {
			ev, err := s.explicitValue(def, u, pointer)
			if err != nil {
				return err
			}
			*v = *ev
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

// assignValues sets the default and initial values of prop. A declared
// default is both; otherwise the generator's value hooks decide.
func (s *State) assignValues(prop *Property) error {
	if prop.declaredDefault {
		prop.InitialValue = prop.DefaultValue
		return nil
	}
	return s.whenReady(prop.Schema, func() error {
		opts := valueOptions(&prop.SchemaUsage)
		v := s.gen.DefaultValue(opts)
		prop.DefaultValue = &v
		prop.InitialValue = s.gen.InitialValue(opts)
		return nil
	})
}

// bindUsage attaches the generator's usage view to u. It must be called
// again whenever the flags of u change.
func (s *State) bindUsage(u *SchemaUsage) {
	transform := s.gen.NativeTypeUsageTransformer(UsageOptions{
		SchemaType: u.SchemaType,
		Required:   u.Required,
		Nullable:   u.Nullable,
		ReadOnly:   u.ReadOnly,
		WriteOnly:  u.WriteOnly,
	})
	u.NativeType = newUsageNativeType(s.schema(u.Schema), transform)
}

func (s *State) literal(value any, u *SchemaUsage, pointer string, at *yaml.Node) (string, error) {
	lit, err := s.gen.ToLiteral(value, LiteralOptions{
		SchemaType: u.SchemaType,
		Type:       u.Type,
		Format:     u.Format,
		NativeType: u.NativeType.Base(),
		Required:   u.Required,
	})
	if err != nil {
		return "", hookError("ToLiteral", pointer, at, err)
	}
	return lit, nil
}

func (s *State) explicitValue(n *yaml.Node, u *SchemaUsage, pointer string) (*Value, error) {
	raw, err := input.Decode(n)
	if err != nil {
		return nil, unsupported(pointer, n, "cannot decode value: %v", err)
	}
	lit, err := s.literal(raw, u, pointer, n)
	if err != nil {
		return nil, err
	}
	return &Value{Value: raw, LiteralValue: lit}, nil
}

func valueOptions(u *SchemaUsage) ValueOptions {
	return ValueOptions{
		SchemaType: u.SchemaType,
		Type:       u.Type,
		Format:     u.Format,
		NativeType: u.NativeType.Base(),
		Required:   u.Required,
		Nullable:   u.Nullable,
	}
}

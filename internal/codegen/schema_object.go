package codegen

import (
	"slices"
	"strconv"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"gopkg.in/yaml.v3"
)

func (s *State) buildObject(sch *Schema, n *yaml.Node) error {
	required := make(map[string]bool)
	collectRequired(n, required)

	if err := s.applyAllOf(sch, n, sch.Pointer, required); err != nil {
		return err
	}
	if err := s.addProperties(sch, input.Field(n, "properties"), joinPointer(sch.Pointer, "properties"), required); err != nil {
		return err
	}
	if sch.Properties != nil {
		if ap := input.Field(n, "additionalProperties"); isSchemaNode(ap) {
			// An object with both properties and additionalProperties keeps
			// the extra values in an anonymous map schema.
			holder := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "type"},
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "object"},
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "additionalProperties"},
				ap,
			}}
			id, err := s.buildSchema(holder, schemaRequest{
				pointer:   joinPointer(sch.Pointer, "additionalProperties"),
				suggested: sch.Name,
				purpose:   PurposeProperty,
				owner:     sch.ID,
			})
			if err != nil {
				return err
			}
			sch.AdditionalProperties = id
		}
	}
	s.readDiscriminator(sch, n)
	sch.MinProperties = optInt(n, "minProperties")
	sch.MaxProperties = optInt(n, "maxProperties")

	return s.applyOneOf(sch, n)
}

// collectRequired gathers required property names from n and its inline
// allOf members.
func collectRequired(n *yaml.Node, into map[string]bool) {
	for _, name := range input.Strings(n, "required") {
		into[name] = true
	}
	for _, member := range input.Items(input.Field(n, "allOf")) {
		if _, isRef := input.Ref(member); !isRef {
			collectRequired(member, into)
		}
	}
}

func (s *State) addProperties(sch *Schema, props *yaml.Node, pointer string, required map[string]bool) error {
	for name, pn := range input.Pairs(props) {
		ptr := joinPointer(pointer, name)
		usage, err := s.schemaUsage(pn, schemaRequest{
			pointer:   ptr,
			suggested: name,
			purpose:   PurposeProperty,
			owner:     sch.ID,
			required:  required[name],
		})
		if err != nil {
			return err
		}
		prop := &Property{
			Name:             name,
			Identifier:       s.gen.ToIdentifier(name),
			Description:      input.Str(pn, "description"),
			SchemaUsage:      *usage,
			VendorExtensions: input.Extensions(pn),
		}
		if prop.Description == "" {
			prop.Description = s.schema(usage.Schema).Description
		}
		prop.declaredDefault = prop.DefaultValue != nil
		if err := s.assignValues(prop); err != nil {
			return err
		}
		if sch.Properties == nil {
			sch.Properties = ordered.New[string, *Property]()
		}
		sch.Properties.Set(name, prop)
	}
	return nil
}

// applyAllOf resolves allOf members into the composite sch. The first
// referenced object that carries state becomes the parent, referenced
// marker objects become interfaces, and everything else is merged.
func (s *State) applyAllOf(sch *Schema, n *yaml.Node, pointer string, required map[string]bool) error {
	for i, member := range input.Items(input.Field(n, "allOf")) {
		ptr := joinPointer(pointer, "allOf", strconv.Itoa(i))
		if _, isRef := input.Ref(member); !isRef {
			if err := s.mergeInline(sch, member, ptr, required); err != nil {
				return err
			}
			continue
		}

		id, err := s.buildSchema(member, schemaRequest{pointer: ptr, purpose: PurposeModel})
		if err != nil {
			return err
		}
		target := s.schema(id)
		switch {
		case target.SchemaType.IsCollection():
			if sch.collectionParent.Valid() {
				return unsupported(ptr, member, "only one collection parent is supported")
			}
			sch.collectionParent = id
			parentType := func() error {
				nt, err := s.collectionType(target, CollectionParent)
				if err != nil {
					return err
				}
				sch.ParentNativeType = nt
				return nil
			}
			if err := s.whenReady(id, parentType); err != nil {
				return err
			}
		case target.SchemaType != SchemaObject:
			return unsupported(ptr, member, "allOf member %s is a %s, not an object", target.Pointer, target.SchemaType)
		case isInterfaceCandidate(target.node):
			target.IsInterface = true
			s.implement(sch, target)
		case !sch.Parent.Valid():
			sch.Parent = id
			target.Children = appendID(target.Children, sch.ID)
		default:
			if _, busy := s.building[id]; busy {
				return unsupported(ptr, member, "circular allOf through %s", target.Pointer)
			}
			if err := s.mergeProperties(sch, target, required); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *State) mergeInline(sch *Schema, member *yaml.Node, pointer string, required map[string]bool) error {
	if input.Has(member, "anyOf") {
		return unsupported(pointer, member, "anyOf composition is not supported")
	}
	if err := s.applyAllOf(sch, member, pointer, required); err != nil {
		return err
	}
	if err := s.addProperties(sch, input.Field(member, "properties"), joinPointer(pointer, "properties"), required); err != nil {
		return err
	}
	if sch.Discriminator == nil {
		s.readDiscriminator(sch, member)
	}
	return nil
}

// mergeProperties copies the properties of from into sch, applying the
// composite's required list. A property that becomes required gets the
// values of a required property.
func (s *State) mergeProperties(sch, from *Schema, required map[string]bool) error {
	for name, p := range from.Properties.All() {
		merged := *p
		if required[name] && !merged.Required {
			merged.Required = true
			s.bindUsage(&merged.SchemaUsage)
			if err := s.assignValues(&merged); err != nil {
				return err
			}
		} else if merged.NativeType.Base() == nil {
			// The source property's values are still pending.
			if err := s.assignValues(&merged); err != nil {
				return err
			}
		}
		if sch.Properties == nil {
			sch.Properties = ordered.New[string, *Property]()
		}
		sch.Properties.Set(name, &merged)
	}
	return nil
}

func (s *State) applyOneOf(sch *Schema, n *yaml.Node) error {
	members := input.Items(input.Field(n, "oneOf"))
	if len(members) == 0 {
		return nil
	}
	for i, member := range members {
		ptr := joinPointer(sch.Pointer, "oneOf", strconv.Itoa(i))
		if _, isRef := input.Ref(member); !isRef {
			return unsupported(ptr, member, "inline oneOf members are not supported")
		}
		id, err := s.buildSchema(member, schemaRequest{pointer: ptr, purpose: PurposeModel})
		if err != nil {
			return err
		}
		target := s.schema(id)
		if target.SchemaType != SchemaObject {
			return unsupported(ptr, member, "oneOf member %s is a %s, not an object", target.Pointer, target.SchemaType)
		}
		s.implement(target, sch)
	}
	if sch.Properties.Len() == 0 {
		sch.IsInterface = true
	}
	return nil
}

// implement records that impl implements iface.
func (s *State) implement(impl, iface *Schema) {
	impl.Implements = appendID(impl.Implements, iface.ID)
	iface.Implementors = appendID(iface.Implementors, impl.ID)
}

// isInterfaceCandidate reports whether an object schema exists only as a
// polymorphic marker: it declares no state of its own.
func isInterfaceCandidate(n *yaml.Node) bool {
	return !input.Has(n, "properties") && !input.Has(n, "discriminator") &&
		!input.Has(n, "allOf") && !isSchemaNode(input.Field(n, "additionalProperties"))
}

func (s *State) readDiscriminator(sch *Schema, n *yaml.Node) {
	d := input.Field(n, "discriminator")
	if d == nil {
		return
	}
	if d.Kind == yaml.ScalarNode {
		if d.Value != "" {
			sch.Discriminator = &Discriminator{PropertyName: d.Value}
		}
		return
	}
	disc := &Discriminator{PropertyName: input.Str(d, "propertyName")}
	for value, target := range input.Pairs(input.Field(d, "mapping")) {
		if disc.Mapping == nil {
			disc.Mapping = ordered.New[string, string]()
		}
		disc.Mapping.Set(value, target.Value)
	}
	if disc.PropertyName != "" {
		sch.Discriminator = disc
	}
}

func appendID(ids []SchemaID, id SchemaID) []SchemaID {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

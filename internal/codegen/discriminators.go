package codegen

import (
	"slices"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// resolveDiscriminators links every discriminator owner with the schemas it
// dispatches to. Mapping targets may be built here, so the arena is walked
// by index while it grows.
func (s *State) resolveDiscriminators() error {
	for i := 0; i < len(s.doc.Arena); i++ {
		owner := s.doc.Arena[i]
		d := owner.Discriminator
		if d == nil {
			continue
		}
		ptr := joinPointer(owner.Pointer, "discriminator")
		prop, err := s.discriminatorProperty(owner, ptr)
		if err != nil {
			return err
		}
		d.Property = prop

		descendants := s.descendants(owner)
		registered := make(map[SchemaID]bool)
		for value, target := range d.Mapping.All() {
			ref := s.mappingRef(target)
			id, err := s.buildSchema(refNode(ref), schemaRequest{pointer: joinPointer(ptr, "mapping", value), purpose: PurposeModel})
			if err != nil {
				return err
			}
			if registered[id] {
				continue
			}
			if !slices.Contains(descendants, id) {
				s.log.Warn("discriminator mapping targets a schema outside the hierarchy",
					zap.String("pointer", ptr), zap.String("value", value), zap.String("target", ref))
			}
			if err := s.registerDiscriminator(owner, s.schema(id), value, ptr); err != nil {
				return err
			}
			registered[id] = true
		}
		for _, id := range descendants {
			target := s.schema(id)
			if registered[id] || target.IsInterface {
				continue
			}
			value := target.SerializedName
			if value == "" {
				value = target.Name
			}
			if err := s.registerDiscriminator(owner, target, value, ptr); err != nil {
				return err
			}
			registered[id] = true
		}
	}
	return nil
}

// mappingRef turns a mapping target into a local reference. Bare names
// refer to the document's schema components.
func (s *State) mappingRef(target string) string {
	if strings.Contains(target, "/") || strings.HasPrefix(target, "#") {
		return target
	}
	if s.in.Version == input.V2 {
		return "#/definitions/" + input.EscapePointerToken(target)
	}
	return "#/components/schemas/" + input.EscapePointerToken(target)
}

func refNode(ref string) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "$ref"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: ref},
	}}
}

// discriminatorProperty finds the usage of the discriminator property on
// owner or its ancestors, falling back to a string.
func (s *State) discriminatorProperty(owner *Schema, pointer string) (*SchemaUsage, error) {
	name := owner.Discriminator.PropertyName
	for sch := owner; sch != nil; sch = s.schema(sch.Parent) {
		if p, ok := sch.Properties.Get(name); ok {
			u := p.SchemaUsage
			return &u, nil
		}
	}
	return s.stringUsage(pointer, true)
}

// descendants returns the transitive children and implementors of owner in
// discovery order.
func (s *State) descendants(owner *Schema) []SchemaID {
	var out []SchemaID
	seen := map[SchemaID]bool{owner.ID: true}
	queue := []*Schema{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, id := range slices.Concat(cur.Children, cur.Implementors) {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			queue = append(queue, s.schema(id))
		}
	}
	return out
}

func (s *State) registerDiscriminator(owner, target *Schema, value, pointer string) error {
	if target.SchemaType != SchemaObject {
		return unsupported(pointer, owner.node, "discriminator target %s is a %s, not an object", target.Pointer, target.SchemaType)
	}
	d := owner.Discriminator
	literal, err := s.literal(value, d.Property, pointer, owner.node)
	if err != nil {
		return err
	}
	d.References = append(d.References, &DiscriminatorReference{Schema: target.ID, Value: value, LiteralValue: literal})
	target.DiscriminatorValues = append(target.DiscriminatorValues, &DiscriminatorValue{
		Schema:       owner.ID,
		PropertyName: d.PropertyName,
		Value:        value,
		LiteralValue: literal,
	})
	return nil
}

package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"gopkg.in/yaml.v3"
)

const defaultExampleName = "default"

// examples collects the example and examples entries of n. Entries under
// examples are Example Objects, possibly referenced from components.
func (s *State) examples(n *yaml.Node, mediaType string, u *SchemaUsage, pointer string) (*ordered.Map[string, *Example], error) {
	var out *ordered.Map[string, *Example]
	add := func(e *Example) {
		if out == nil {
			out = ordered.New[string, *Example]()
		}
		out.Set(e.Name, e)
	}

	if ex := input.Field(n, "example"); ex != nil {
		e, err := s.example(defaultExampleName, mediaType, ex, u, joinPointer(pointer, "example"))
		if err != nil {
			return nil, err
		}
		add(e)
	}
	for name, en := range input.Pairs(input.Field(n, "examples")) {
		ptr := joinPointer(pointer, "examples", name)
		resolved, _, err := s.resolve(en, ptr)
		if err != nil {
			return nil, err
		}
		value := input.Field(resolved, "value")
		if value == nil {
			// externalValue examples carry nothing the core can render.
			continue
		}
		e, err := s.example(name, mediaType, value, u, ptr)
		if err != nil {
			return nil, err
		}
		e.Summary = input.Str(resolved, "summary")
		e.Description = input.Str(resolved, "description")
		add(e)
	}
	return out, nil
}

// v2Examples reads the entry for mediaType from a Swagger 2.0 examples map,
// which is keyed by media type and holds raw values.
func (s *State) v2Examples(examples *yaml.Node, mediaType string, u *SchemaUsage, pointer string) (*ordered.Map[string, *Example], error) {
	value := input.Field(examples, mediaType)
	if value == nil {
		return nil, nil
	}
	e, err := s.example(mediaType, mediaType, value, u, joinPointer(pointer, mediaType))
	if err != nil {
		return nil, err
	}
	return ordered.Of(ordered.Entry[string, *Example]{Key: e.Name, Value: e}), nil
}

func (s *State) schemaExamples(n *yaml.Node, pointer string) (*ordered.Map[string, *Example], error) {
	ex := input.Field(n, "example")
	if ex == nil {
		return nil, nil
	}
	raw, err := input.Decode(ex)
	if err != nil {
		return nil, unsupported(pointer, ex, "cannot decode example: %v", err)
	}
	e := &Example{Name: defaultExampleName, Value: raw}
	e.ValueString, e.ValuePretty = renderExample(raw)
	// The schema's native type is not bound yet, so no literal is rendered.
	e.ValueLiteral = e.ValueString
	return ordered.Of(ordered.Entry[string, *Example]{Key: e.Name, Value: e}), nil
}

func (s *State) example(name, mediaType string, value *yaml.Node, u *SchemaUsage, pointer string) (*Example, error) {
	raw, err := input.Decode(value)
	if err != nil {
		return nil, unsupported(pointer, value, "cannot decode example: %v", err)
	}
	e := &Example{Name: name, MediaType: mediaType, Value: raw}
	e.ValueString, e.ValuePretty = renderExample(raw)
	if u != nil {
		if e.ValueLiteral, err = s.literal(raw, u, pointer, value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// renderExample returns compact and indented renderings of an example
// value. Strings are returned as is.
func renderExample(v any) (string, string) {
	if str, ok := v.(string); ok {
		return str, str
	}
	compact, err := json.Marshal(v)
	if err != nil {
		s := fmt.Sprint(v)
		return s, s
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(compact), string(compact)
	}
	return string(compact), string(pretty)
}

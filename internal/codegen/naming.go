package codegen

import (
	"gopkg.in/yaml.v3"
)

// uniqueName derives the name of a model schema and makes it unique within
// owner's scope. The source name, when present, is preferred over the
// generator's suggestion. Names already in the scope are never reassigned;
// the newcomer iterates instead.
func (s *State) uniqueName(owner SchemaID, sourceName, suggested string, purpose SchemaPurpose, st SchemaType, pointer string, at *yaml.Node) (string, error) {
	base := sourceName
	if base == "" {
		base = s.gen.ToSuggestedSchemaName(suggested, SchemaNameSuggestionOptions{SchemaType: st, Purpose: purpose})
	}
	name := s.gen.ToSchemaName(base, SchemaNameOptions{SchemaType: st})

	index := s.scope(owner)
	if !index.Has(name) {
		return name, nil
	}

	scopeNames := index.Keys()
	seen := map[string]struct{}{name: {}}
	for i := 1; ; i++ {
		candidate := s.gen.ToIteratedSchemaName(name, scopeNames, i)
		if _, dup := seen[candidate]; dup {
			return "", newBuildError(NamingDeadlock, pointer, at,
				"iteration %d of schema name %q repeated %q", i, name, candidate)
		}
		if !index.Has(candidate) {
			return candidate, nil
		}
		seen[candidate] = struct{}{}
	}
}

package codegen

import (
	"slices"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// schemaRequest carries the context a schema is built in.
type schemaRequest struct {
	pointer string
	// sourceName is the name the input gives the schema, such as its key
	// under components/schemas.
	sourceName string
	suggested  string
	purpose    SchemaPurpose
	owner      SchemaID
	required   bool
}

// buildSchema returns the schema for n, building it on first sight. Schemas
// are identified by their resolved node, so every reference to a component
// yields the same SchemaID.
func (s *State) buildSchema(n *yaml.Node, req schemaRequest) (SchemaID, error) {
	resolved, ref, err := s.resolve(n, req.pointer)
	if err != nil {
		return 0, err
	}
	if resolved == nil {
		return 0, unsupported(req.pointer, n, "missing schema")
	}
	if id, ok := s.cache[resolved]; ok {
		sch := s.schema(id)
		if _, busy := s.building[id]; busy && sch.NativeType == nil && !s.crossesModel(id) {
			return 0, unsupported(req.pointer, n, "circular collection schema %s", sch.Pointer)
		}
		return id, nil
	}
	if ref != "" {
		req.sourceName = nameFromRef(ref)
		req.owner = 0
		req.pointer = ref
	}
	return s.newSchema(resolved, req)
}

func (s *State) newSchema(n *yaml.Node, req schemaRequest) (SchemaID, error) {
	st, typ, nullable, err := classify(n, req.pointer)
	if err != nil {
		return 0, err
	}
	sch := &Schema{
		ID:               SchemaID(len(s.doc.Arena) + 1),
		SchemaType:       st,
		Type:             typ,
		Format:           input.Str(n, "format"),
		Description:      input.Str(n, "description"),
		Title:            input.Str(n, "title"),
		Nullable:         nullable,
		ReadOnly:         input.Flag(n, "readOnly"),
		WriteOnly:        input.Flag(n, "writeOnly"),
		Deprecated:       input.Flag(n, "deprecated"),
		Owner:            req.owner,
		Pointer:          req.pointer,
		ExternalDocs:     externalDocs(input.Field(n, "externalDocs")),
		VendorExtensions: input.Extensions(n),
		node:             n,
	}
	s.doc.Arena = append(s.doc.Arena, sch)
	s.cache[n] = sch.ID
	s.building[sch.ID] = struct{}{}
	s.stack = append(s.stack, sch.ID)
	defer func() {
		delete(s.building, sch.ID)
		s.stack = s.stack[:len(s.stack)-1]
	}()

	if st.IsModel() {
		name, err := s.uniqueName(req.owner, req.sourceName, req.suggested, req.purpose, st, req.pointer, n)
		if err != nil {
			return 0, err
		}
		sch.Name = name
		sch.ScopedName = s.scopedName(req.owner, name)
		sch.Indexed = true
		s.scope(req.owner).Set(name, sch.ID)
		nt, err := s.gen.ToNativeObjectType(NativeObjectTypeOptions{
			SchemaType:       st,
			Name:             name,
			ScopedName:       sch.ScopedName,
			VendorExtensions: sch.VendorExtensions,
		})
		if err != nil {
			return 0, hookError("ToNativeObjectType", req.pointer, n, err)
		}
		sch.NativeType = nt
	} else if req.sourceName != "" {
		sch.Name = s.gen.ToSchemaName(req.sourceName, SchemaNameOptions{SchemaType: st})
	}
	if req.sourceName != "" {
		sch.SerializedName = req.sourceName
	} else {
		sch.SerializedName = sch.Name
	}

	s.log.Debug("schema", zap.String("pointer", req.pointer), zap.String("type", string(st)), zap.String("name", sch.Name))

	if sch.Examples, err = s.schemaExamples(n, req.pointer); err != nil {
		return 0, err
	}

	switch st {
	case SchemaObject:
		err = s.buildObject(sch, n)
	case SchemaEnum:
		err = s.buildEnum(sch, n)
	case SchemaArray:
		err = s.buildArray(sch, n, req)
	case SchemaMap:
		err = s.buildMap(sch, n, req)
	default:
		err = s.buildScalar(sch, n)
	}
	if err != nil {
		return 0, err
	}
	if sch.NativeType != nil {
		if err := s.ready(sch.ID); err != nil {
			return 0, err
		}
	}
	return sch.ID, nil
}

// crossesModel reports whether a model started building after id. A
// collection reached again through such a model gets its ID back and its
// native type later; without one it would contain itself.
func (s *State) crossesModel(id SchemaID) bool {
	i := slices.Index(s.stack, id)
	if i < 0 {
		return false
	}
	for _, inner := range s.stack[i+1:] {
		if s.schema(inner).SchemaType.IsModel() {
			return true
		}
	}
	return false
}

// whenReady runs fn once schema id has a native type: now, or when the
// collection finishes building.
func (s *State) whenReady(id SchemaID, fn func() error) error {
	if s.schema(id).NativeType != nil {
		return fn()
	}
	s.waiting[id] = append(s.waiting[id], fn)
	return nil
}

// ready runs the work that waited for the native type of id.
func (s *State) ready(id SchemaID) error {
	waiting := s.waiting[id]
	delete(s.waiting, id)
	for _, fn := range waiting {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// checkWaiting fails when work is left waiting on a schema that never got a
// native type.
func (s *State) checkWaiting() error {
	var first SchemaID
	for id := range s.waiting {
		if !first.Valid() || id < first {
			first = id
		}
	}
	if !first.Valid() {
		return nil
	}
	sch := s.schema(first)
	return unsupported(sch.Pointer, sch.node, "circular collection schema")
}

// classify derives the schema type of n along with its raw type keyword and
// whether the type admits null.
func classify(n *yaml.Node, pointer string) (SchemaType, string, bool, error) {
	if input.Has(n, "anyOf") {
		return "", "", false, unsupported(pointer, n, "anyOf composition is not supported")
	}
	typ, nullable, err := typeKeyword(n, pointer)
	if err != nil {
		return "", "", false, err
	}
	if input.Flag(n, "nullable") || input.Flag(n, "x-nullable") {
		nullable = true
	}
	enum := input.Items(input.Field(n, "enum"))
	for _, v := range enum {
		if input.IsNull(v) {
			nullable = true
		}
	}
	if len(enum) > 0 {
		return SchemaEnum, typ, nullable, nil
	}

	switch typ {
	case "":
		switch {
		case input.Has(n, "allOf"), input.Has(n, "oneOf"), input.Has(n, "properties"):
			return SchemaObject, "object", nullable, nil
		case isSchemaNode(input.Field(n, "additionalProperties")):
			return SchemaMap, "object", nullable, nil
		case input.Has(n, "items"):
			return SchemaArray, "array", nullable, nil
		}
		return "", "", false, unsupported(pointer, n, "schema has no type")
	case "object":
		if !input.Has(n, "properties") && !input.Has(n, "allOf") && !input.Has(n, "oneOf") &&
			isSchemaNode(input.Field(n, "additionalProperties")) {
			return SchemaMap, typ, nullable, nil
		}
		return SchemaObject, typ, nullable, nil
	case "array":
		if !input.Has(n, "items") {
			return "", "", false, unsupported(pointer, n, "array schema has no items")
		}
		return SchemaArray, typ, nullable, nil
	case "file":
		return SchemaFile, typ, nullable, nil
	case "string", "number", "integer", "boolean":
		return scalarSchemaType(typ, input.Str(n, "format")), typ, nullable, nil
	}
	return "", "", false, unsupported(pointer, n, "unknown schema type %q", typ)
}

// typeKeyword reads the type keyword, accepting the array form where "null"
// marks the type nullable.
func typeKeyword(n *yaml.Node, pointer string) (string, bool, error) {
	t := input.Field(n, "type")
	if t == nil {
		return "", false, nil
	}
	if t.Kind == yaml.ScalarNode {
		return t.Value, false, nil
	}
	var types []string
	nullable := false
	for _, item := range input.Items(t) {
		if item.Value == "null" {
			nullable = true
			continue
		}
		types = append(types, item.Value)
	}
	if len(types) > 1 {
		return "", false, unsupported(pointer, n, "multiple types %s are not supported", strings.Join(types, ", "))
	}
	if len(types) == 0 {
		return "", nullable, nil
	}
	return types[0], nullable, nil
}

func scalarSchemaType(typ, format string) SchemaType {
	switch typ {
	case "string":
		switch format {
		case "date":
			return SchemaDate
		case "date-time":
			return SchemaDateTime
		case "time":
			return SchemaTime
		case "binary":
			return SchemaFile
		}
		return SchemaString
	case "number":
		return SchemaNumber
	case "integer":
		return SchemaInteger
	case "boolean":
		return SchemaBoolean
	case "file":
		return SchemaFile
	}
	return SchemaString
}

// isSchemaNode reports whether n is a schema object. The boolean forms of
// additionalProperties do not declare a value schema; the empty schema {}
// does, and admits any value.
func isSchemaNode(n *yaml.Node) bool {
	return input.IsMapping(n)
}

// freeFormValue stands in for the empty value schema of a map: any value
// is accepted, which the model spells as an object with no properties.
func freeFormValue(n *yaml.Node) *yaml.Node {
	if r := input.Resolve(n); r == nil || r.Kind != yaml.MappingNode || len(r.Content) > 0 {
		return n
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: n.Line, Column: n.Column, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "type"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "object"},
	}}
}

func (s *State) buildScalar(sch *Schema, n *yaml.Node) error {
	nt, err := s.gen.ToNativeType(NativeTypeOptions{
		SchemaType:       sch.SchemaType,
		Type:             sch.Type,
		Format:           sch.Format,
		VendorExtensions: sch.VendorExtensions,
	})
	if err != nil {
		return hookError("ToNativeType", sch.Pointer, n, err)
	}
	sch.NativeType = nt
	sch.MinLength = optInt(n, "minLength")
	sch.MaxLength = optInt(n, "maxLength")
	sch.Pattern = input.Str(n, "pattern")
	sch.Minimum = optFloat(n, "minimum")
	sch.Maximum = optFloat(n, "maximum")
	sch.MultipleOf = optFloat(n, "multipleOf")
	// 3.0 and 2.0 spell exclusive bounds as flags, 3.1 as numbers.
	if v := optFloat(n, "exclusiveMinimum"); v != nil {
		sch.Minimum, sch.ExclusiveMinimum = v, true
	} else {
		sch.ExclusiveMinimum = input.Flag(n, "exclusiveMinimum")
	}
	if v := optFloat(n, "exclusiveMaximum"); v != nil {
		sch.Maximum, sch.ExclusiveMaximum = v, true
	} else {
		sch.ExclusiveMaximum = input.Flag(n, "exclusiveMaximum")
	}
	return nil
}

func (s *State) buildArray(sch *Schema, n *yaml.Node, req schemaRequest) error {
	suggested := sch.Name
	if suggested == "" {
		suggested = req.suggested
	}
	component, err := s.schemaUsage(input.Field(n, "items"), schemaRequest{
		pointer:   joinPointer(sch.Pointer, "items"),
		suggested: suggested,
		purpose:   PurposeArrayItem,
		owner:     sch.Owner,
		required:  true,
	})
	if err != nil {
		return err
	}
	sch.Component = component
	sch.MinItems = optInt(n, "minItems")
	sch.MaxItems = optInt(n, "maxItems")
	sch.UniqueItems = input.Flag(n, "uniqueItems")

	return s.whenReady(component.Schema, func() error {
		nt, err := s.arrayType(sch, CollectionProperty)
		if err != nil {
			return err
		}
		sch.NativeType = nt
		return s.ready(sch.ID)
	})
}

func (s *State) buildMap(sch *Schema, n *yaml.Node, req schemaRequest) error {
	suggested := sch.Name
	if suggested == "" {
		suggested = req.suggested
	}
	component, err := s.schemaUsage(freeFormValue(input.Field(n, "additionalProperties")), schemaRequest{
		pointer:   joinPointer(sch.Pointer, "additionalProperties"),
		suggested: suggested,
		purpose:   PurposeMapValue,
		owner:     sch.Owner,
		required:  true,
	})
	if err != nil {
		return err
	}
	sch.Component = component
	sch.MinProperties = optInt(n, "minProperties")
	sch.MaxProperties = optInt(n, "maxProperties")

	return s.whenReady(component.Schema, func() error {
		nt, err := s.mapType(sch, CollectionProperty)
		if err != nil {
			return err
		}
		sch.NativeType = nt
		return s.ready(sch.ID)
	})
}

// collectionType returns the native type of an array or map schema for
// purpose.
func (s *State) collectionType(sch *Schema, purpose CollectionPurpose) (*NativeType, error) {
	if sch.SchemaType == SchemaArray {
		return s.arrayType(sch, purpose)
	}
	return s.mapType(sch, purpose)
}

func (s *State) arrayType(sch *Schema, purpose CollectionPurpose) (*NativeType, error) {
	if sch.Component == nil {
		return nil, unsupported(sch.Pointer, sch.node, "circular collection schema")
	}
	nt, err := s.gen.ToNativeArrayType(NativeArrayTypeOptions{
		ComponentType:    materialize(sch.Component.NativeType),
		UniqueItems:      sch.UniqueItems,
		Purpose:          purpose,
		VendorExtensions: sch.VendorExtensions,
	})
	if err != nil {
		return nil, hookError("ToNativeArrayType", sch.Pointer, sch.node, err)
	}
	return nt, nil
}

func (s *State) mapType(sch *Schema, purpose CollectionPurpose) (*NativeType, error) {
	if sch.Component == nil {
		return nil, unsupported(sch.Pointer, sch.node, "circular collection schema")
	}
	key, err := s.gen.ToNativeType(NativeTypeOptions{SchemaType: SchemaString, Type: "string"})
	if err != nil {
		return nil, hookError("ToNativeType", sch.Pointer, sch.node, err)
	}
	nt, err := s.gen.ToNativeMapType(NativeMapTypeOptions{
		KeyType:          key,
		ComponentType:    materialize(sch.Component.NativeType),
		Purpose:          purpose,
		VendorExtensions: sch.VendorExtensions,
	})
	if err != nil {
		return nil, hookError("ToNativeMapType", sch.Pointer, sch.node, err)
	}
	return nt, nil
}

// materialize snapshots a usage view into a plain NativeType.
func materialize(u *UsageNativeType) *NativeType {
	if u.Base() == nil {
		return nil
	}
	return &NativeType{
		NativeType:     u.NativeType(),
		SerializedType: u.SerializedType(),
		LiteralType:    u.LiteralType(),
		ConcreteType:   u.ConcreteType(),
		ParentType:     u.ParentType(),
		ComponentType:  u.ComponentType(),
	}
}

func hookError(hook, pointer string, n *yaml.Node, err error) *BuildError {
	be := unsupported(pointer, n, "generator %s failed", hook)
	be.Cause = err
	return be
}

func optInt(n *yaml.Node, key string) *int64 {
	if v, ok := input.Int(n, key); ok {
		return &v
	}
	return nil
}

func optFloat(n *yaml.Node, key string) *float64 {
	if v, ok := input.Float(n, key); ok {
		return &v
	}
	return nil
}

func externalDocs(n *yaml.Node) *ExternalDocs {
	if !input.IsMapping(n) {
		return nil
	}
	return &ExternalDocs{URL: input.Str(n, "url"), Description: input.Str(n, "description")}
}

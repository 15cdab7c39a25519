package codegen

import (
	"strconv"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// bodyParam is a Swagger 2.0 in: body parameter, which becomes the request
// body rather than a parameter.
type bodyParam struct {
	node    *yaml.Node
	pointer string
}

// parameterMap builds the parameters declared in list, keyed by name.
func (s *State) parameterMap(list *yaml.Node, opName, pointer string) (*ordered.Map[string, *Parameter], *bodyParam, error) {
	params := ordered.New[string, *Parameter]()
	var body *bodyParam
	for i, pn := range input.Items(list) {
		ptr := joinPointer(pointer, strconv.Itoa(i))
		resolved, ref, err := s.resolve(pn, ptr)
		if err != nil {
			return nil, nil, err
		}
		if s.in.Version == input.V2 && strings.EqualFold(input.Str(resolved, "in"), "body") {
			if ref != "" {
				ptr = ref
			}
			body = &bodyParam{node: resolved, pointer: ptr}
			continue
		}
		p, err := s.parameter(resolved, ref, opName, ptr)
		if err != nil {
			return nil, nil, err
		}
		params.Set(p.Name, p)
	}
	return params, body, nil
}

func (s *State) parameter(n *yaml.Node, ref, opName, pointer string) (*Parameter, error) {
	if ref != "" {
		pointer = ref
	}
	p := &Parameter{
		Name:             input.Str(n, "name"),
		In:               input.Str(n, "in"),
		Description:      input.Str(n, "description"),
		CollectionFormat: input.Str(n, "collectionFormat"),
		Style:            input.Str(n, "style"),
		VendorExtensions: input.Extensions(n),
	}
	if b, ok := input.Bool(n, "explode"); ok {
		p.Explode = &b
	}
	required := input.Flag(n, "required")

	switch strings.ToLower(p.In) {
	case "query":
		p.IsQueryParam = true
	case "path":
		p.IsPathParam = true
		required = true
	case "header":
		p.IsHeaderParam = true
	case "cookie":
		p.IsCookieParam = true
	case "formdata":
		p.IsFormParam = true
	default:
		s.log.Warn("unknown parameter location", zap.String("pointer", pointer), zap.String("in", p.In))
	}

	suggested := opName + "_" + p.Name
	if ref != "" {
		suggested = nameFromRef(ref)
	}
	schema, schemaPtr := s.parameterSchema(n, pointer)
	u, err := s.schemaUsage(schema, schemaRequest{
		pointer:   schemaPtr,
		suggested: suggested,
		purpose:   PurposeParameter,
		required:  required,
	})
	if err != nil {
		return nil, err
	}
	if input.Flag(n, "deprecated") {
		u.Deprecated = true
	}
	p.SchemaUsage = *u
	if p.Examples, err = s.examples(n, "", u, pointer); err != nil {
		return nil, err
	}
	if ex := input.Field(n, "x-example"); ex != nil && p.Examples == nil {
		e, err := s.example(defaultExampleName, "", ex, u, joinPointer(pointer, "x-example"))
		if err != nil {
			return nil, err
		}
		p.Examples = ordered.Of(ordered.Entry[string, *Example]{Key: e.Name, Value: e})
	}
	return p, nil
}

// parameterSchema locates the schema of a parameter or header. Swagger 2.0
// declares the type inline on the object itself; OpenAPI 3 uses schema or a
// single-entry content map. Anything else is a string.
func (s *State) parameterSchema(n *yaml.Node, pointer string) (*yaml.Node, string) {
	if s.in.Version == input.V2 {
		if input.Has(n, "type") {
			return n, pointer
		}
		return s.stringNode, pointer
	}
	if schema := input.Field(n, "schema"); schema != nil {
		return schema, joinPointer(pointer, "schema")
	}
	if content := input.Field(n, "content"); input.IsMapping(content) && len(content.Content) >= 2 {
		mt := content.Content[0].Value
		if schema := input.Field(content.Content[1], "schema"); schema != nil {
			return schema, joinPointer(pointer, "content", mt, "schema")
		}
	}
	return s.stringNode, pointer
}

// buildParameters merges path-level and operation-level parameters and
// sorts them into location buckets. Operation entries replace path entries
// of the same name in place.
func (s *State) buildParameters(op *Operation, pathItem, opNode *yaml.Node, pathPtr, opPtr string) (*bodyParam, error) {
	pathParams, pathBody, err := s.parameterMap(input.Field(pathItem, "parameters"), op.Name, joinPointer(pathPtr, "parameters"))
	if err != nil {
		return nil, err
	}
	opParams, opBody, err := s.parameterMap(input.Field(opNode, "parameters"), op.Name, joinPointer(opPtr, "parameters"))
	if err != nil {
		return nil, err
	}
	body := opBody
	if body == nil {
		body = pathBody
	}

	all := ordered.Merge(pathParams, opParams)
	buckets := map[string]*ordered.Map[string, *Parameter]{}
	bucket := func(key string, p *Parameter) bool {
		m := buckets[key]
		if m == nil {
			m = ordered.New[string, *Parameter]()
			buckets[key] = m
		}
		m.Set(p.Name, p)
		return p.Examples.Len() > 0
	}
	for _, p := range all.All() {
		ex := p.Examples.Len() > 0
		switch {
		case p.IsQueryParam:
			op.HasQueryParamExamples = bucket("query", p) || op.HasQueryParamExamples
		case p.IsPathParam:
			op.HasPathParamExamples = bucket("path", p) || op.HasPathParamExamples
		case p.IsHeaderParam:
			op.HasHeaderParamExamples = bucket("header", p) || op.HasHeaderParamExamples
		case p.IsCookieParam:
			op.HasCookieParamExamples = bucket("cookie", p) || op.HasCookieParamExamples
		case p.IsFormParam:
			op.HasFormParamExamples = bucket("form", p) || op.HasFormParamExamples
		}
		op.HasParamExamples = op.HasParamExamples || ex
	}
	op.Parameters = ordered.NilIfEmpty(all)
	op.QueryParams = buckets["query"]
	op.PathParams = buckets["path"]
	op.HeaderParams = buckets["header"]
	op.CookieParams = buckets["cookie"]
	op.FormParams = buckets["form"]
	return body, nil
}

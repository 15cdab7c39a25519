package input

import (
	"strings"

	"gopkg.in/yaml.v3"
)

var v2Methods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// normalizeV2 rewrites non-compliant Swagger v2 operations in place:
//   - If an operation contains multiple body parameters, they are merged into a
//     single body parameter whose schema is an object with one property per
//     original parameter.
//   - If an operation mixes body and formData parameters, every body parameter
//     is converted to a formData equivalent and the operation consumes
//     multipart/form-data.
//
// It reports whether anything was modified.
func normalizeV2(doc *Document) bool {
	if doc == nil || doc.Version != V2 {
		return false
	}
	modified := false
	for _, pathItem := range Pairs(Field(doc.Root, "paths")) {
		for _, method := range v2Methods {
			op := Field(pathItem, method)
			if !IsMapping(op) {
				continue
			}
			if normalizeV2Operation(doc, op) {
				modified = true
			}
		}
	}
	return modified
}

func normalizeV2Operation(doc *Document, op *yaml.Node) bool {
	paramsNode := Field(op, "parameters")
	params := Items(paramsNode)
	if len(params) == 0 {
		return false
	}

	bodyCount := 0
	hasFormData := false
	for _, p := range params {
		switch strings.ToLower(Str(derefParam(doc, p), "in")) {
		case "body":
			bodyCount++
		case "formdata":
			hasFormData = true
		}
	}
	if bodyCount == 0 {
		return false
	}

	if hasFormData {
		newParams := make([]*yaml.Node, 0, len(params))
		for _, p := range params {
			resolved := derefParam(doc, p)
			if strings.EqualFold(Str(resolved, "in"), "body") {
				newParams = append(newParams, formDataFromBodyParam(resolved))
				continue
			}
			newParams = append(newParams, p)
		}
		paramsNode.Content = newParams
		consumes := Field(op, "consumes")
		if consumes == nil {
			consumes = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			setField(op, "consumes", consumes)
		}
		if !containsString(Strings(op, "consumes"), "multipart/form-data") {
			consumes.Content = append(consumes.Content, scalarNode("multipart/form-data"))
		}
		return true
	}

	if bodyCount == 1 {
		return false
	}

	props := mappingNode()
	required := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	rest := make([]*yaml.Node, 0, len(params))
	for _, p := range params {
		resolved := derefParam(doc, p)
		if !strings.EqualFold(Str(resolved, "in"), "body") {
			rest = append(rest, p)
			continue
		}
		name := Str(resolved, "name")
		if name == "" {
			name = "field"
		}
		schema := extractSchemaFromParam(resolved)
		if schema == nil {
			schema = mappingNode("type", scalarNode("string"))
		}
		setField(props, name, schema)
		if Flag(resolved, "required") {
			required.Content = append(required.Content, scalarNode(name))
		}
	}
	bodySchema := mappingNode("type", scalarNode("object"), "properties", props)
	if len(required.Content) > 0 {
		setField(bodySchema, "required", required)
	}
	merged := mappingNode(
		"in", scalarNode("body"),
		"name", scalarNode("body"),
		"schema", bodySchema,
	)
	paramsNode.Content = append([]*yaml.Node{merged}, rest...)
	return true
}

func derefParam(doc *Document, p *yaml.Node) *yaml.Node {
	if ref, ok := Ref(p); ok {
		if target, err := doc.Get(ref); err == nil {
			return target
		}
	}
	return p
}

func extractSchemaFromParam(p *yaml.Node) *yaml.Node {
	if sch := Field(p, "schema"); sch != nil {
		return sch
	}
	// Synthesize schema from param type/items/format when present
	t := Str(p, "type")
	if t == "" {
		return nil
	}
	out := mappingNode("type", scalarNode(t))
	if items := Field(p, "items"); items != nil {
		setField(out, "items", items)
	}
	if f := Str(p, "format"); f != "" {
		setField(out, "format", scalarNode(f))
	}
	return out
}

func formDataFromBodyParam(p *yaml.Node) *yaml.Node {
	name := Str(p, "name")
	if name == "" {
		name = "field"
	}
	out := mappingNode("in", scalarNode("formData"), "name", scalarNode(name))
	if desc := Str(p, "description"); desc != "" {
		setField(out, "description", scalarNode(desc))
	}
	if req, ok := Bool(p, "required"); ok {
		setField(out, "required", boolNode(req))
	}
	// Derive a formData-compatible type; fallback to string.
	var typ, format string
	var items *yaml.Node
	if sch := Field(p, "schema"); sch != nil {
		typ = Str(sch, "type")
		items = Field(sch, "items")
		format = Str(sch, "format")
		if _, isRef := Ref(sch); typ == "" && isRef {
			// A referenced object cannot be represented in formData.
			typ = "string"
		}
	}
	if typ == "" {
		typ = Str(p, "type")
		items = Field(p, "items")
		format = Str(p, "format")
	}
	if typ == "" {
		typ = "string"
	}
	setField(out, "type", scalarNode(typ))
	if items != nil {
		setField(out, "items", items)
	}
	if format != "" {
		setField(out, "format", scalarNode(format))
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(b bool) *yaml.Node {
	v := "false"
	if b {
		v = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
}

// mappingNode builds a mapping from alternating string keys and value nodes.
func mappingNode(kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		setField(n, kv[i].(string), kv[i+1].(*yaml.Node))
	}
	return n
}

// setField replaces or appends key in a mapping node.
func setField(n *yaml.Node, key string, value *yaml.Node) {
	n = Resolve(n)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			n.Content[i+1] = value
			return
		}
	}
	n.Content = append(n.Content, scalarNode(key), value)
}

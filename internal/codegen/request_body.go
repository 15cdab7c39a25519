package codegen

import (
	"github.com/mark3labs/oapigen/internal/input"
	"gopkg.in/yaml.v3"
)

const defaultRequestBodyName = "request"

// requestBody builds an OpenAPI 3 requestBody object.
func (s *State) requestBody(op *Operation, opNode, n *yaml.Node, pointer string) (*RequestBody, error) {
	resolved, ref, err := s.resolve(n, pointer)
	if err != nil {
		return nil, err
	}
	suggested := op.Name + "_request"
	if ref != "" {
		pointer = ref
		suggested = nameFromRef(ref)
	}
	rb := &RequestBody{
		Name:             requestBodyName(opNode),
		Description:      input.Str(resolved, "description"),
		Required:         input.Flag(resolved, "required"),
		VendorExtensions: input.Extensions(resolved),
	}
	rb.Contents, rb.Consumes, err = s.contents(input.Field(resolved, "content"), contentRequest{
		pointer:   joinPointer(pointer, "content"),
		suggested: suggested,
		purpose:   PurposeRequestBody,
		required:  rb.Required,
	})
	if err != nil {
		return nil, err
	}
	if len(rb.Contents) > 0 {
		rb.DefaultContent = rb.Contents[0]
	}
	return rb, nil
}

// bodyParameter builds the request body of a Swagger 2.0 operation from its
// in: body parameter. The body has one content per consumed media type.
func (s *State) bodyParameter(op *Operation, opNode *yaml.Node, body *bodyParam, consumes []string) (*RequestBody, error) {
	n := body.node
	rb := &RequestBody{
		Name:             input.Str(n, "name"),
		Description:      input.Str(n, "description"),
		Required:         input.Flag(n, "required"),
		VendorExtensions: input.Extensions(n),
	}
	if rb.Name == "" {
		rb.Name = requestBodyName(opNode)
	}

	schema, schemaPtr := input.Field(n, "schema"), joinPointer(body.pointer, "schema")
	if schema == nil {
		schema = s.stringNode
	}
	u, err := s.schemaUsage(schema, schemaRequest{
		pointer:   schemaPtr,
		suggested: op.Name + "_request",
		purpose:   PurposeRequestBody,
		required:  rb.Required,
	})
	if err != nil {
		return nil, err
	}
	if len(consumes) == 0 {
		consumes = []string{defaultMediaType}
	}
	for _, mt := range consumes {
		media := s.mediaType(mt)
		rb.Consumes = append(rb.Consumes, media)
		c := &Content{MediaType: media, SchemaUsage: *u}
		if c.Examples, err = s.v2Examples(input.Field(n, "x-examples"), mt, u, joinPointer(body.pointer, "x-examples")); err != nil {
			return nil, err
		}
		rb.Contents = append(rb.Contents, c)
	}
	rb.DefaultContent = rb.Contents[0]
	return rb, nil
}

// requestBodyName honours the x-codegen-request-body-name operation
// extension.
func requestBodyName(opNode *yaml.Node) string {
	if name := input.Str(opNode, "x-codegen-request-body-name"); name != "" {
		return name
	}
	return defaultRequestBodyName
}

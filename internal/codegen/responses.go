package codegen

import (
	"strconv"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"gopkg.in/yaml.v3"
)

const defaultResponseKey = "default"

// parseStatus interprets a responses key: "default", an exact code, or a
// range such as "4XX".
func parseStatus(key string) (code int, isRange, isDefault, ok bool) {
	if key == defaultResponseKey {
		return 0, false, true, true
	}
	if len(key) == 3 && key[0] >= '1' && key[0] <= '5' && strings.EqualFold(key[1:], "XX") {
		return int(key[0]-'0') * 100, true, false, true
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 100 || n > 599 {
		return 0, false, false, false
	}
	return n, false, false, true
}

// buildResponses fills the responses of op and designates the canonical
// response: the default entry when present, else the lowest 2xx.
func (s *State) buildResponses(op *Operation, opNode *yaml.Node, pointer string) error {
	responses := ordered.New[string, *Response]()
	for key, rn := range input.Pairs(input.Field(opNode, "responses")) {
		if strings.HasPrefix(strings.ToLower(key), "x-") {
			continue
		}
		ptr := joinPointer(pointer, key)
		code, isRange, isDefault, ok := parseStatus(key)
		if !ok {
			return unsupported(ptr, rn, "response key %q is not a status code", key)
		}
		r, err := s.response(op, opNode, key, rn, ptr)
		if err != nil {
			return err
		}
		r.Code, r.CodeRange, r.DefaultEntry = code, isRange, isDefault
		responses.Set(key, r)

		op.Produces = unionMediaTypes(op.Produces, r.Produces)
		op.HasResponseExamples = op.HasResponseExamples || hasExamples(r.Contents)
	}

	var canonical *Response
	for _, r := range responses.All() {
		if r.DefaultEntry {
			canonical = r
			break
		}
		if r.Code < 200 || r.Code > 299 {
			continue
		}
		if canonical == nil || r.Code < canonical.Code || (r.Code == canonical.Code && canonical.CodeRange && !r.CodeRange) {
			canonical = r
		}
	}
	if canonical != nil {
		canonical.IsDefault = true
		op.DefaultResponse = canonical
	}
	op.Responses = ordered.NilIfEmpty(responses)
	return nil
}

func (s *State) response(op *Operation, opNode *yaml.Node, key string, n *yaml.Node, pointer string) (*Response, error) {
	resolved, ref, err := s.resolve(n, pointer)
	if err != nil {
		return nil, err
	}
	suggested := op.Name + "_" + key + "_response"
	if ref != "" {
		pointer = ref
		suggested = nameFromRef(ref)
	}
	r := &Response{
		Key:              key,
		Description:      input.Str(resolved, "description"),
		VendorExtensions: input.Extensions(resolved),
	}

	if s.in.Version == input.V2 {
		if err := s.v2ResponseContents(r, opNode, resolved, suggested, pointer); err != nil {
			return nil, err
		}
	} else {
		r.Contents, r.Produces, err = s.contents(input.Field(resolved, "content"), contentRequest{
			pointer:   joinPointer(pointer, "content"),
			suggested: suggested,
			purpose:   PurposeResponse,
			required:  true,
		})
		if err != nil {
			return nil, err
		}
	}
	if len(r.Contents) > 0 {
		r.DefaultContent = r.Contents[0]
	}

	for name, hn := range input.Pairs(input.Field(resolved, "headers")) {
		h, err := s.header(op, name, hn, joinPointer(pointer, "headers", name))
		if err != nil {
			return nil, err
		}
		if r.Headers == nil {
			r.Headers = ordered.New[string, *Header]()
		}
		r.Headers.Set(name, h)
	}
	return r, nil
}

// v2ResponseContents builds one content per produced media type for a
// Swagger 2.0 response schema.
func (s *State) v2ResponseContents(r *Response, opNode, n *yaml.Node, suggested, pointer string) error {
	schema := input.Field(n, "schema")
	if schema == nil {
		return nil
	}
	u, err := s.schemaUsage(schema, schemaRequest{
		pointer:   joinPointer(pointer, "schema"),
		suggested: suggested,
		purpose:   PurposeResponse,
		required:  true,
	})
	if err != nil {
		return err
	}
	for _, mt := range s.v2MediaTypes(opNode, "produces") {
		media := s.mediaType(mt)
		r.Produces = append(r.Produces, media)
		c := &Content{MediaType: media, SchemaUsage: *u}
		if c.Examples, err = s.v2Examples(input.Field(n, "examples"), mt, u, joinPointer(pointer, "examples")); err != nil {
			return err
		}
		r.Contents = append(r.Contents, c)
	}
	return nil
}

// v2MediaTypes returns the operation's consumes or produces list, falling
// back to the document's and then to application/json.
func (s *State) v2MediaTypes(opNode *yaml.Node, key string) []string {
	if list := input.Strings(opNode, key); len(list) > 0 {
		return list
	}
	if list := input.Strings(s.in.Root, key); len(list) > 0 {
		return list
	}
	return []string{defaultMediaType}
}

func (s *State) header(op *Operation, name string, n *yaml.Node, pointer string) (*Header, error) {
	resolved, ref, err := s.resolve(n, pointer)
	if err != nil {
		return nil, err
	}
	suggested := op.Name + "_" + name
	if ref != "" {
		pointer = ref
		suggested = nameFromRef(ref)
	}
	schema, schemaPtr := s.parameterSchema(resolved, pointer)
	u, err := s.schemaUsage(schema, schemaRequest{
		pointer:   schemaPtr,
		suggested: suggested,
		purpose:   PurposeHeader,
		required:  input.Flag(resolved, "required"),
	})
	if err != nil {
		return nil, err
	}
	h := &Header{
		Name:             name,
		Description:      input.Str(resolved, "description"),
		SchemaUsage:      *u,
		VendorExtensions: input.Extensions(resolved),
	}
	if h.Examples, err = s.examples(resolved, "", u, pointer); err != nil {
		return nil, err
	}
	return h, nil
}

package codegen

import (
	"mime"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultMediaType = "application/json"

func (s *State) mediaType(raw string) *MediaType {
	mt, params, err := mime.ParseMediaType(raw)
	if err != nil {
		s.log.Warn("unparseable media type", zap.String("mediaType", raw), zap.Error(err))
		base, _, _ := strings.Cut(raw, ";")
		return &MediaType{MediaType: raw, MimeType: strings.ToLower(strings.TrimSpace(base))}
	}
	return &MediaType{MediaType: raw, MimeType: mt, Encoding: params["charset"]}
}

func (s *State) mediaTypes(raw []string) []*MediaType {
	out := make([]*MediaType, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.mediaType(r))
	}
	return out
}

// contentRequest describes the content map of a body or response.
type contentRequest struct {
	pointer   string
	suggested string
	purpose   SchemaPurpose
	required  bool
}

// contents builds one Content per media type of a v3 content map. Media
// types without a schema are listed but produce no Content.
func (s *State) contents(n *yaml.Node, req contentRequest) ([]*Content, []*MediaType, error) {
	var contents []*Content
	var types []*MediaType
	for raw, mt := range input.Pairs(n) {
		ptr := joinPointer(req.pointer, raw)
		media := s.mediaType(raw)
		types = append(types, media)
		schema := input.Field(mt, "schema")
		if schema == nil {
			continue
		}
		u, err := s.schemaUsage(schema, schemaRequest{
			pointer:   joinPointer(ptr, "schema"),
			suggested: req.suggested,
			purpose:   req.purpose,
			required:  req.required,
		})
		if err != nil {
			return nil, nil, err
		}
		c := &Content{MediaType: media, SchemaUsage: *u}
		if c.Examples, err = s.examples(mt, raw, u, ptr); err != nil {
			return nil, nil, err
		}
		contents = append(contents, c)
	}
	return contents, types, nil
}

// unionMediaTypes appends the media types of more that are not in base,
// comparing the declared strings.
func unionMediaTypes(base []*MediaType, more []*MediaType) []*MediaType {
	for _, m := range more {
		found := false
		for _, b := range base {
			if b.MediaType == m.MediaType {
				found = true
				break
			}
		}
		if !found {
			base = append(base, m)
		}
	}
	return base
}

func hasExamples(contents []*Content) bool {
	for _, c := range contents {
		if c.Examples.Len() > 0 {
			return true
		}
	}
	return false
}

package codegen

import (
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
)

func (s *State) buildInfo() {
	n := input.Field(s.in.Root, "info")
	info := Info{
		Title:            input.Str(n, "title"),
		Description:      input.Str(n, "description"),
		TermsOfService:   input.Str(n, "termsOfService"),
		Version:          input.Str(n, "version"),
		VendorExtensions: input.Extensions(n),
	}
	if c := input.Field(n, "contact"); input.IsMapping(c) {
		info.Contact = &Contact{Name: input.Str(c, "name"), URL: input.Str(c, "url"), Email: input.Str(c, "email")}
	}
	if l := input.Field(n, "license"); input.IsMapping(l) {
		info.License = &License{Name: input.Str(l, "name"), URL: input.Str(l, "url")}
	}
	s.doc.Info = info
	s.doc.ExternalDocs = externalDocs(input.Field(s.in.Root, "externalDocs"))
}

// buildServers reads OpenAPI 3 servers, or composes Swagger 2.0 schemes,
// host and basePath into one server per scheme.
func (s *State) buildServers() {
	root := s.in.Root
	if s.in.Version == input.V2 {
		host := input.Str(root, "host")
		basePath := input.Str(root, "basePath")
		if host == "" && basePath == "" {
			return
		}
		if host == "" {
			s.doc.Servers = []*Server{{URL: basePath}}
			return
		}
		schemes := input.Strings(root, "schemes")
		if len(schemes) == 0 {
			schemes = []string{"https"}
		}
		for _, scheme := range schemes {
			url := strings.ToLower(scheme) + "://" + host + basePath
			s.doc.Servers = append(s.doc.Servers, &Server{URL: url})
		}
		return
	}
	for _, n := range input.Items(input.Field(root, "servers")) {
		srv := &Server{
			URL:              input.Str(n, "url"),
			Description:      input.Str(n, "description"),
			VendorExtensions: input.Extensions(n),
		}
		for name, v := range input.Pairs(input.Field(n, "variables")) {
			if srv.Variables == nil {
				srv.Variables = ordered.New[string, *ServerVariable]()
			}
			srv.Variables.Set(name, &ServerVariable{
				Default:     input.Str(v, "default"),
				Enum:        input.Strings(v, "enum"),
				Description: input.Str(v, "description"),
			})
		}
		s.doc.Servers = append(s.doc.Servers, srv)
	}
}

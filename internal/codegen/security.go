package codegen

import (
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// v2Flows maps Swagger 2.0 oauth2 flow names to their OpenAPI 3 names.
var v2Flows = map[string]string{
	"implicit":    "implicit",
	"password":    "password",
	"application": "clientCredentials",
	"accessCode":  "authorizationCode",
}

func (s *State) buildSecuritySchemes() error {
	var defs *yaml.Node
	var base string
	if s.in.Version == input.V2 {
		defs, base = input.Field(s.in.Root, "securityDefinitions"), "#/securityDefinitions"
	} else {
		defs, base = input.Field(input.Field(s.in.Root, "components"), "securitySchemes"), "#/components/securitySchemes"
	}
	for name, n := range input.Pairs(defs) {
		resolved, _, err := s.resolve(n, joinPointer(base, name))
		if err != nil {
			return err
		}
		s.doc.SecuritySchemes = append(s.doc.SecuritySchemes, s.securityScheme(name, resolved))
	}
	return nil
}

func (s *State) securityScheme(name string, n *yaml.Node) *SecurityScheme {
	scheme := &SecurityScheme{
		Name:             name,
		Type:             input.Str(n, "type"),
		Description:      input.Str(n, "description"),
		Scheme:           input.Str(n, "scheme"),
		BearerFormat:     input.Str(n, "bearerFormat"),
		ParamName:        input.Str(n, "name"),
		In:               input.Str(n, "in"),
		OpenIDConnectURL: input.Str(n, "openIdConnectUrl"),
		VendorExtensions: input.Extensions(n),
	}
	if s.in.Version == input.V2 {
		switch scheme.Type {
		case "basic":
			scheme.Type, scheme.Scheme = "http", "basic"
		case "oauth2":
			flow := input.Str(n, "flow")
			if mapped, ok := v2Flows[flow]; ok {
				flow = mapped
			}
			scheme.Flows = []*OAuthFlow{oauthFlow(flow, n)}
		}
		return scheme
	}
	for flow, fn := range input.Pairs(input.Field(n, "flows")) {
		scheme.Flows = append(scheme.Flows, oauthFlow(flow, fn))
	}
	return scheme
}

func oauthFlow(flowType string, n *yaml.Node) *OAuthFlow {
	f := &OAuthFlow{
		Type:             flowType,
		AuthorizationURL: input.Str(n, "authorizationUrl"),
		TokenURL:         input.Str(n, "tokenUrl"),
		RefreshURL:       input.Str(n, "refreshUrl"),
	}
	for scope, desc := range input.Pairs(input.Field(n, "scopes")) {
		if f.Scopes == nil {
			f.Scopes = ordered.New[string, string]()
		}
		f.Scopes.Set(scope, desc.Value)
	}
	return f
}

// securityRequirements reads a security list. It reports false when n has
// no security list at all, so callers can fall back to the document's.
// An empty requirement object makes the requirements optional.
func (s *State) securityRequirements(n *yaml.Node, pointer string) (*SecurityRequirements, bool) {
	list := input.Field(n, "security")
	if list == nil {
		return nil, false
	}
	items := input.Items(list)
	if len(items) == 0 {
		return nil, true
	}
	reqs := &SecurityRequirements{}
	for _, item := range items {
		if len(item.Content) == 0 {
			reqs.Optional = true
			continue
		}
		req := &SecurityRequirement{}
		for name, scopes := range input.Pairs(item) {
			scheme := s.securitySchemeNamed(name)
			if scheme == nil {
				s.log.Warn("security requirement names an undefined scheme",
					zap.String("pointer", pointer), zap.String("scheme", name))
				continue
			}
			var names []string
			for _, sc := range input.Items(scopes) {
				if v := strings.TrimSpace(sc.Value); v != "" {
					names = append(names, v)
				}
			}
			req.Schemes = append(req.Schemes, &SecurityRequirementScheme{Scheme: scheme, Scopes: names})
		}
		if len(req.Schemes) > 0 {
			reqs.Requirements = append(reqs.Requirements, req)
		}
	}
	return reqs, true
}

func (s *State) securitySchemeNamed(name string) *SecurityScheme {
	for _, sc := range s.doc.SecuritySchemes {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

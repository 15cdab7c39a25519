package codegen

import (
	"context"

	"github.com/mark3labs/oapigen/internal/input"
	"go.uber.org/zap"
)

// Build turns a loaded input document into the generator-agnostic model.
// Any failure aborts the whole pass; no partial document is returned.
func Build(ctx context.Context, in *input.Document, gen Generator, opts ...BuildOption) (*Document, error) {
	if in == nil || in.Root == nil {
		return nil, &BuildError{Code: InvalidConfiguration, Message: "no input document"}
	}
	if gen == nil {
		return nil, &BuildError{Code: InvalidConfiguration, Message: "no generator"}
	}
	settings := buildSettings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&settings)
	}
	s, err := newState(in, gen, settings)
	if err != nil {
		return nil, err
	}

	s.buildInfo()
	s.buildServers()
	if err := s.buildSecuritySchemes(); err != nil {
		return nil, err
	}
	s.doc.SecurityRequirements, _ = s.securityRequirements(in.Root, "#/security")

	if err := s.buildComponentSchemas(); err != nil {
		return nil, err
	}
	if err := s.buildOperations(ctx); err != nil {
		return nil, err
	}
	if err := s.checkWaiting(); err != nil {
		return nil, err
	}
	if err := s.resolveDiscriminators(); err != nil {
		return nil, err
	}
	if err := s.postProcessSchemas(); err != nil {
		return nil, err
	}
	if err := s.postProcessDocument(); err != nil {
		return nil, err
	}

	s.log.Debug("document built",
		zap.Int("groups", len(s.doc.Groups)),
		zap.Int("models", s.doc.Schemas.Len()),
		zap.Int("schemas", len(s.doc.Arena)))
	return s.doc, nil
}

// buildComponentSchemas builds the named schemas in source order before any
// operation, so component names take precedence over suggested names.
func (s *State) buildComponentSchemas() error {
	defs, base := input.Field(input.Field(s.in.Root, "components"), "schemas"), "#/components/schemas"
	if s.in.Version == input.V2 {
		defs, base = input.Field(s.in.Root, "definitions"), "#/definitions"
	}
	for name, n := range input.Pairs(defs) {
		_, err := s.buildSchema(n, schemaRequest{
			pointer:    joinPointer(base, name),
			sourceName: name,
			purpose:    PurposeModel,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

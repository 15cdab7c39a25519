package codegen

import (
	"context"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// buildOperations builds every operation of the document in path order and
// hands each to the generator's grouping strategy.
func (s *State) buildOperations(ctx context.Context) error {
	strategy := s.gen.OperationGroupingStrategy()
	if strategy == nil {
		strategy = GroupByPath
	}
	groups := ordered.New[string, *OperationGroup]()

	for path, item := range input.Pairs(input.Field(s.in.Root, "paths")) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(strings.ToLower(path), "x-") {
			continue
		}
		pathPtr := joinPointer("#/paths", path)
		pathItem, _, err := s.resolve(item, pathPtr)
		if err != nil {
			return err
		}
		for _, method := range methodOrder {
			opNode := input.Field(pathItem, strings.ToLower(string(method)))
			if !input.IsMapping(opNode) {
				continue
			}
			if !s.filter.allows(path, method, input.Strings(opNode, "tags")) {
				s.log.Debug("operation filtered", zap.String("method", string(method)), zap.String("path", path))
				continue
			}
			op, err := s.buildOperation(path, method, pathItem, opNode, pathPtr)
			if err != nil {
				return err
			}
			strategy.AddToGroups(op, groups, s)
		}
	}

	tags := make(map[string]string)
	for _, t := range input.Items(input.Field(s.in.Root, "tags")) {
		tags[input.Str(t, "name")] = input.Str(t, "description")
	}
	for _, g := range groups.All() {
		if g.Description == "" {
			g.Description = tags[g.Name]
		}
		for _, op := range g.Operations {
			g.Consumes = unionMediaTypes(g.Consumes, op.Consumes)
			g.Produces = unionMediaTypes(g.Produces, op.Produces)
		}
	}
	s.doc.Groups = groups.Values()
	return nil
}

func (s *State) buildOperation(path string, method HttpMethod, pathItem, opNode *yaml.Node, pathPtr string) (*Operation, error) {
	opPtr := joinPointer(pathPtr, strings.ToLower(string(method)))
	op := &Operation{
		OperationID:      input.Str(opNode, "operationId"),
		HTTPMethod:       method,
		Path:             path,
		FullPath:         path,
		Summary:          input.Str(opNode, "summary"),
		Description:      input.Str(opNode, "description"),
		Tags:             input.Strings(opNode, "tags"),
		Deprecated:       input.Flag(opNode, "deprecated"),
		ExternalDocs:     externalDocs(input.Field(opNode, "externalDocs")),
		VendorExtensions: input.Extensions(opNode),
	}
	if op.OperationID != "" {
		op.Name = s.gen.ToIdentifier(op.OperationID)
	} else {
		op.Name = s.gen.ToOperationName(path, method)
	}
	s.log.Debug("operation", zap.String("method", string(method)), zap.String("path", path), zap.String("name", op.Name))

	body, err := s.buildParameters(op, pathItem, opNode, pathPtr, opPtr)
	if err != nil {
		return nil, err
	}

	if s.in.Version == input.V2 {
		consumes := s.v2MediaTypes(opNode, "consumes")
		if body != nil {
			if op.RequestBody, err = s.bodyParameter(op, opNode, body, consumes); err != nil {
				return nil, err
			}
		}
		if op.RequestBody != nil || op.FormParams.Len() > 0 {
			op.Consumes = s.mediaTypes(consumes)
		}
	} else if rb := input.Field(opNode, "requestBody"); rb != nil {
		if op.RequestBody, err = s.requestBody(op, opNode, rb, joinPointer(opPtr, "requestBody")); err != nil {
			return nil, err
		}
		op.Consumes = op.RequestBody.Consumes
	}
	if op.RequestBody != nil {
		op.HasRequestBodyExamples = hasExamples(op.RequestBody.Contents)
	}

	if err := s.buildResponses(op, opNode, joinPointer(opPtr, "responses")); err != nil {
		return nil, err
	}
	if r := op.DefaultResponse; r != nil && r.DefaultContent != nil {
		op.ReturnNativeType = r.DefaultContent.NativeType
		op.ReturnType = r.DefaultContent.NativeType.String()
	}

	if reqs, ok := s.securityRequirements(opNode, opPtr); ok {
		op.SecurityRequirements = reqs
	} else {
		op.SecurityRequirements = s.doc.SecurityRequirements
	}
	return op, nil
}

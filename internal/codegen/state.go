package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"github.com/mark3labs/oapigen/internal/ordered"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BuildOption configures a Build.
type BuildOption func(*buildSettings)

type buildSettings struct {
	logger       *zap.Logger
	includeTags  []string
	excludeTags  []string
	methods      []string
	pathPatterns []string
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *zap.Logger) BuildOption {
	return func(s *buildSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIncludeTags keeps only operations carrying at least one of tags.
func WithIncludeTags(tags ...string) BuildOption {
	return func(s *buildSettings) { s.includeTags = append(s.includeTags, tags...) }
}

// WithExcludeTags drops operations carrying any of tags.
func WithExcludeTags(tags ...string) BuildOption {
	return func(s *buildSettings) { s.excludeTags = append(s.excludeTags, tags...) }
}

// WithMethods keeps only operations using one of the given HTTP methods.
func WithMethods(methods ...string) BuildOption {
	return func(s *buildSettings) { s.methods = append(s.methods, methods...) }
}

// WithPathPatterns keeps only operations whose path matches one of the
// regular expressions.
func WithPathPatterns(patterns ...string) BuildOption {
	return func(s *buildSettings) { s.pathPatterns = append(s.pathPatterns, patterns...) }
}

// operationFilter decides which (path, method) pairs become operations.
type operationFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
	methods map[HttpMethod]struct{}
	paths   []*regexp.Regexp
}

func newOperationFilter(s buildSettings) (*operationFilter, error) {
	f := &operationFilter{}
	if len(s.includeTags) > 0 {
		f.include = toSet(s.includeTags)
	}
	if len(s.excludeTags) > 0 {
		f.exclude = toSet(s.excludeTags)
	}
	if len(s.methods) > 0 {
		f.methods = make(map[HttpMethod]struct{}, len(s.methods))
		for _, m := range s.methods {
			f.methods[HttpMethod(strings.ToUpper(strings.TrimSpace(m)))] = struct{}{}
		}
	}
	for _, p := range s.pathPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &BuildError{Code: InvalidConfiguration, Message: fmt.Sprintf("invalid path pattern %q", p), Cause: err}
		}
		f.paths = append(f.paths, re)
	}
	return f, nil
}

func (f *operationFilter) allows(path string, method HttpMethod, tags []string) bool {
	if f.methods != nil {
		if _, ok := f.methods[method]; !ok {
			return false
		}
	}
	if len(f.paths) > 0 {
		matched := false
		for _, re := range f.paths {
			if re.MatchString(path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, t := range tags {
		if _, ok := f.exclude[t]; ok {
			return false
		}
	}
	if f.include != nil {
		for _, t := range tags {
			if _, ok := f.include[t]; ok {
				return true
			}
		}
		return false
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// State is the mutable context of one document construction. It is handed
// to grouping strategies and must not be retained after Build returns.
type State struct {
	in     *input.Document
	gen    Generator
	log    *zap.Logger
	doc    *Document
	filter *operationFilter

	postSchema   SchemaPostProcessor
	postDocument DocumentPostProcessor

	// cache maps a resolved schema node to the schema built from it.
	cache map[*yaml.Node]SchemaID
	// building holds schemas whose construction has started but not ended,
	// and stack lists them in the order they started.
	building map[SchemaID]struct{}
	stack    []SchemaID
	// waiting holds work that needs the native type of a collection which
	// is still being built.
	waiting map[SchemaID][]func() error
	// stringNode backs every STRING fallback usage.
	stringNode *yaml.Node
}

func newState(in *input.Document, gen Generator, s buildSettings) (*State, error) {
	filter, err := newOperationFilter(s)
	if err != nil {
		return nil, err
	}
	st := &State{
		in:       in,
		gen:      gen,
		log:      s.logger,
		filter:   filter,
		cache:    make(map[*yaml.Node]SchemaID),
		building: make(map[SchemaID]struct{}),
		waiting:  make(map[SchemaID][]func() error),
		stringNode: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "type"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "string"},
		}},
		doc: &Document{Schemas: ordered.New[string, SchemaID]()},
	}
	if pp, ok := gen.(SchemaPostProcessor); ok {
		st.postSchema = pp
	}
	if pp, ok := gen.(DocumentPostProcessor); ok {
		st.postDocument = pp
	}
	return st, nil
}

func (s *State) Generator() Generator       { return s.gen }
func (s *State) Logger() *zap.Logger        { return s.log }
func (s *State) Document() *Document        { return s.doc }
func (s *State) Input() *input.Document     { return s.in }
func (s *State) schema(id SchemaID) *Schema { return s.doc.Schema(id) }

// scope returns the naming index of owner, creating it on first use.
func (s *State) scope(owner SchemaID) *ordered.Map[string, SchemaID] {
	if !owner.Valid() {
		return s.doc.Schemas
	}
	o := s.schema(owner)
	if o.Schemas == nil {
		o.Schemas = ordered.New[string, SchemaID]()
	}
	return o.Schemas
}

func (s *State) scopedName(owner SchemaID, name string) []string {
	if !owner.Valid() {
		return []string{name}
	}
	parent := s.schema(owner).ScopedName
	out := make([]string, 0, len(parent)+1)
	out = append(out, parent...)
	return append(out, name)
}

// lookup resolves a local reference through the input document.
func (s *State) lookup(ref, pointer string, at *yaml.Node) (*yaml.Node, error) {
	target, err := s.in.Get(ref)
	if err != nil {
		be := newBuildError(MissingReference, pointer, at, "cannot resolve %q", ref)
		be.Cause = err
		return nil, be
	}
	return target, nil
}

func joinPointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(input.EscapePointerToken(t))
	}
	return b.String()
}

package input

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the major version of the input document format.
type Version int

const (
	VersionUnknown Version = 0
	// V2 is Swagger 2.0: inline-typed parameters, consumes/produces, definitions.
	V2 Version = 2
	// V3 is OpenAPI 3.x: schema parameters, content maps, components.
	V3 Version = 3
)

func (v Version) String() string {
	switch v {
	case V2:
		return "2.0"
	case V3:
		return "3.x"
	default:
		return "unknown"
	}
}

// Document is a parsed input document with a reference lookup capability.
// The tree is kept as yaml nodes so mapping order from the source survives.
type Document struct {
	// Root is the top-level mapping node.
	Root *yaml.Node
	// Version is the detected major format version.
	Version Version
	// RawVersion is the literal value of the openapi/swagger field.
	RawVersion string
	// Location is the file path or URL the document was read from.
	Location string
}

// Parse builds a Document from raw YAML or JSON bytes without validating it.
func Parse(data []byte, location string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{Code: ParseError, Message: fmt.Sprintf("parse %s: %v", location, err), Location: location, Cause: err}
	}
	mapping := Resolve(&root)
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil, &LoadError{Code: ParseError, Message: "input: document root must be a mapping", Location: location}
	}
	version, raw, err := detectVersion(mapping)
	if err != nil {
		return nil, &LoadError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}
	return &Document{Root: mapping, Version: version, RawVersion: raw, Location: location}, nil
}

// detectVersion returns V3 for OpenAPI v3, V2 for Swagger v2, else error.
func detectVersion(root *yaml.Node) (Version, string, error) {
	if s := strings.TrimSpace(Str(root, "openapi")); strings.HasPrefix(s, "3.") {
		return V3, s, nil
	}
	if s := strings.TrimSpace(Str(root, "swagger")); strings.HasPrefix(s, "2.") {
		return V2, s, nil
	}
	return VersionUnknown, "", fmt.Errorf("input: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

// IsV31 reports whether the document declares OpenAPI 3.1 or later.
func (d *Document) IsV31() bool {
	if d.Version != V3 {
		return false
	}
	parts := strings.SplitN(d.RawVersion, ".", 3)
	if len(parts) < 2 {
		return false
	}
	minor, err := strconv.Atoi(parts[1])
	return err == nil && minor >= 1
}

// maxRefChain bounds how many $ref hops Get follows before reporting a loop.
const maxRefChain = 64

// Get resolves a local JSON pointer such as "#/components/schemas/Pet" to its
// node. When the target is itself a reference object the chain is followed,
// so callers always receive the final node. Only document-local pointers are
// supported.
func (d *Document) Get(pointer string) (*yaml.Node, error) {
	seen := make(map[string]struct{})
	current := pointer
	for hops := 0; hops < maxRefChain; hops++ {
		if _, dup := seen[current]; dup {
			return nil, &LoadError{Code: ReferenceError, Message: fmt.Sprintf("input: circular reference chain at %s", current), Location: d.Location, JSONPointer: pointer}
		}
		seen[current] = struct{}{}

		node, err := d.lookup(current)
		if err != nil {
			return nil, err
		}
		next, ok := Ref(node)
		if !ok {
			return node, nil
		}
		current = next
	}
	return nil, &LoadError{Code: ReferenceError, Message: fmt.Sprintf("input: reference chain from %s is too long", pointer), Location: d.Location, JSONPointer: pointer}
}

func (d *Document) lookup(pointer string) (*yaml.Node, error) {
	if !strings.HasPrefix(pointer, "#") {
		return nil, &LoadError{Code: ReferenceError, Message: fmt.Sprintf("input: external reference %q is not supported", pointer), Location: d.Location, JSONPointer: pointer}
	}
	path := strings.TrimPrefix(pointer, "#")
	node := d.Root
	if path == "" {
		return node, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, &LoadError{Code: ReferenceError, Message: fmt.Sprintf("input: malformed reference %q", pointer), Location: d.Location, JSONPointer: pointer}
	}
	for _, token := range strings.Split(path[1:], "/") {
		token = UnescapePointerToken(token)
		switch {
		case IsMapping(node):
			node = Field(node, token)
		case Resolve(node) != nil && Resolve(node).Kind == yaml.SequenceNode:
			idx, err := strconv.Atoi(token)
			items := Items(node)
			if err != nil || idx < 0 || idx >= len(items) {
				node = nil
			} else {
				node = items[idx]
			}
		default:
			node = nil
		}
		if node == nil {
			return nil, &LoadError{Code: ReferenceError, Message: fmt.Sprintf("input: reference %q not found", pointer), Location: d.Location, JSONPointer: pointer}
		}
	}
	return node, nil
}

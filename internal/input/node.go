package input

import (
	"iter"
	"strconv"
	"strings"

	"github.com/mark3labs/oapigen/internal/ordered"
	"gopkg.in/yaml.v3"
)

// Resolve strips document and alias wrappers so callers always see the
// underlying mapping, sequence or scalar node.
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// IsMapping reports whether n is a mapping node.
func IsMapping(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsNull reports whether n is absent or an explicit null.
func IsNull(n *yaml.Node) bool {
	n = Resolve(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// Field returns the value stored under key in a mapping node, or nil.
func Field(n *yaml.Node, key string) *yaml.Node {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return Resolve(n.Content[i+1])
		}
	}
	return nil
}

// Has reports whether a mapping node defines key.
func Has(n *yaml.Node, key string) bool {
	return Field(n, key) != nil
}

// Str returns the scalar value under key, or "".
func Str(n *yaml.Node, key string) string {
	v := Field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
		return ""
	}
	return v.Value
}

// Bool returns the boolean under key and whether it was present and valid.
func Bool(n *yaml.Node, key string) (bool, bool) {
	v := Field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false, false
	}
	b, err := strconv.ParseBool(v.Value)
	if err != nil {
		return false, false
	}
	return b, true
}

// Flag returns the boolean under key, treating absence as false.
func Flag(n *yaml.Node, key string) bool {
	b, _ := Bool(n, key)
	return b
}

// Int returns the integer under key, if present.
func Int(n *yaml.Node, key string) (int64, bool) {
	v := Field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return 0, false
	}
	i, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Float returns the number under key, if present.
func Float(n *yaml.Node, key string) (float64, bool) {
	v := Field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Strings returns the scalar items of the sequence under key. A lone scalar
// is returned as a single-element slice.
func Strings(n *yaml.Node, key string) []string {
	v := Field(n, key)
	if v == nil {
		return nil
	}
	if v.Kind == yaml.ScalarNode {
		if v.Tag == "!!null" {
			return nil
		}
		return []string{v.Value}
	}
	var out []string
	for _, item := range Items(v) {
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	return out
}

// Pairs iterates over the key/value pairs of a mapping node in source order.
func Pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	m := Resolve(n)
	return func(yield func(string, *yaml.Node) bool) {
		if m == nil || m.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(m.Content); i += 2 {
			if !yield(m.Content[i].Value, Resolve(m.Content[i+1])) {
				return
			}
		}
	}
}

// Items returns the entries of a sequence node.
func Items(n *yaml.Node) []*yaml.Node {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, Resolve(c))
	}
	return out
}

// Ref returns the $ref target of n when n is a reference object.
func Ref(n *yaml.Node) (string, bool) {
	v := Field(n, "$ref")
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// Decode converts n into plain Go values (maps, slices, strings, numbers).
func Decode(n *yaml.Node) (any, error) {
	n = Resolve(n)
	if n == nil {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Extensions collects the x- prefixed entries of a mapping node in source
// order. It returns nil when there are none.
func Extensions(n *yaml.Node) *ordered.Map[string, any] {
	var out *ordered.Map[string, any]
	for k, v := range Pairs(n) {
		if !strings.HasPrefix(strings.ToLower(k), "x-") {
			continue
		}
		val, err := Decode(v)
		if err != nil {
			val = v.Value
		}
		if out == nil {
			out = ordered.New[string, any]()
		}
		out.Set(k, val)
	}
	return out
}

// Where returns a short "line:column" position for diagnostics.
func Where(n *yaml.Node) string {
	if n == nil || n.Line == 0 {
		return ""
	}
	return strconv.Itoa(n.Line) + ":" + strconv.Itoa(n.Column)
}

// EscapePointerToken escapes a single JSON pointer reference token.
func EscapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

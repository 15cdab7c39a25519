package codegen

import (
	"strings"

	"github.com/mark3labs/oapigen/internal/input"
	"gopkg.in/yaml.v3"
)

// resolve returns the node a reference object points to, or n itself when n
// is not a reference. ref is the followed pointer, if any.
func (s *State) resolve(n *yaml.Node, pointer string) (resolved *yaml.Node, ref string, err error) {
	ref, ok := input.Ref(n)
	if !ok {
		return input.Resolve(n), "", nil
	}
	target, err := s.lookup(ref, pointer, n)
	if err != nil {
		return nil, ref, err
	}
	return target, ref, nil
}

// nameFromRef returns the last token of a reference pointer.
func nameFromRef(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	} else {
		ref = strings.TrimPrefix(ref, "#")
	}
	return input.UnescapePointerToken(ref)
}

package input

import (
	"fmt"

	"github.com/speakeasy-api/openapi-overlay/pkg/loader"
	"gopkg.in/yaml.v3"
)

// applyOverlay applies an OpenAPI Overlay document to doc in place. The
// overlay targets are JSONPath expressions evaluated against the yaml tree,
// so the mapping order of untouched nodes is preserved.
func applyOverlay(doc *Document, path string) error {
	ov, err := loader.LoadOverlay(path)
	if err != nil {
		return &LoadError{Code: OverlayError, Message: fmt.Sprintf("load overlay %s: %v", path, err), Location: path, Cause: err}
	}

	root := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc.Root}}
	if err := ov.ApplyTo(root); err != nil {
		return &LoadError{Code: OverlayError, Message: fmt.Sprintf("apply overlay %s: %v", path, err), Location: doc.Location, Cause: err}
	}

	mapping := Resolve(root)
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return &LoadError{Code: OverlayError, Message: "input: overlay produced a non-mapping document", Location: doc.Location}
	}
	version, raw, err := detectVersion(mapping)
	if err != nil {
		return &LoadError{Code: OverlayError, Message: err.Error(), Location: doc.Location, Cause: err}
	}
	doc.Root = mapping
	doc.Version = version
	doc.RawVersion = raw
	return nil
}

package codegen

import (
	"fmt"

	"go.uber.org/zap"
)

// postProcessSchemas offers every schema to the generator's schema hook and
// honours exclusions. A schema that other schemas link to cannot be
// excluded.
func (s *State) postProcessSchemas() error {
	if s.postSchema == nil {
		return nil
	}
	for i := 0; i < len(s.doc.Arena); i++ {
		sch := s.doc.Arena[i]
		if s.postSchema.PostProcessSchema(sch, s.doc) != PostProcessExclude {
			continue
		}
		if sch.linked() {
			return newBuildError(InvalidConfiguration, sch.Pointer, sch.node,
				"cannot exclude schema %q: it takes part in an inheritance or discriminator relation", sch.FullName())
		}
		if sch.Indexed {
			s.scope(sch.Owner).Delete(sch.Name)
			sch.Indexed = false
		}
		sch.Excluded = true
		s.log.Debug("schema excluded", zap.String("pointer", sch.Pointer), zap.String("name", sch.FullName()))
	}
	return nil
}

func (s *State) postProcessDocument() error {
	if s.postDocument == nil {
		return nil
	}
	if err := s.postDocument.PostProcessDocument(s.doc); err != nil {
		return fmt.Errorf("post-process document: %w", err)
	}
	return nil
}

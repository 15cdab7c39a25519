package golang

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/oapigen/internal/codegen"
)

// PlannedFile describes a file the exporter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// snapshot is the document file: the model plus what a template needs to
// place it.
type snapshot struct {
	PackageName string            `json:"packageName"`
	Document    *codegen.Document `json:"document"`
}

type groupSnapshot struct {
	PackageName string                  `json:"packageName"`
	ClassName   string                  `json:"className"`
	Group       *codegen.OperationGroup `json:"group"`
}

// Plan renders every output file of doc without writing anything. Paths
// are slash-separated and sorted.
func (g *Generator) Plan(doc *codegen.Document) (map[string][]byte, []PlannedFile, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("golang: nil document")
	}
	files := map[string][]byte{}

	data, err := json.MarshalIndent(snapshot{PackageName: g.cfg.PackageName, Document: doc}, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal %s: %w", g.cfg.OutputFile, err)
	}
	files[g.cfg.OutputFile] = append(data, '\n')

	for _, group := range doc.Groups {
		rel := path.Join("groups", fileName(group.Name)+".json")
		if _, dup := files[rel]; dup {
			return nil, nil, fmt.Errorf("golang: groups %q map to the same file %s", group.Name, rel)
		}
		data, err := json.MarshalIndent(groupSnapshot{
			PackageName: g.cfg.PackageName,
			ClassName:   g.ToOperationGroupName(group.Name),
			Group:       group,
		}, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("marshal %s: %w", rel, err)
		}
		files[rel] = append(data, '\n')
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, p)
	}
	sort.Strings(rels)
	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}
	return files, planned, nil
}

// ExportTemplates writes the document snapshot and one file per operation
// group under outputPath. In dry-run mode the plan is printed instead.
func (g *Generator) ExportTemplates(ctx context.Context, outputPath string, doc *codegen.Document) error {
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("golang: output path is required")
	}
	files, planned, err := g.Plan(doc)
	if err != nil {
		return err
	}
	if g.cfg.DryRun {
		fmt.Fprintf(g.out, "Planned files (%d) under %s:\n", len(planned), outputPath)
		for _, pf := range planned {
			fmt.Fprintf(g.out, "  %s (%d bytes)\n", pf.RelPath, pf.Size)
		}
		return nil
	}
	return writeFiles(ctx, outputPath, files, g.cfg.Force)
}

func writeFiles(ctx context.Context, outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("golang: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := filepath.Join(abs, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/mark3labs/oapigen/internal/generator"
	"github.com/mark3labs/oapigen/internal/input"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// File systems stamp mtimes from a coarse clock, so a file written right
// after a run starts may look older than the run.
const mtimeSlack = time.Second

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the document model from an OpenAPI/Swagger document and export it",
		Long: "Build the generator-neutral document model from an OpenAPI/Swagger document " +
			"and hand it to a generator for export. Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  oapigen generate --input spec.yaml --generator go --output ./out --generator-option packageName=petstore
  oapigen --config oapigen.yaml generate --force --dry-run
  oapigen generate -c oapigen.yaml --watch --clean`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.StringP("output", "o", "", "Output directory (derived from the document title when omitted)")
	flags.String("generator", "", "Generator to export with (go|test); defaults to go")
	flags.String("overlay", "", "OpenAPI Overlay document applied before building")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("operations", nil, "Only include these HTTP methods")
	flags.StringSlice("paths", nil, "Only include paths matching these regular expressions")
	flags.StringToString("generator-option", nil, "Generator option as key=value (repeatable)")
	flags.Bool("clean", false, "Remove stale generated files after exporting")
	flags.Bool("watch", false, "Rebuild whenever the input, overlay or config changes")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")
	flags.String("log-file", "", "Also write JSON logs to this file, rotated")

	return cmd
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log, closeLog := newLogger(os.Stderr, cfg.Verbose, cfg.LogFile)
	defer closeLog()

	if cfg.Watch {
		return watchAndGenerate(ctx, cfg, log)
	}
	p, err := newPipeline(cfg, log, cfg.Force)
	if err != nil {
		return err
	}
	return p.run(ctx)
}

// pipeline is one configured load, build and export pass.
type pipeline struct {
	cfg *GenerateConfig
	log *zap.Logger
	gen generator.Generator
}

func newPipeline(cfg *GenerateConfig, log *zap.Logger, force bool) (*pipeline, error) {
	gen, err := generator.New(cfg.Generator, generator.Options{
		Settings: cfg.GeneratorOptions,
		Force:    force,
		DryRun:   cfg.DryRun,
	})
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("generate: %v", err))
	}
	return &pipeline{cfg: cfg, log: log, gen: gen}, nil
}

func (p *pipeline) run(ctx context.Context) error {
	start := time.Now()
	cfg := p.cfg

	// 1) Load the document (file or http/https URL) with validation and overlay
	var loadOpts []input.Option
	if cfg.Overlay != "" {
		loadOpts = append(loadOpts, input.WithOverlay(cfg.Overlay))
	}
	in, err := input.Load(ctx, cfg.Input, loadOpts...)
	if err != nil {
		return friendlyLoadError(err)
	}
	p.log.Debug("input loaded", zap.String("location", in.Location), zap.Stringer("version", in.Version))

	// 2) Build the document model with the configured filters
	doc, err := codegen.Build(ctx, in, p.gen,
		codegen.WithLogger(p.log),
		codegen.WithIncludeTags(cfg.IncludeTags...),
		codegen.WithExcludeTags(cfg.ExcludeTags...),
		codegen.WithMethods(cfg.Operations...),
		codegen.WithPathPatterns(cfg.Paths...),
	)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	// 3) Export
	outDir := cfg.Output
	if outDir == "" {
		outDir = deriveOutputDir(doc.Info.Title)
	}
	absOut := outDir
	if ap, err := filepath.Abs(outDir); err == nil {
		absOut = ap
	}
	if err := p.gen.ExportTemplates(ctx, outDir, doc); err != nil {
		return wrapOutputError(err, absOut)
	}

	// 4) Clean files the export did not touch
	if cfg.Clean && !cfg.DryRun {
		removed, err := cleanStale(outDir, p.gen.CleanPathPatterns(), start.Add(-mtimeSlack), p.log)
		if err != nil {
			return err
		}
		p.log.Debug("cleaned output", zap.Int("removed", removed))
	}

	p.log.Info("generated",
		zap.String("output", absOut),
		zap.Int("groups", len(doc.Groups)),
		zap.Int("models", doc.Schemas.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// friendlyLoadError maps structured loader errors into friendly messages.
func friendlyLoadError(err error) error {
	var le *input.LoadError
	if !errors.As(err, &le) {
		return err
	}
	msg := fmt.Sprintf("input: %s", le.Message)
	if le.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
	}
	if le.JSONPointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, le.JSONPointer)
	}
	return withUsage(err, msg)
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return withUsage(err, fmt.Sprintf("output error for %s: %s\nHint: choose a different --output or use --force when appropriate.", outDir, msg))
	}
	return err
}

// deriveOutputDir turns a document title into a directory name.
func deriveOutputDir(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	repl := strings.NewReplacer("/", " ", "_", " ", ".", " ", ",", " ", ":", " ")
	var b strings.Builder
	for _, r := range repl.Replace(t) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	parts := strings.Fields(b.String())
	if len(parts) == 0 {
		return "generated"
	}
	return strings.Join(parts, "-")
}

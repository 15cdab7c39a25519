// Package generator maps generator names to factories so the CLI can pick
// one from configuration.
package generator

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/mark3labs/oapigen/internal/generator/golang"
	"github.com/mark3labs/oapigen/internal/generator/testgen"
	"gopkg.in/yaml.v3"
)

// Generator is what the CLI drives: the build hooks plus the output phase.
type Generator interface {
	codegen.Generator
	codegen.Exporter
}

// Options carries what the CLI hands to a factory.
type Options struct {
	// Settings is the free-form generatorOptions map of the config file.
	Settings map[string]any
	Force    bool
	DryRun   bool
	// PlanOutput receives the dry-run plan. Nil means stdout.
	PlanOutput io.Writer
}

// Factory builds a configured generator.
type Factory func(Options) (Generator, error)

var factories = map[string]Factory{
	"go":   newGolang,
	"test": newTestgen,
}

// Names lists the registered generators in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the generator registered under name.
func New(name string, opts Options) (Generator, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q (allowed: %s)", name, strings.Join(Names(), ", "))
	}
	return f(opts)
}

func newGolang(opts Options) (Generator, error) {
	cfg, err := golang.DecodeConfig(opts.Settings)
	if err != nil {
		return nil, err
	}
	cfg.Force = opts.Force
	cfg.DryRun = opts.DryRun
	var gopts []golang.Option
	if opts.PlanOutput != nil {
		gopts = append(gopts, golang.WithPlanOutput(opts.PlanOutput))
	}
	return golang.New(cfg, gopts...)
}

type testgenSettings struct {
	Grouping string `yaml:"grouping"`
}

func newTestgen(opts Options) (Generator, error) {
	var settings testgenSettings
	if len(opts.Settings) > 0 {
		raw, err := yaml.Marshal(opts.Settings)
		if err != nil {
			return nil, fmt.Errorf("testgen: encode options: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&settings); err != nil {
			return nil, fmt.Errorf("testgen: decode options: %w", err)
		}
	}
	grouping, ok := codegen.StrategyNamed(settings.Grouping)
	if !ok {
		return nil, fmt.Errorf("testgen: unknown grouping %q", settings.Grouping)
	}
	return testgen.New(testgen.Config{Grouping: grouping}), nil
}

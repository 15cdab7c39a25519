package cli

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/oapigen/internal/generator"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input       string
	Output      string
	Generator   string
	Overlay     string
	IncludeTags []string
	ExcludeTags []string
	// Operations limits the HTTP methods that are built. Empty means all.
	Operations []string
	// Paths holds regular expressions; only matching paths are built.
	Paths   []string
	Clean   bool
	Watch   bool
	DryRun  bool
	Force   bool
	Verbose bool
	LogFile string
	// GeneratorOptions is handed to the generator factory as is.
	GeneratorOptions map[string]any
	ConfigPath       string

	// reload re-resolves the configuration from the same command line and
	// config file. Watch mode calls it before every rebuild.
	reload func() (*GenerateConfig, error)
}

var httpMethods = []string{"GET", "HEAD", "OPTIONS", "POST", "PUT", "PATCH", "DELETE", "TRACE"}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Generator: "go"}
}

func resolveGenerateConfig(flags *pflag.FlagSet) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(flags, &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.reload = func() (*GenerateConfig, error) { return resolveGenerateConfig(flags) }
	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"input", &cfg.Input},
		{"output", &cfg.Output},
		{"generator", &cfg.Generator},
		{"overlay", &cfg.Overlay},
		{"log-file", &cfg.LogFile},
	}
	for _, f := range strs {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(value)
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{"include-tags", &cfg.IncludeTags},
		{"exclude-tags", &cfg.ExcludeTags},
		{"operations", &cfg.Operations},
		{"paths", &cfg.Paths},
	}
	for _, f := range lists {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetStringSlice(f.name)
		if err != nil {
			return err
		}
		*f.dst = sanitizeList(value)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"clean", &cfg.Clean},
		{"watch", &cfg.Watch},
		{"dry-run", &cfg.DryRun},
		{"force", &cfg.Force},
		{"verbose", &cfg.Verbose},
	}
	for _, f := range bools {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetBool(f.name)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	if flags.Changed("generator-option") {
		pairs, err := flags.GetStringToString("generator-option")
		if err != nil {
			return err
		}
		if cfg.GeneratorOptions == nil {
			cfg.GeneratorOptions = make(map[string]any, len(pairs))
		}
		for key, raw := range pairs {
			// Decode as YAML so "true" and "3" keep their scalar types.
			var value any
			if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
				return newUsageError(fmt.Sprintf("generate: --generator-option %s: %v", key, err))
			}
			cfg.GeneratorOptions[strings.TrimSpace(key)] = value
		}
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Output = strings.TrimSpace(c.Output)
	c.Generator = strings.ToLower(strings.TrimSpace(c.Generator))
	c.Overlay = strings.TrimSpace(c.Overlay)
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.IncludeTags = sanitizeList(c.IncludeTags)
	c.ExcludeTags = sanitizeList(c.ExcludeTags)
	c.Operations = sanitizeList(c.Operations)
	c.Paths = sanitizeList(c.Paths)
	for i, op := range c.Operations {
		c.Operations[i] = strings.ToUpper(op)
	}
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	if c.Generator == "" {
		c.Generator = "go"
	}
	if !slices.Contains(generator.Names(), c.Generator) {
		return newUsageError(fmt.Sprintf("generate: unsupported --generator %q (allowed: %s)",
			c.Generator, strings.Join(generator.Names(), ", ")))
	}

	for _, op := range c.Operations {
		if !slices.Contains(httpMethods, op) {
			return newUsageError(fmt.Sprintf("generate: unknown operation %q (allowed: %s)",
				op, strings.Join(httpMethods, ", ")))
		}
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	if c.Watch && isURL(c.Input) {
		return newUsageError("generate: --watch needs a local --input file")
	}

	return nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "input":
			cfg.Input, err = valueAsString(value)
		case "output", "out":
			cfg.Output, err = valueAsString(value)
		case "generator":
			cfg.Generator, err = valueAsString(value)
		case "overlay":
			cfg.Overlay, err = valueAsString(value)
		case "includetags":
			cfg.IncludeTags, err = valueAsStringSlice(value)
		case "excludetags":
			cfg.ExcludeTags, err = valueAsStringSlice(value)
		case "operations":
			cfg.Operations, err = valueAsStringSlice(value)
		case "paths":
			cfg.Paths, err = valueAsStringSlice(value)
		case "clean":
			cfg.Clean, err = valueAsBool(value)
		case "watch":
			cfg.Watch, err = valueAsBool(value)
		case "dryrun":
			cfg.DryRun, err = valueAsBool(value)
		case "force":
			cfg.Force, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		case "logfile":
			cfg.LogFile, err = valueAsString(value)
		case "generatoroptions":
			cfg.GeneratorOptions, err = valueAsMap(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return sanitizeList(strings.Split(val, ",")), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return sanitizeList(items), nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsMap(v any) (map[string]any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return val, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
}

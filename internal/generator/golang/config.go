package golang

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultOutputFile   = "document.json"
	defaultDateTimeType = "time.Time"
)

// Config is the typed configuration of the Go generator. It is decoded from
// the free-form generatorOptions map of the CLI config.
type Config struct {
	// PackageName is the Go package the rendered code will live in.
	PackageName string `yaml:"packageName" validate:"required,goident"`
	// OutputFile is the name of the document snapshot, relative to the
	// output directory.
	OutputFile   string `yaml:"outputFile" validate:"required,excludesall=/"`
	DateTimeType string `yaml:"dateTimeType" validate:"oneof=time.Time string"`
	// UseOptionalPointers makes optional and nullable usages pointers.
	UseOptionalPointers bool   `yaml:"useOptionalPointers"`
	Grouping            string `yaml:"grouping" validate:"omitempty,oneof=path tag tag-or-path"`
	// ExcludeSchemas lists top-level schema names left out of the output.
	ExcludeSchemas []string `yaml:"excludeSchemas" validate:"dive,required"`
	// Watch lists extra files whose changes trigger a rebuild in watch mode.
	Watch []string `yaml:"watch" validate:"dive,required"`

	// Force overwrites a non-empty output directory. DryRun only plans.
	// Both come from the CLI, not from generatorOptions.
	Force  bool `yaml:"-"`
	DryRun bool `yaml:"-"`
}

// configRules are the custom validation tags used by Config.
var configRules = map[string]validator.Func{
	"goident": func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && !token.IsKeyword(s)
	},
}

var configValidator = sync.OnceValues(func() (*validator.Validate, error) {
	return newValidator(configRules)
})

func newValidator(rules map[string]validator.Func) (*validator.Validate, error) {
	v := validator.New()
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("golang: register %q rule: %w", tag, err)
		}
	}
	return v, nil
}

// DecodeConfig reads generator options into a Config, rejecting unknown
// keys, then applies defaults and validates the result.
func DecodeConfig(options map[string]any) (Config, error) {
	var cfg Config
	if len(options) > 0 {
		raw, err := yaml.Marshal(options)
		if err != nil {
			return Config{}, fmt.Errorf("golang: encode options: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("golang: decode options: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.OutputFile) == "" {
		c.OutputFile = defaultOutputFile
	}
	if c.DateTimeType == "" {
		c.DateTimeType = defaultDateTimeType
	}
}

// Validate checks c against its struct rules and reports every failing
// field by its options key.
func (c Config) Validate() error {
	v, err := configValidator()
	if err != nil {
		return err
	}
	err = v.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("golang: invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", optionKey(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("golang: invalid config: %s", strings.Join(msgs, "; "))
}

// optionKey turns a struct field name into its options key.
func optionKey(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return optionKey(field[:i]) + field[i:]
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
